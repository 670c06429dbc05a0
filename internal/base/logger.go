package base

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
)

// LevelFatal 比 slog.LevelError 更高的日志级别, 仅用于启动阶段的致命错误
const LevelFatal = slog.Level(12)

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
	LevelFatal:      color.New(color.FgHiRed, color.Bold),
}

func levelName(level slog.Level) string {
	if level >= LevelFatal {
		return "FATAL"
	}
	return level.String()
}

type Logger struct {
	mu     sync.Mutex
	level  *slog.LevelVar
	logger *slog.Logger
	file   *os.File
}

func NewLogger() *Logger {
	level := &slog.LevelVar{}
	return &Logger{
		level:  level,
		logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})),
	}
}

func (l *Logger) Init(debug bool) {
	color.NoColor = color.NoColor || *global.NoLogColor

	var fileWriter io.Writer
	if path := *global.LogFilePath; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), global.DefaultDirectoryPermission); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "fail to create log directory: %v\n", err)
		} else if file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, global.DefaultFilePermissions); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "fail to open log file %s: %v\n", path, err)
		} else {
			l.file = file
			fileWriter = file
		}
	}

	l.setup(debug, os.Stdout, fileWriter)
	slog.SetDefault(l.logger)
}

func (l *Logger) setup(debug bool, console io.Writer, file io.Writer) {
	if debug {
		l.level.Set(slog.LevelDebug)
	} else {
		l.level.Set(slog.LevelInfo)
	}

	handlers := []slog.Handler{
		slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: l.level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key != slog.LevelKey || len(groups) > 0 {
					return a
				}
				level := a.Value.Any().(slog.Level)
				name := levelName(level)
				if c, ok := levelColors[level]; ok {
					name = c.Sprint(name)
				}
				return slog.String(slog.LevelKey, name)
			},
		}),
	}
	if file != nil {
		handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{
			Level: l.level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.LevelKey && len(groups) == 0 {
					return slog.String(slog.LevelKey, levelName(a.Value.Any().(slog.Level)))
				}
				return a
			},
		}))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(handlers) == 1 {
		l.logger = slog.New(handlers[0])
	} else {
		l.logger = slog.New(&fanoutHandler{handlers: handlers})
	}
}

func (l *Logger) Slog() *slog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logger
}

func (l *Logger) log(level slog.Level, msg string, v ...interface{}) {
	l.Slog().Log(context.Background(), level, msg, v...)
}

func (l *Logger) logf(level slog.Level, msg string, v ...interface{}) {
	logger := l.Slog()
	if !logger.Enabled(context.Background(), level) {
		return
	}
	logger.Log(context.Background(), level, fmt.Sprintf(msg, v...))
}

func (l *Logger) Debug(msg string, v ...interface{})  { l.log(slog.LevelDebug, msg, v...) }
func (l *Logger) DebugF(msg string, v ...interface{}) { l.logf(slog.LevelDebug, msg, v...) }
func (l *Logger) Info(msg string, v ...interface{})   { l.log(slog.LevelInfo, msg, v...) }
func (l *Logger) InfoF(msg string, v ...interface{})  { l.logf(slog.LevelInfo, msg, v...) }
func (l *Logger) Warn(msg string, v ...interface{})   { l.log(slog.LevelWarn, msg, v...) }
func (l *Logger) WarnF(msg string, v ...interface{})  { l.logf(slog.LevelWarn, msg, v...) }
func (l *Logger) Error(msg string, v ...interface{})  { l.log(slog.LevelError, msg, v...) }
func (l *Logger) ErrorF(msg string, v ...interface{}) { l.logf(slog.LevelError, msg, v...) }
func (l *Logger) Fatal(msg string, v ...interface{})  { l.log(LevelFatal, msg, v...) }
func (l *Logger) FatalF(msg string, v ...interface{}) { l.logf(LevelFatal, msg, v...) }

func (l *Logger) ShutdownCallback() global.Callable {
	return global.CallableFunc(func(_ context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.file == nil {
			return nil
		}
		err := errors.Join(l.file.Sync(), l.file.Close())
		l.file = nil
		return err
	})
}

// fanoutHandler 将同一条日志分发到多个 handler
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			errs = append(errs, handler.Handle(ctx, record.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: handlers}
}
