// Package testutils 提供单元测试共用的替身实现
package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
)

// RecordLogger 记录所有日志行, 便于断言日志级别和内容
type RecordLogger struct {
	mu    sync.Mutex
	Lines []string
}

func NewRecordLogger() *RecordLogger { return &RecordLogger{} }

func (l *RecordLogger) add(level string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Lines = append(l.Lines, level+" "+msg)
}

// Count 返回指定级别的日志条数
func (l *RecordLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.Lines {
		if len(line) > len(level) && line[:len(level)+1] == level+" " {
			n++
		}
	}
	return n
}

func (l *RecordLogger) Init(bool) {}
func (l *RecordLogger) ShutdownCallback() global.Callable {
	return global.CallableFunc(func(context.Context) error { return nil })
}
func (l *RecordLogger) Slog() *slog.Logger                  { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
func (l *RecordLogger) Debug(msg string, _ ...interface{})  { l.add("DEBUG", msg) }
func (l *RecordLogger) DebugF(msg string, v ...interface{}) { l.add("DEBUG", fmt.Sprintf(msg, v...)) }
func (l *RecordLogger) Info(msg string, _ ...interface{})   { l.add("INFO", msg) }
func (l *RecordLogger) InfoF(msg string, v ...interface{})  { l.add("INFO", fmt.Sprintf(msg, v...)) }
func (l *RecordLogger) Warn(msg string, _ ...interface{})   { l.add("WARN", msg) }
func (l *RecordLogger) WarnF(msg string, v ...interface{})  { l.add("WARN", fmt.Sprintf(msg, v...)) }
func (l *RecordLogger) Error(msg string, _ ...interface{})  { l.add("ERROR", msg) }
func (l *RecordLogger) ErrorF(msg string, v ...interface{}) { l.add("ERROR", fmt.Sprintf(msg, v...)) }
func (l *RecordLogger) Fatal(msg string, _ ...interface{})  { l.add("FATAL", msg) }
func (l *RecordLogger) FatalF(msg string, v ...interface{}) { l.add("FATAL", fmt.Sprintf(msg, v...)) }
