// Package log
package log

import (
	"log/slog"

	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
)

// LoggerInterface 全局日志接口, F 后缀的方法使用 printf 风格格式化
type LoggerInterface interface {
	Init(debug bool)
	ShutdownCallback() global.Callable
	// Slog 返回底层的 slog.Logger, 供 HTTP 访问日志等第三方中间件复用同一输出
	Slog() *slog.Logger
	Debug(msg string, v ...interface{})
	DebugF(msg string, v ...interface{})
	Info(msg string, v ...interface{})
	InfoF(msg string, v ...interface{})
	Warn(msg string, v ...interface{})
	WarnF(msg string, v ...interface{})
	Error(msg string, v ...interface{})
	ErrorF(msg string, v ...interface{})
	Fatal(msg string, v ...interface{})
	FatalF(msg string, v ...interface{})
}
