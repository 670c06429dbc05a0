// Package global
package global

import "context"

type Callable interface {
	Invoke(ctx context.Context) error
}

// CallableFunc 允许普通函数作为 Callable 注册到清理器
type CallableFunc func(ctx context.Context) error

func (f CallableFunc) Invoke(ctx context.Context) error { return f(ctx) }
