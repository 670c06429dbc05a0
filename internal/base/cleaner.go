package base

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	. "github.com/half-nothing/simple-fdr/internal/interfaces/global"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/utils"
)

// Cleaner 按注册的逆序执行关闭回调: 先停 HTTP 服务, 再关数据库, 最后关闭日志
type Cleaner struct {
	mu             sync.Mutex
	callbacks      []Callable
	cleaning       bool
	timeout        time.Duration
	loggerShutdown Callable
	logger         LoggerInterface
	exit           func(code int)
}

func NewCleaner(logger LoggerInterface) *Cleaner {
	return &Cleaner{
		callbacks:      make([]Callable, 0),
		timeout:        10 * time.Second,
		loggerShutdown: logger.ShutdownCallback(),
		logger:         logger,
		exit:           os.Exit,
	}
}

func (c *Cleaner) Add(callable Callable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cleaning {
		c.logger.DebugF("Shutdown in progress, dropping callback %T", callable)
		return
	}
	c.callbacks = append(c.callbacks, callable)
	c.logger.DebugF("Registered shutdown callback #%d (%T)", len(c.callbacks), callable)
}

// Clean 执行全部回调, 只会生效一次
func (c *Cleaner) Clean() {
	c.mu.Lock()
	if c.cleaning {
		c.mu.Unlock()
		return
	}
	c.cleaning = true
	callbacks := make([]Callable, len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	c.logger.DebugF("Running %d shutdown callbacks", len(callbacks))

	failed := 0
	utils.ReverseForEach(callbacks, func(idx int, callback Callable) {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := callback.Invoke(ctx); err != nil {
			failed++
			c.logger.ErrorF("Shutdown callback #%d (%T) failed: %v", idx+1, callback, err)
		}
	})

	if failed > 0 {
		c.logger.WarnF("Shutdown finished with %d failed callbacks", failed)
	} else {
		c.logger.Info("Shutdown finished, server offline")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.loggerShutdown.Invoke(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "LOGGER SHUTDOWN ERROR: %v\n", err)
	}
	c.exit(0)
}

func (c *Cleaner) Init() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
		c.logger.Info("Received interrupt signal, shutting down")
		c.Clean()
	}()
}
