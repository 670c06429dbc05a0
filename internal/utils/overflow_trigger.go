// Package utils
package utils

import (
	"sync"
)

// OverflowTrigger 每累计 targetValue 次 Tick 调用一次 callback, callback 的错误原样返回
type OverflowTrigger struct {
	mu          sync.Mutex
	count       int
	targetValue int
	callback    func() error
}

func NewOverflowTrigger(targetValue int, callback func() error) *OverflowTrigger {
	return &OverflowTrigger{
		targetValue: targetValue,
		callback:    callback,
	}
}

func (trigger *OverflowTrigger) Tick() error {
	if trigger.targetValue <= 0 {
		return nil
	}
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	trigger.count++
	if trigger.count < trigger.targetValue {
		return nil
	}
	trigger.count = 0
	return trigger.callback()
}

// Pending 返回距离上次触发之后累计的次数
func (trigger *OverflowTrigger) Pending() int {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	return trigger.count
}

func (trigger *OverflowTrigger) Reset() {
	trigger.mu.Lock()
	defer trigger.mu.Unlock()
	trigger.count = 0
}
