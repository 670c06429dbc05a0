// Package utils
package utils

import (
	"errors"
	"testing"
)

func TestOverflowTrigger(t *testing.T) {
	fired := 0
	trigger := NewOverflowTrigger(3, func() error {
		fired++
		return nil
	})
	for i := 0; i < 7; i++ {
		if err := trigger.Tick(); err != nil {
			t.Fatalf("Tick returned %v", err)
		}
	}
	if fired != 2 {
		t.Errorf("callback fired %d times; expected 2", fired)
	}
	if trigger.Pending() != 1 {
		t.Errorf("Pending() = %d; expected 1", trigger.Pending())
	}
	trigger.Reset()
	if trigger.Pending() != 0 {
		t.Errorf("Pending() after Reset = %d; expected 0", trigger.Pending())
	}
}

func TestOverflowTriggerPropagatesError(t *testing.T) {
	boom := errors.New("flush failed")
	trigger := NewOverflowTrigger(1, func() error { return boom })
	if err := trigger.Tick(); !errors.Is(err, boom) {
		t.Errorf("Tick() = %v; expected %v", err, boom)
	}

	disabled := NewOverflowTrigger(0, func() error { return boom })
	if err := disabled.Tick(); err != nil {
		t.Errorf("disabled trigger returned %v", err)
	}
}
