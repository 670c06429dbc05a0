// Package utils
package utils

import "testing"

func TestCachedValueInvalidate(t *testing.T) {
	calls := 0
	value := NewCachedValue(0, func() *int {
		calls++
		v := calls
		return &v
	})
	if *value.GetValue() != 1 || *value.GetValue() != 1 {
		t.Fatalf("value regenerated before Invalidate, calls = %d", calls)
	}
	value.Invalidate()
	if got := *value.GetValue(); got != 2 {
		t.Errorf("GetValue() after Invalidate = %d; expected 2", got)
	}
}
