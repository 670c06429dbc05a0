package telemetry

import (
	"math"
	"testing"
	"time"
)

func ptr(v float64) *float64 { return &v }

func TestAccumulatorKnownDistance(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(ptr(48.0), ptr(17.0))
	acc.Add(ptr(48.1), ptr(17.0))

	expected := EarthRadiusKm * 0.1 * math.Pi / 180
	if math.Abs(acc.TotalKm()-expected) > 1e-9 {
		t.Errorf("TotalKm = %v; expected %v", acc.TotalKm(), expected)
	}
	if acc.RoundedKm() != 11.12 {
		t.Errorf("RoundedKm = %v; expected 11.12", acc.RoundedKm())
	}
}

func TestAccumulatorConstantPosition(t *testing.T) {
	acc := NewAccumulator()
	for i := 0; i < 5; i++ {
		acc.Add(ptr(48.0), ptr(17.0))
	}
	if acc.RoundedKm() != 0 {
		t.Errorf("constant position gave %v km", acc.RoundedKm())
	}
}

func TestAccumulatorHoldsLastValidPair(t *testing.T) {
	withGap := NewAccumulator()
	withGap.Add(ptr(48.0), ptr(17.0))
	withGap.Add(nil, ptr(17.0))
	withGap.Add(ptr(48.05), nil)
	withGap.Add(ptr(48.1), ptr(17.0))

	direct := NewAccumulator()
	direct.Add(ptr(48.0), ptr(17.0))
	direct.Add(ptr(48.1), ptr(17.0))

	if withGap.TotalKm() != direct.TotalKm() {
		t.Errorf("null pairs broke the chain: %v != %v", withGap.TotalKm(), direct.TotalKm())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{26*time.Hour + 59*time.Second, "26:00:59"},
	}
	for _, test := range tests {
		if got := FormatDuration(test.duration); got != test.expected {
			t.Errorf("FormatDuration(%v) = %s; expected %s", test.duration, got, test.expected)
		}
	}
}
