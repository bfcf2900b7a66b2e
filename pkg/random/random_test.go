package random

import (
	"testing"
	"time"
)

func TestJitter(t *testing.T) {
	tests := []struct {
		name string
		max  time.Duration
	}{
		{"five minutes", 5 * time.Minute},
		{"one nanosecond", time.Nanosecond},
		{"one hour", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Run multiple times to check range
			for i := 0; i < 100; i++ {
				result := Jitter(tt.max)
				if result < 0 || result >= tt.max {
					t.Errorf("Jitter(%v) = %v, want range [0, %v)", tt.max, result, tt.max)
				}
			}
		})
	}
}

func TestJitter_NonPositive(t *testing.T) {
	for _, max := range []time.Duration{0, -time.Second} {
		if got := Jitter(max); got != 0 {
			t.Errorf("Jitter(%v) = %v, want 0", max, got)
		}
	}
}
