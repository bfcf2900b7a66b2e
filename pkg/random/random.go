package random

import (
	"math/rand"
	"time"
)

// Jitter returns a random delay in [0, max)
// Example: Jitter(5*time.Minute) spreads a scheduled job over five minutes
func Jitter(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(max)))
}
