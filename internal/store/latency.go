package store

import (
	"context"
	"math/rand/v2"
	"time"
)

// Latency is the artificial delay applied to every store operation to
// emulate a network round-trip. The zero value disables it.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// DefaultLatency matches the 200-500ms round-trip of the mock API
var DefaultLatency = Latency{Min: 200 * time.Millisecond, Max: 500 * time.Millisecond}

// duration picks a uniformly random delay in [Min, Max]
func (l Latency) duration() time.Duration {
	if l.Max <= 0 {
		return 0
	}
	lo := max(l.Min, 0)
	if l.Max <= lo {
		return lo
	}
	return lo + rand.N(l.Max-lo+1)
}

// wait blocks for the delay. Cancellation is honored only here, before any
// mutation has started.
func (l Latency) wait(ctx context.Context) error {
	d := l.duration()
	if d == 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
