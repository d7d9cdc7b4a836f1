package store

import "time"

type options struct {
	latency Latency
	now     func() time.Time
	lastID  int
}

// Option configures a ProjectStore or TaskStore
type Option func(*options)

// WithLatency sets the simulated round-trip delay
func WithLatency(l Latency) Option {
	return func(o *options) {
		o.latency = l
	}
}

// WithClock overrides the time source used for createdAt and completedAt
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLastID raises the id high-water mark so ids handed out by an earlier
// session are never reused, even when the record carrying them was deleted.
func WithLastID(id int) Option {
	return func(o *options) {
		o.lastID = id
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
