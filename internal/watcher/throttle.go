package watcher

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle bounds how often change batches may turn into rebuilds.
// Debouncing collapses one editor save storm into one batch; the
// throttle caps the sustained batch rate, so a generator rewriting
// the whole source tree file by file cannot pin the builder.
type Throttle struct {
	bucket *rate.Limiter
}

// NewThrottle allows perSecond rebuilds sustained, with room for
// burst back-to-back ones.
func NewThrottle(perSecond float64, burst int) *Throttle {
	return &Throttle{bucket: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Allow reports whether a rebuild may start now.
func (t *Throttle) Allow() bool {
	return t.bucket.Allow()
}

// Wait blocks until a rebuild may start or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	return t.bucket.Wait(ctx)
}
