package prng

import (
	"context"
	"log"
	"time"

	"github.com/jonboulle/clockwork"
)

// ReseederOption represents a modification to the default behavior of a
// ReseederLoop.
type ReseederOption func(*ReseederLoop)

// WithClock overrides the clock a ReseederLoop uses for its backoff
// timer, letting tests drive retries deterministically with a
// clockwork.FakeClock.
func WithClock(clock clockwork.Clock) ReseederOption {
	return func(r *ReseederLoop) { r.clock = clock }
}

// WithLogger overrides the logger a ReseederLoop uses to report failed
// reseed attempts.
func WithLogger(logger *log.Logger) ReseederOption {
	return func(r *ReseederLoop) { r.logger = logger }
}

// WithContext overrides the parent context a ReseederLoop derives its
// lifecycle from. Canceling it stops the loop the same way Stop does.
func WithContext(ctx context.Context) ReseederOption {
	return func(r *ReseederLoop) { r.parentCtx = ctx }
}

// WithMinBackoff overrides the delay before the first retry of a failed
// reseed attempt.
func WithMinBackoff(d time.Duration) ReseederOption {
	return func(r *ReseederLoop) { r.minBackoff = d }
}

// WithMaxBackoff overrides the ceiling the retry delay backs off to.
func WithMaxBackoff(d time.Duration) ReseederOption {
	return func(r *ReseederLoop) { r.maxBackoff = d }
}
