package download

import (
	"context"
	"sync"
	"time"
)

// Pacer spaces out successive download attempts.
//
// The Manager calls Wait before each attempt's first network call and
// Completed when the attempt finishes (successfully or not). Implementations
// decide how much time must elapse in between; tests inject a zero-interval
// pacer so they run instantly.
type Pacer interface {
	// Wait blocks until the next attempt may start, or until ctx is done.
	Wait(ctx context.Context) error

	// Completed records that the current attempt has finished.
	Completed()
}

// IntervalPacer enforces a minimum gap after each completed attempt before
// the next one may start. It is the production pacing policy: a fixed
// spacing keeps sequential downloads under the provider's implicit rate
// limit without a token-bucket dependency.
//
// IntervalPacer is safe for concurrent use; when the download limit is
// raised above one, attempts still start at least one interval apart.
type IntervalPacer struct {
	interval time.Duration

	mu      sync.Mutex
	readyAt time.Time
}

// NewIntervalPacer creates a pacer with the given minimum gap.
// A non-positive interval yields a pacer that never waits.
func NewIntervalPacer(interval time.Duration) *IntervalPacer {
	return &IntervalPacer{interval: interval}
}

// Wait blocks until the minimum gap since the last completed attempt has
// elapsed. The first attempt never waits.
func (p *IntervalPacer) Wait(ctx context.Context) error {
	if p.interval <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	wait := time.Until(p.readyAt)
	// Claim the slot while still holding the lock so concurrent waiters
	// line up one interval apart instead of waking together.
	if wait > 0 {
		p.readyAt = p.readyAt.Add(p.interval)
	} else {
		p.readyAt = time.Now().Add(p.interval)
	}
	p.mu.Unlock()

	if wait <= 0 {
		return ctx.Err()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// Completed pushes the next allowed start to one interval after now, so
// the gap is measured from the previous attempt's completion.
func (p *IntervalPacer) Completed() {
	if p.interval <= 0 {
		return
	}

	p.mu.Lock()
	if next := time.Now().Add(p.interval); next.After(p.readyAt) {
		p.readyAt = next
	}
	p.mu.Unlock()
}
