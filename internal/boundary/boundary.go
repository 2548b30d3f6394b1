// Package boundary emits a one-shot "new day" signal when the wall clock
// crosses local midnight.
package boundary

import (
	"context"
	"sync"
	"time"

	"github.com/mcoot/pointsync/internal/dependencies/clock"
)

// CheckInterval is the granularity of the recurring boundary check
const CheckInterval = time.Second

// Boundary watches for local-midnight crossings.
// It is robust to the process being dormant across one or more boundaries:
// the stored reset instant is advanced day by day until it is back in the
// future, and a single signal is emitted per crossing, however large the gap.
type Boundary struct {
	clock    clock.Clock
	onNewDay func(now time.Time)

	mu        sync.Mutex
	nextReset time.Time
}

// New creates a boundary watcher. onNewDay is invoked once per calendar-day
// crossing with the current time.
func New(clk clock.Clock, onNewDay func(now time.Time)) *Boundary {
	return &Boundary{
		clock:     clk,
		onNewDay:  onNewDay,
		nextReset: nextMidnight(clk.Now()),
	}
}

// NextReset returns the next local-midnight reset instant
func (b *Boundary) NextReset() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nextReset
}

// CheckNow evaluates the boundary on demand. When the boundary has been
// crossed it re-arms the following midnight immediately and fires the
// signal exactly once. Returns whether a crossing was detected.
func (b *Boundary) CheckNow() bool {
	now := b.clock.Now()

	b.mu.Lock()
	crossed := !now.Before(b.nextReset)
	for !now.Before(b.nextReset) {
		b.nextReset = b.nextReset.AddDate(0, 0, 1)
	}
	b.mu.Unlock()

	if crossed && b.onNewDay != nil {
		b.onNewDay(now)
	}
	return crossed
}

// Run performs the recurring boundary check until ctx is done
func (b *Boundary) Run(ctx context.Context) {
	ticker := time.NewTicker(CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.CheckNow()
		}
	}
}

// nextMidnight returns the first local midnight after t
func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
