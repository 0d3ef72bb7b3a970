// file: internal/watcher/aggregator.go
// version: 1.2.0
// guid: b7e4d1a9-3c52-48f0-9d6b-e20a5c83f714

package watcher

import (
	"sync"
	"time"
)

// Aggregator is the quiescence state machine. It alternates between
// idle and active: the first recorded event opens an episode and arms
// a timer for the configured delay, every further event pushes the
// deadline out by the full delay, and when the timer finally expires
// the settle callback fires exactly once and the machine returns to
// idle.
type Aggregator struct {
	delay  time.Duration
	settle func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	active  bool
	stopped bool

	// settleMu serializes settle callbacks and lets Stop wait out an
	// expiry that is already in flight.
	settleMu sync.Mutex
}

// NewAggregator creates an idle Aggregator. The settle callback is
// invoked without any internal lock held, so new events can accrue
// while it runs. Delay must be non-negative; zero means "settle as
// soon as the scheduler gets to it".
func NewAggregator(delay time.Duration, settle func()) *Aggregator {
	return &Aggregator{delay: delay, settle: settle}
}

// Event records one kept filesystem event. Calling Event after Stop is
// a no-op.
func (a *Aggregator) Event() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopped {
		return
	}

	a.active = true
	a.gen++
	gen := a.gen

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, func() { a.expire(gen) })
}

// Active reports whether an episode is currently open.
func (a *Aggregator) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

func (a *Aggregator) expire(gen uint64) {
	a.settleMu.Lock()
	defer a.settleMu.Unlock()

	a.mu.Lock()
	if a.stopped || gen != a.gen || !a.active {
		// A newer event re-armed the timer, or Stop won the race.
		a.mu.Unlock()
		return
	}
	a.active = false
	a.timer = nil
	a.mu.Unlock()

	a.settle()
}

// Stop cancels any pending expiry and forces idle without settling.
// When Stop returns, no settle callback is running and none will run,
// even if a timer was about to expire concurrently.
func (a *Aggregator) Stop() {
	// Taking settleMu first waits for an in-flight settle callback; an
	// expiry that fires after this will observe stopped and bail.
	a.settleMu.Lock()
	defer a.settleMu.Unlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopped = true
	a.active = false
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}
