// Package timectrl provides the clock abstraction the planner's outer layers
// use. The engine itself takes an explicit `now` so it stays pure; the CLI
// and the metrics bridge depend on a Clock so tests can pin time.
package timectrl

import (
	"sync"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by the wall clock.
type System struct{}

// Now returns the current UTC wall time.
func (System) Now() time.Time { return time.Now().UTC() }

// Manual is a settable Clock for tests and replayed scenarios.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual constructs a manual clock pinned at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the pinned time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Advance moves the clock forward by d and returns the new time.
func (m *Manual) Advance(d time.Duration) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
	return m.now
}

// Set pins the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}
