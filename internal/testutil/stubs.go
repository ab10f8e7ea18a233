// Package testutil provides deterministic stand-ins for the engine's
// dependencies and small image fixtures.
package testutil

import (
	"fmt"
	"os"
	"sync"
	"time"
)

// StubClock returns a fixed time. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to 2024-06-01 12:00:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// FakeTrasher records trashed paths and removes the files from disk, so
// tests can assert that a discarded file no longer exists at its source.
type FakeTrasher struct {
	mu      sync.Mutex
	Trashed []string
	Err     error // returned by Trash when set
}

func NewFakeTrasher() *FakeTrasher {
	return &FakeTrasher{}
}

func (t *FakeTrasher) Trash(path string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.Err != nil {
		return t.Err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	t.Trashed = append(t.Trashed, path)
	return nil
}
