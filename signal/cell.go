// Package signal carries the hand-openness control from its sources to the
// frame loop. Sources write the latest reading into a Cell; the frame loop
// reads it once per frame without blocking.
package signal

import (
	"sync/atomic"
	"time"

	"github.com/pthm-cable/zen/components"
)

// sample is an immutable reading with its arrival time.
type sample struct {
	sig components.Signal
	at  time.Time
}

// Cell is a last-value-wins slot for the control signal. Writers replace the
// whole reading atomically, so a reader never sees a torn pair.
type Cell struct {
	latest     atomic.Pointer[sample]
	staleAfter time.Duration
}

// NewCell creates an empty cell. Readings older than staleAfter read as lost
// tracking; staleAfter <= 0 disables the timeout.
func NewCell(staleAfter time.Duration) *Cell {
	return &Cell{staleAfter: staleAfter}
}

// Store publishes a new reading stamped with the current time.
func (c *Cell) Store(sig components.Signal) {
	c.StoreAt(sig, time.Now())
}

// StoreAt publishes a new reading with an explicit arrival time.
func (c *Cell) StoreAt(sig components.Signal, at time.Time) {
	c.latest.Store(&sample{sig: sig, at: at})
}

// Load returns the reading to use at now. Before the first write, or once
// the last write is older than the stale timeout, it returns NeutralSignal.
func (c *Cell) Load(now time.Time) components.Signal {
	s := c.latest.Load()
	if s == nil {
		return components.NeutralSignal()
	}
	if c.staleAfter > 0 && now.Sub(s.at) > c.staleAfter {
		return components.NeutralSignal()
	}
	return s.sig
}

// Latest returns the raw last reading and its arrival time, ignoring staleness.
// ok is false before the first write.
func (c *Cell) Latest() (sig components.Signal, at time.Time, ok bool) {
	s := c.latest.Load()
	if s == nil {
		return components.NeutralSignal(), time.Time{}, false
	}
	return s.sig, s.at, true
}
