// SPDX-License-Identifier: GPL-3.0

package simclock

import (
	"math/rand/v2"
	"sort"
)

// Engine is a reference, single-threaded discrete-event Scheduler. It keeps
// pending callbacks in a time-ordered slice and advances logical time by
// popping the earliest one, the same ordered-insert-via-binary-search
// approach the teacher simulator uses for its timer heap (sim.go's
// timer.handleSim), generalized here to plain callbacks instead of
// per-node channel messages: THE CORE requires a single-threaded
// cooperative scheduler (spec.md §5), so Engine drives everything from one
// goroutine and never itself spawns one.
type Engine struct {
	now     Clock
	events  []scheduledEvent
	nextID  EventID
	rng     *rand.Rand
	running bool
}

type scheduledEvent struct {
	id        EventID
	at        Clock
	fn        func()
	cancelled bool
}

// NewEngine returns a new Engine with its logical clock at zero.
func NewEngine(seed uint64) *Engine {
	return &Engine{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Now implements Scheduler.
func (e *Engine) Now() Clock {
	return e.now
}

// Schedule implements Scheduler.
func (e *Engine) Schedule(delay Clock, fn func()) EventID {
	e.nextID++
	ev := scheduledEvent{id: e.nextID, at: e.now + delay, fn: fn}
	i := sort.Search(len(e.events), func(i int) bool {
		return e.events[i].at > ev.at
	})
	e.events = append(e.events, scheduledEvent{})
	copy(e.events[i+1:], e.events[i:])
	e.events[i] = ev
	return ev.id
}

// Cancel implements Scheduler.
func (e *Engine) Cancel(id EventID) {
	if id == 0 {
		return
	}
	for i := range e.events {
		if e.events[i].id == id {
			e.events[i].cancelled = true
			return
		}
	}
}

// RandomUniformInt implements Scheduler.
func (e *Engine) RandomUniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.rng.IntN(hi-lo+1)
}

// Run drains every scheduled event in time order until none remain. Events
// scheduled at the same logical time run in the order they were posted
// (spec.md §5, "Ordering guarantees"), which the stable search-and-insert
// above preserves since ties are broken by search always landing after
// equal-at entries already present.
func (e *Engine) Run() {
	e.running = true
	defer func() { e.running = false }()
	for len(e.events) > 0 {
		ev := e.events[0]
		e.events = e.events[1:]
		if ev.cancelled {
			continue
		}
		e.now = ev.at
		ev.fn()
	}
}

// RunUntil drains events up to and including logical time deadline.
func (e *Engine) RunUntil(deadline Clock) {
	e.running = true
	defer func() { e.running = false }()
	for len(e.events) > 0 && e.events[0].at <= deadline {
		ev := e.events[0]
		e.events = e.events[1:]
		if ev.cancelled {
			continue
		}
		e.now = ev.at
		ev.fn()
	}
	if e.now < deadline {
		e.now = deadline
	}
}

// Pending returns the number of events still queued (including cancelled
// ones not yet popped).
func (e *Engine) Pending() int {
	return len(e.events)
}
