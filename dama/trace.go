// SPDX-License-Identifier: GPL-3.0

package dama

import "github.com/heistp/damawijk/simclock"

// Trace hooks are optional observability callbacks, never part of THE
// CORE's contract (spec.md §6, "Persisted state: none. Trace sinks ...
// are optional observability hooks, not part of the core contract"). Every
// hook defaults to nil and is skipped when unset, so attaching no trace
// sinks costs nothing on the hot path (spec.md §9, "Typed callbacks").
type MacTrace struct {
	// Tx fires when a frame is accepted into the send queue.
	Tx func(Frame)
	// Rx fires when a frame addressed to this node (or broadcast) arrives.
	Rx func(Frame)
	// RxDrop fires when an enqueue is dropped because the queue is full.
	RxDrop func(Frame)
	// Dequeue fires when a queued frame is handed to the channel, with
	// the time it spent waiting in the send queue.
	Dequeue func(f Frame, dwell simclock.Clock)
	// Sniffer fires for every frame this Mac sends, regardless of
	// destination.
	Sniffer func(Frame)
	// PromiscSniffer fires for every frame this Mac receives off the
	// channel, including ones not addressed to it.
	PromiscSniffer func(Frame)
}

func (t *MacTrace) tx(f Frame) {
	if t != nil && t.Tx != nil {
		t.Tx(f)
	}
}

func (t *MacTrace) rx(f Frame) {
	if t != nil && t.Rx != nil {
		t.Rx(f)
	}
}

func (t *MacTrace) rxDrop(f Frame) {
	if t != nil && t.RxDrop != nil {
		t.RxDrop(f)
	}
}

func (t *MacTrace) dequeue(f Frame, dwell simclock.Clock) {
	if t != nil && t.Dequeue != nil {
		t.Dequeue(f, dwell)
	}
}

func (t *MacTrace) sniff(f Frame) {
	if t != nil && t.Sniffer != nil {
		t.Sniffer(f)
	}
}

func (t *MacTrace) promiscSniff(f Frame) {
	if t != nil && t.PromiscSniffer != nil {
		t.PromiscSniffer(f)
	}
}
