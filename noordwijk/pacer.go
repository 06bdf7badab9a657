// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// BurstPacer is the one-shot timer gating successive bursts (spec.md
// §4.6.1, §5 "the pacing tx-timer is one-shot per burst"). It owns no
// retry logic: once fired, it must be explicitly restarted by the next
// send-pending-data call that actually sends.
type BurstPacer struct {
	sched   simclock.Scheduler
	running bool
	id      simclock.EventID
}

// newBurstPacer returns a pacer driven by sched.
func newBurstPacer(sched simclock.Scheduler) *BurstPacer {
	return &BurstPacer{sched: sched}
}

// Running reports whether the pacer's timer is currently armed.
func (p *BurstPacer) Running() bool {
	return p.running
}

// Start arms the pacer for delay, invoking fn when it fires. Starting an
// already-running pacer is a no-op: send-pending-data's own "tx-timer
// running" check (spec.md §4.6.1) means this should never happen in
// practice, but the guard keeps BurstPacer correct as a standalone type.
func (p *BurstPacer) Start(delay simclock.Clock, fn func()) {
	if p.running {
		return
	}
	p.running = true
	p.id = p.sched.Schedule(delay, func() {
		p.running = false
		fn()
	})
}

// Cancel disarms the pacer, if armed.
func (p *BurstPacer) Cancel() {
	if p.running {
		p.sched.Cancel(p.id)
		p.running = false
	}
}
