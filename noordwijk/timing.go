// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// unsetAck is the sentinel for Timing.FirstAck when no burst is currently
// outstanding.
const unsetAck = simclock.Clock(-1)

// Timing tracks the current pacing delay and the bookkeeping
// AckTrainMeter needs to measure a burst's ACK train (spec.md §3,
// "Timing").
type Timing struct {
	// TxTimer is the current pacing delay applied between bursts.
	TxTimer simclock.Clock
	// DefaultTxTimer is the value TxTimer resets to on RTO restore; it
	// itself grows under repeated unproductive RTOs
	// (spec.md §4.6.4).
	DefaultTxTimer simclock.Clock
	// FirstAck is the arrival time of the first ACK of the current
	// burst, or unsetAck if none has arrived yet.
	FirstAck simclock.Clock
	// AckCount is the number of segments acknowledged since FirstAck was
	// recorded.
	AckCount int
	// AckDispersion is train_dispersion / burst_size for the
	// most-recently-completed burst.
	AckDispersion simclock.Clock
}

// newTiming returns a Timing seeded at the configured defaults, with no
// burst outstanding.
func newTiming(cfg Config) Timing {
	return Timing{
		TxTimer:        cfg.DefaultTxTimer,
		DefaultTxTimer: cfg.DefaultTxTimer,
		FirstAck:       unsetAck,
	}
}

// hasFirstAck reports whether a burst's first ACK has already been
// recorded.
func (t *Timing) hasFirstAck() bool {
	return t.FirstAck != unsetAck
}

// resetBurst clears the per-burst ACK bookkeeping (spec.md §4.6.2f).
func (t *Timing) resetBurst() {
	t.AckCount = 0
	t.FirstAck = unsetAck
}
