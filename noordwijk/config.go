// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// Config holds the attributes settable before a CongestionControl starts
// (spec.md §6, "Configuration surface"). All fields have sane zero-value
// replacements applied by DefaultConfig; a Config built directly must set
// every field explicitly, or use DefaultConfig and override selectively.
type Config struct {
	// DefaultBurstSize is B₀, the reference burst size in segments
	// (spec.md §3, default 20).
	DefaultBurstSize int
	// DefaultTxTimer is the initial pacing delay and the one a burst
	// resets to on RTO restore (spec.md §3, default 500ms).
	DefaultTxTimer simclock.Clock
	// B is the congestion threshold β a burst's RTT deviation from
	// min-RTT is compared against (spec.md §3, default 200ms).
	B simclock.Clock
	// S is the stability factor: the number of burst-terminating ACKs
	// between rate updates (spec.md §3, default 2).
	S int
	// Lambda is the small-burst pacing multiplier applied when
	// burst_size falls to BurstMin or below (spec.md §3, value 2).
	Lambda int
	// BurstMin is the floor below which the small-burst pacing multiplier
	// applies (spec.md §3, value 3).
	BurstMin int
	// MaxTxTimer caps default_tx_timer's unbounded doubling under
	// repeated unproductive RTOs (spec.md §9, Open Question 2 — the
	// source has no cap; this implementation picks one).
	MaxTxTimer simclock.Clock
	// MinTrainDispersion floors train_dispersion before it is used as a
	// divisor in Rate Adjustment (spec.md §9, Open Question 1 — the
	// source traps on a zero-RTT train_dispersion; this implementation
	// picks a 1ms floor rather than letting the division fault).
	MinTrainDispersion simclock.Clock
}

// DefaultConfig returns Noordwijk's reference parameters (spec.md §3, §7
// scenarios).
func DefaultConfig() Config {
	return Config{
		DefaultBurstSize:   20,
		DefaultTxTimer:     simclock.FromMilliseconds(500),
		B:                  simclock.FromMilliseconds(200),
		S:                  2,
		Lambda:             2,
		BurstMin:           3,
		MaxTxTimer:         simclock.FromMilliseconds(60_000),
		MinTrainDispersion: simclock.FromMilliseconds(1),
	}
}
