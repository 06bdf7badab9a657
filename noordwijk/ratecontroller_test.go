// SPDX-License-Identifier: GPL-3.0

package noordwijk

import (
	"testing"

	"github.com/heistp/damawijk/simclock"
	"github.com/stretchr/testify/assert"
)

// TestSteadyStateRateTracking is scenario S4 (spec.md §7): with RTT held
// constant at 300ms (so every burst is uncongested), burst_size tends
// toward B₀ under repeated Rate Tracking, halving the gap each round, and
// never overshoots.
func TestSteadyStateRateTracking(t *testing.T) {
	cfg := DefaultConfig()
	rc := newRateController(cfg)
	rtt := RttStats{LastRTT: simclock.FromMilliseconds(300), MinRTT: simclock.FromMilliseconds(300)}
	burst := BurstState{Size: 10}
	timing := newTiming(cfg)

	prevGap := cfg.DefaultBurstSize - burst.Size
	for round := 0; round < 6; round++ {
		rc.update(&rtt, &burst, &timing, simclock.FromMilliseconds(300))
		gap := cfg.DefaultBurstSize - burst.Size
		assert.GreaterOrEqual(t, gap, 0, "burst_size must never overshoot B0 under Rate Tracking")
		assert.LessOrEqual(t, gap, prevGap, "the gap to B0 must shrink (or close) every round")
		prevGap = gap
	}
	assert.Equal(t, cfg.DefaultBurstSize, burst.Size, "burst_size must converge to B0")
}

// TestCongestionResponseRateAdjustment is scenario S5 (spec.md §7): RTT
// rises to 600ms against a 300ms min-RTT (ΔRTT=300ms > β=200ms), with
// train_dispersion≈300ms; burst_size halves, per
// burst_size ← burst_size / (1 + ΔRTT/train_dispersion).
func TestCongestionResponseRateAdjustment(t *testing.T) {
	cfg := DefaultConfig()
	rc := newRateController(cfg)
	rtt := RttStats{LastRTT: simclock.FromMilliseconds(600), MinRTT: simclock.FromMilliseconds(300)}
	burst := BurstState{Size: cfg.DefaultBurstSize}
	timing := newTiming(cfg)

	assert.True(t, rtt.congested(cfg.B))
	rc.update(&rtt, &burst, &timing, simclock.FromMilliseconds(300))

	assert.Equal(t, cfg.DefaultBurstSize/2, burst.Size)
}
