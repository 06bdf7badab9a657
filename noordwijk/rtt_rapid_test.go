// SPDX-License-Identifier: GPL-3.0

package noordwijk

import (
	"testing"

	"github.com/heistp/damawijk/simclock"
	"pgregory.net/rapid"
)

// TestMinRTTMonotonicProperty is invariant 9 (spec.md §8) checked across
// randomized sample sequences: min_rtt within a window never increases,
// and a rollover always resets it to +∞.
func TestMinRTTMonotonicProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		samples := rapid.SliceOfN(rapid.IntRange(1, 2000), 1, 30).Draw(rt, "samplesMS")

		r := newRttStats()
		var seenMin int64 = -1
		for _, ms := range samples {
			r.sample(simclock.FromMilliseconds(int64(ms)))
			cur := r.MinRTT.Milliseconds()
			if seenMin != -1 && cur > seenMin {
				rt.Fatalf("min_rtt increased within a window: %d -> %d", seenMin, cur)
			}
			seenMin = cur
		}
		r.rolloverWindow()
		if r.MinRTT != simclock.ClockInfinity {
			rt.Fatalf("min_rtt must reset to +Inf on rollover, got %v", r.MinRTT)
		}
	})
}
