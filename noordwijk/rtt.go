// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// RttStats tracks RTT samples within the current stability window
// (spec.md §3, "RttStats").
type RttStats struct {
	// LastRTT is the most recent RTT sample reported by the host's RTT
	// estimator.
	LastRTT simclock.Clock
	// MinRTT is the minimum RTT observed in the current stability
	// window; simclock.ClockInfinity before any sample arrives in the
	// window.
	MinRTT simclock.Clock
	// TrainsReceived counts burst-terminating ACKs seen in the current
	// stability window, 0 ≤ TrainsReceived < S before rollover.
	TrainsReceived int
}

// newRttStats returns an RttStats with an empty window.
func newRttStats() RttStats {
	return RttStats{MinRTT: simclock.ClockInfinity}
}

// sample folds in a new RTT observation (spec.md §4.6.2, step 2).
func (r *RttStats) sample(rtt simclock.Clock) {
	r.LastRTT = rtt
	if rtt < r.MinRTT {
		r.MinRTT = rtt
	}
}

// congested reports whether the current deviation from min-RTT exceeds
// the congestion threshold β (spec.md §4.6.2, step 5c).
func (r *RttStats) congested(beta simclock.Clock) bool {
	return r.LastRTT-r.MinRTT > beta
}

// deltaRTT returns last_rtt - min_rtt, the deviation Rate Adjustment
// divides by train_dispersion.
func (r *RttStats) deltaRTT() simclock.Clock {
	return r.LastRTT - r.MinRTT
}

// rolloverWindow resets the stability window (spec.md §4.6.2f):
// TrainsReceived is reset by the caller after a rate update runs, MinRTT
// is reset here to +∞ as every burst completes.
func (r *RttStats) rolloverWindow() {
	r.MinRTT = simclock.ClockInfinity
}
