// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// RateController implements the two burst-size update laws Noordwijk
// chooses between once per stability window (spec.md §4.6.2, step 5c):
// Rate Adjustment, when the current burst's RTT deviation from min-RTT
// exceeds β, and Rate Tracking otherwise.
type RateController struct {
	cfg Config
	// delta is the latched reference ack-dispersion δ, set whenever a
	// burst completes at exactly the default burst size (spec.md §4.6.2,
	// step 5a).
	delta simclock.Clock
}

// newRateController returns a RateController for cfg.
func newRateController(cfg Config) *RateController {
	return &RateController{cfg: cfg}
}

// observeDispersion latches δ when the just-completed burst ran at the
// default burst size (spec.md §4.6.2, step 5a). Called once per
// burst-terminating ACK, before update runs.
func (r *RateController) observeDispersion(burstSize int, ackDispersion simclock.Clock) {
	if burstSize == r.cfg.DefaultBurstSize {
		r.delta = ackDispersion
	}
}

// update applies Rate Adjustment or Rate Tracking to burst and timing, per
// spec.md §4.6.2 step 5c. trainDispersion is the just-computed dispersion
// of the completed burst.
func (r *RateController) update(rtt *RttStats, burst *BurstState, timing *Timing, trainDispersion simclock.Clock) {
	if rtt.congested(r.cfg.B) {
		r.rateAdjustment(rtt, burst, timing, trainDispersion)
	} else {
		r.rateTracking(burst, timing)
	}
}

// rateAdjustment implements spec.md §4.6.2 step 5c, congested branch:
// burst_size ← burst_size / (1 + ΔRTT/train_dispersion); tx_timer ← B₀·δ
// if burst_size > burst_min, else λ·B₀·δ.
//
// train_dispersion is floored at cfg.MinTrainDispersion before use as a
// divisor (spec.md §9, Open Question 1: the source traps on a zero
// train_dispersion; this implementation picks a floor instead).
func (r *RateController) rateAdjustment(rtt *RttStats, burst *BurstState, timing *Timing, trainDispersion simclock.Clock) {
	td := trainDispersion
	if td < r.cfg.MinTrainDispersion {
		td = r.cfg.MinTrainDispersion
	}
	deltaRTTms := rtt.deltaRTT().Milliseconds()
	tdMs := td.Milliseconds()
	divisor := 1 + deltaRTTms/tdMs
	if divisor < 1 {
		divisor = 1
	}
	burst.Size = int(int64(burst.Size) / divisor)
	if burst.Size < 1 {
		burst.Size = 1
	}
	if burst.Size > r.cfg.BurstMin {
		timing.TxTimer = simclock.Clock(r.cfg.DefaultBurstSize) * r.delta
	} else {
		timing.TxTimer = simclock.Clock(r.cfg.Lambda*r.cfg.DefaultBurstSize) * r.delta
	}
}

// rateTracking implements spec.md §4.6.2 step 5c, uncongested branch:
// burst_size ← burst_size + (B₀ − burst_size) / 2; tx_timer ← B₀·δ.
func (r *RateController) rateTracking(burst *BurstState, timing *Timing) {
	burst.Size += (r.cfg.DefaultBurstSize - burst.Size) / 2
	if burst.Size < 1 {
		burst.Size = 1
	}
	timing.TxTimer = simclock.Clock(r.cfg.DefaultBurstSize) * r.delta
}
