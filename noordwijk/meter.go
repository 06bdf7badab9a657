// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// AckTrainMeter measures the first/last ACK arrival of each burst and
// derives train dispersion and per-ACK dispersion from it (spec.md §3
// component list, §4.6.2 step 5a).
type AckTrainMeter struct {
	rc *RateController
}

// newAckTrainMeter returns a meter that latches observed dispersion into rc.
func newAckTrainMeter(rc *RateController) *AckTrainMeter {
	return &AckTrainMeter{rc: rc}
}

// measure computes train_dispersion and ack_dispersion for a
// burst-terminating ACK arriving at now, given the burst's first-ACK
// timestamp and size, and latches δ if the burst ran at the default size
// (spec.md §4.6.2 step 5a).
func (m *AckTrainMeter) measure(now, firstAck simclock.Clock, burstSize int) (trainDispersion, ackDispersion simclock.Clock) {
	trainDispersion = now - firstAck
	if burstSize <= 0 {
		burstSize = 1
	}
	ackDispersion = trainDispersion / simclock.Clock(burstSize)
	m.rc.observeDispersion(burstSize, ackDispersion)
	return
}
