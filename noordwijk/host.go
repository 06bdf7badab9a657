// SPDX-License-Identifier: GPL-3.0

package noordwijk

import "github.com/heistp/damawijk/simclock"

// Host is the external TCP plumbing Noordwijk plugs into (spec.md §6,
// "Congestion control hook"). Noordwijk owns no segment buffer, sequence
// space, or RTT estimator of its own; it drives a host that does.
type Host interface {
	// Now returns the host's current simulation time.
	Now() simclock.Clock
	// Bound reports whether the endpoint is currently bound to a
	// connection (spec.md §4.6.1: an unbound endpoint never sends).
	Bound() bool
	// SegmentSize returns the host's current segment size in bytes.
	SegmentSize() int
	// BufferedBytes returns the number of unsent bytes in the send
	// buffer.
	BufferedBytes() int
	// HeadSeq returns the sequence number of the oldest unacknowledged
	// byte.
	HeadSeq() uint32
	// NextTxSeq returns the sequence number of the next byte to be sent.
	NextTxSeq() uint32
	// AdvanceNextTxSeq moves next_tx_seq forward by n bytes and returns
	// the new value.
	AdvanceNextTxSeq(n int) uint32
	// TransmitSegment sends a segment of size bytes starting at seq.
	TransmitSegment(seq uint32, size int)
	// DiscardAcked removes buffered bytes up to ack from the send
	// buffer.
	DiscardAcked(ack uint32)
	// DoRetransmit retransmits the head-of-buffer segment (spec.md
	// §4.6.3).
	DoRetransmit()
	// LastRTT returns the most recent RTT sample from the host's RTT
	// estimator.
	LastRTT() simclock.Clock
	// RTO returns the host's current retransmission timeout estimate.
	RTO() simclock.Clock
	// ScheduleRetransmitTimer (re)arms the host's retransmit timer to
	// fire after delay.
	ScheduleRetransmitTimer(delay simclock.Clock)
	// CancelRetransmitTimer disarms the host's retransmit timer.
	CancelRetransmitTimer()
}
