// SPDX-License-Identifier: GPL-3.0

package noordwijk

// noHeadAtRTO is the sentinel for RecoveryState.LastAckAtRTO before any
// RTO has occurred.
const noHeadAtRTO = ^uint32(0)

// RecoveryState tracks RTO-driven recovery bookkeeping (spec.md §3,
// "RecoveryState").
type RecoveryState struct {
	// Restore, when set, forces the next burst-terminating ACK to reset
	// burst_size and tx_timer to their defaults (spec.md §4.6.2e).
	Restore bool
	// LastAckAtRTO is the head sequence number at the time of the last
	// RTO, used to detect consecutive unproductive RTOs on the same
	// segment (spec.md §4.6.4).
	LastAckAtRTO uint32
}

// newRecoveryState returns a RecoveryState with no prior RTO recorded.
func newRecoveryState() RecoveryState {
	return RecoveryState{LastAckAtRTO: noHeadAtRTO}
}
