// SPDX-License-Identifier: GPL-3.0

// Package noordwijk implements the Noordwijk burst-based congestion
// control variant for high-latency, satellite-like paths. It replaces a
// TCP sender's slow-start/AIMD policy and congestion window with a
// BurstPacer driven by an AckTrainMeter and RateController, and overrides
// dup-ACK/RTO handling through CongestionControl's OnDupAck and OnRTO,
// which keep their state in RecoveryState.
//
// Noordwijk does not implement a TCP stack: it is a congestion-control
// plugin consuming a small Host interface for the segment buffer, RTT
// estimator, and retransmit timer a real TCP sender already owns.
package noordwijk
