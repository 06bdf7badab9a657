// SPDX-License-Identifier: GPL-3.0

package noordwijk

import (
	"github.com/charmbracelet/log"
	"github.com/heistp/damawijk/simclock"
)

// CongestionControl wires BurstState, Timing, RttStats, RecoveryState,
// BurstPacer, AckTrainMeter and RateController together into the
// send-pacing/ACK/loss-recovery contract a TCP sender plugs into (spec.md
// §4.6, §6).
type CongestionControl struct {
	cfg   Config
	host  Host
	pacer *BurstPacer
	meter *AckTrainMeter
	rc    *RateController

	burst    BurstState
	timing   Timing
	rtt      RttStats
	recovery RecoveryState

	Logger *log.Logger
}

// New returns a CongestionControl for host, using sched for its own
// pacing timer and cfg for its tunables. A zero-value Config is replaced
// by DefaultConfig.
func New(sched simclock.Scheduler, host Host, cfg Config) *CongestionControl {
	if cfg.DefaultBurstSize == 0 {
		cfg = DefaultConfig()
	}
	rc := newRateController(cfg)
	return &CongestionControl{
		cfg:      cfg,
		host:     host,
		pacer:    newBurstPacer(sched),
		meter:    newAckTrainMeter(rc),
		rc:       rc,
		burst:    newBurstState(cfg.DefaultBurstSize),
		timing:   newTiming(cfg),
		rtt:      newRttStats(),
		recovery: newRecoveryState(),
		Logger:   log.Default(),
	}
}

// BurstSize returns the current burst_size, for diagnostics and tests.
func (c *CongestionControl) BurstSize() int { return c.burst.Size }

// TxTimer returns the current pacing delay, for diagnostics and tests.
func (c *CongestionControl) TxTimer() simclock.Clock { return c.timing.TxTimer }

// MinRTT returns the current stability window's min-RTT, for diagnostics
// and tests.
func (c *CongestionControl) MinRTT() simclock.Clock { return c.rtt.MinRTT }

// Restoring reports whether a restore is latched, pending the next
// burst-terminating ACK (spec.md §4.6.2e).
func (c *CongestionControl) Restoring() bool { return c.recovery.Restore }

// ShouldSend implements the upward should-send(available_window,
// buffer_size) predicate (spec.md §6): true iff send-pending-data would
// not immediately return no-send for pacing or fill reasons. It has no
// side effects.
func (c *CongestionControl) ShouldSend(availableWindow, bufferSize int) bool {
	if !c.host.Bound() || bufferSize == 0 {
		return false
	}
	if c.pacer.Running() {
		return false
	}
	segSize := c.host.SegmentSize()
	chunk := segSize
	if availableWindow < chunk {
		chunk = availableWindow
	}
	return bufferSize >= chunk*c.burst.Size
}

// SendPendingData implements send-pending-data(with_ack) (spec.md
// §4.6.1). It sends up to burst_size segments back-to-back, clamped by
// the available window, and arms the pacer for the next burst.
func (c *CongestionControl) SendPendingData(withAck bool) {
	bufferSize := c.host.BufferedBytes()
	if !c.host.Bound() || bufferSize == 0 {
		return
	}
	if c.pacer.Running() {
		return
	}
	segSize := c.host.SegmentSize()
	availableWindow := bufferSize // no separate window model in THE CORE; host clamps per-segment below
	chunk := segSize
	if availableWindow < chunk {
		chunk = availableWindow
	}
	if bufferSize < chunk*c.burst.Size {
		return
	}

	c.burst.resetForNextBurst()
	for i := 0; i < c.burst.Size; i++ {
		size := segSize
		remaining := c.host.BufferedBytes()
		if remaining <= 0 {
			break
		}
		if remaining < size {
			size = remaining
		}
		seq := c.host.NextTxSeq()
		c.host.TransmitSegment(seq, size)
		c.host.AdvanceNextTxSeq(size)
		c.burst.SentThisBurst++
	}
	c.pacer.Start(c.timing.TxTimer, func() {
		c.SendPendingData(false)
	})
}

// OnNewAck implements on-new-ack(ack) (spec.md §4.6.2).
func (c *CongestionControl) OnNewAck(ack uint32) {
	now := c.host.Now()
	headSeq := c.host.HeadSeq()
	segSize := c.host.SegmentSize()

	// 1. Cancel and reschedule the retransmit timer from the RTT
	// estimator's current RTO.
	c.host.CancelRetransmitTimer()
	c.host.ScheduleRetransmitTimer(c.host.RTO())

	// 2. Fold in the new RTT sample.
	c.rtt.sample(c.host.LastRTT())

	// 3. Count acknowledged packets.
	if segSize > 0 {
		ackedPkts := int((ack - headSeq)) / segSize
		c.timing.AckCount += ackedPkts
	}

	// 4. Record the first ACK of a new burst.
	if !c.timing.hasFirstAck() {
		c.timing.FirstAck = now
	}

	// 5. Burst-terminating ACK.
	if c.timing.AckCount >= c.burst.Size {
		trainDispersion, ackDispersion := c.meter.measure(now, c.timing.FirstAck, c.burst.Size)
		c.timing.AckDispersion = ackDispersion

		c.rtt.TrainsReceived++
		if c.rtt.TrainsReceived == c.cfg.S {
			c.Logger.Debug("rate update", "rtt_ms", c.rtt.LastRTT.StringMS(), "min_rtt_ms", c.rtt.MinRTT.StringMS())
			c.rc.update(&c.rtt, &c.burst, &c.timing, trainDispersion)
			c.rtt.TrainsReceived = 0
		}

		c.burst.shrinkByRetransmits()

		if c.recovery.Restore {
			c.burst.Size = c.cfg.DefaultBurstSize
			c.timing.TxTimer = c.timing.DefaultTxTimer
			c.recovery.Restore = false
		}

		c.rtt.rolloverWindow()
		c.timing.resetBurst()

		c.SendPendingData(true)
	}

	// 6. Standard bookkeeping.
	c.host.DiscardAcked(ack)
	if ack > c.host.NextTxSeq() {
		c.host.AdvanceNextTxSeq(int(ack - c.host.NextTxSeq()))
	}
	if c.host.BufferedBytes() == 0 {
		c.host.CancelRetransmitTimer()
	}
}

// OnDupAck implements on-dup-ack(count) (spec.md §4.6.3): triggers only on
// a non-zero multiple of 3.
func (c *CongestionControl) OnDupAck(count int) {
	if count == 0 || count%3 != 0 {
		return
	}
	c.host.DoRetransmit()
	c.burst.RetransmittedThisBurst++
}

// OnRTO implements on-rto() (spec.md §4.6.4).
func (c *CongestionControl) OnRTO() {
	headSeq := c.host.HeadSeq()
	if c.recovery.LastAckAtRTO == headSeq {
		doubled := c.timing.DefaultTxTimer * 2
		if doubled > c.cfg.MaxTxTimer {
			doubled = c.cfg.MaxTxTimer
			c.Logger.Warn("default_tx_timer capped", "cap", c.cfg.MaxTxTimer)
		}
		c.timing.DefaultTxTimer = doubled
	}
	c.recovery.LastAckAtRTO = headSeq
	c.recovery.Restore = true
}

// SetSSThresh, GetSSThresh, SetInitialCwnd and GetInitialCwnd implement
// spec.md §4.6.5's explicit non-support: Noordwijk has no congestion
// window, only a burst size and a pacing timer. Each setter is an
// observable no-op; each getter returns zero.
func (c *CongestionControl) SetSSThresh(int) {
	c.Logger.Warn("SetSSThresh is a no-op under Noordwijk congestion control")
}

func (c *CongestionControl) GetSSThresh() int {
	c.Logger.Warn("GetSSThresh is a no-op under Noordwijk congestion control")
	return 0
}

func (c *CongestionControl) SetInitialCwnd(int) {
	c.Logger.Warn("SetInitialCwnd is a no-op under Noordwijk congestion control")
}

func (c *CongestionControl) GetInitialCwnd() int {
	c.Logger.Warn("GetInitialCwnd is a no-op under Noordwijk congestion control")
	return 0
}
