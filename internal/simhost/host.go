// Package simhost is a bulk, one-shot TCP-like sender/receiver pair wired
// over a dama.NetDevice, implementing noordwijk.Host. It generalizes the
// teacher simulator's own per-flow send loop (sender.go's Flow, with its
// RFC 6298 srtt/rttvar bookkeeping) from a point-to-point link model to a
// DAMA NetDevice: every acknowledgment is itself a frame arbitrated by the
// shared channel, so the congestion control under test sees real
// collisions and queuing delay, not a clean point-to-point RTT.
package simhost

import (
	"encoding/binary"

	"github.com/heistp/damawijk/dama"
	"github.com/heistp/damawijk/noordwijk"
	"github.com/heistp/damawijk/simclock"
)

// Protocol numbers carried in the NetDevice's LLC/SNAP header (spec.md
// §4.5). ProtoData carries bulk payload; ProtoAck carries a 4-byte
// cumulative acknowledgment sequence number.
const (
	ProtoData uint16 = 0x0800
	ProtoAck  uint16 = 0x0801
)

const ackSize = 4

// RFC 6298 RTT estimator constants, matching the teacher's own
// RTTAlpha (config.go) generalized to the full smoothed-RTT/RTO pair the
// original only half-implements (it tracks srtt but not rttvar or RTO).
const (
	alpha   = 0.125
	beta    = 0.25
	minRTO  = simclock.Clock(200_000_000)   // 200ms, RFC 6298 §2.4
	initRTO = simclock.Clock(1_000_000_000) // 1s, RFC 6298 §2.1
)

// Host is a single node's bulk sender and echoing receiver, implementing
// noordwijk.Host (spec.md §6, "Congestion control hook").
type Host struct {
	sched   simclock.Scheduler
	dev     *dama.NetDevice
	peer    dama.Address
	segSize int

	buffered int
	head     uint32
	nextTx   uint32
	sentAt   map[uint32]simclock.Clock

	srtt, rttvar, rto simclock.Clock
	rtoTimerID        simclock.EventID
	rtoArmed          bool

	recvHighWater uint32
	lastAckSeq    uint32
	dupCount      int

	cc *noordwijk.CongestionControl

	// Delivered is the number of bytes this node's receiver has accepted
	// from its peer, reported in the driver's summary.
	Delivered int

	// OnRetransmit, if set, fires every time DoRetransmit actually resends
	// a segment. Optional observability hook, in the same nil-safe spirit
	// as dama.MacTrace.
	OnRetransmit func()

	// OnDeliver, if set, fires whenever a ProtoData frame is accepted from
	// the peer and forwarded to this node's receiver.
	OnDeliver func(bytes int)
}

// New returns a Host that bulk-sends totalBytes to peer over dev in
// segSize-byte segments, and echoes cumulative acks for whatever its peer
// sends it in return.
func New(sched simclock.Scheduler, dev *dama.NetDevice, peer dama.Address, segSize, totalBytes int) *Host {
	h := &Host{
		sched:    sched,
		dev:      dev,
		peer:     peer,
		segSize:  segSize,
		buffered: totalBytes,
		sentAt:   make(map[uint32]simclock.Clock),
		rto:      initRTO,
	}
	dev.RegisterReceiveCallback(h.receive)
	return h
}

// Attach wires the CongestionControl driving this Host's sends. Two-step
// construction (New, then Attach) breaks the Host/CongestionControl
// construction cycle: noordwijk.New needs a Host, and a Host's receive
// path needs somewhere to deliver acks.
func (h *Host) Attach(cc *noordwijk.CongestionControl) {
	h.cc = cc
}

// Now implements noordwijk.Host.
func (h *Host) Now() simclock.Clock { return h.sched.Now() }

// Bound implements noordwijk.Host. A bulk one-shot transfer is always
// bound once constructed.
func (h *Host) Bound() bool { return true }

// SegmentSize implements noordwijk.Host.
func (h *Host) SegmentSize() int { return h.segSize }

// BufferedBytes implements noordwijk.Host.
func (h *Host) BufferedBytes() int { return h.buffered }

// HeadSeq implements noordwijk.Host.
func (h *Host) HeadSeq() uint32 { return h.head }

// NextTxSeq implements noordwijk.Host.
func (h *Host) NextTxSeq() uint32 { return h.nextTx }

// AdvanceNextTxSeq implements noordwijk.Host.
func (h *Host) AdvanceNextTxSeq(n int) uint32 {
	h.nextTx += uint32(n)
	return h.nextTx
}

// TransmitSegment implements noordwijk.Host: hands size bytes of filler
// payload to the NetDevice and records the send time for RTT sampling.
func (h *Host) TransmitSegment(seq uint32, size int) {
	h.sentAt[seq] = h.Now()
	h.dev.Send(make([]byte, size), h.peer, ProtoData)
}

// DiscardAcked implements noordwijk.Host.
func (h *Host) DiscardAcked(ack uint32) {
	if ack <= h.head {
		return
	}
	acked := int(ack - h.head)
	if acked > h.buffered {
		acked = h.buffered
	}
	h.buffered -= acked
	for seq := range h.sentAt {
		if seq < ack {
			delete(h.sentAt, seq)
		}
	}
	h.head = ack
}

// DoRetransmit implements noordwijk.Host: resends the head-of-buffer
// segment.
func (h *Host) DoRetransmit() {
	size := h.segSize
	if h.buffered < size {
		size = h.buffered
	}
	if size <= 0 {
		return
	}
	h.sentAt[h.head] = h.Now()
	h.dev.Send(make([]byte, size), h.peer, ProtoData)
	if h.OnRetransmit != nil {
		h.OnRetransmit()
	}
}

// LastRTT implements noordwijk.Host.
func (h *Host) LastRTT() simclock.Clock { return h.srtt }

// RTO implements noordwijk.Host.
func (h *Host) RTO() simclock.Clock { return h.rto }

// ScheduleRetransmitTimer implements noordwijk.Host.
func (h *Host) ScheduleRetransmitTimer(delay simclock.Clock) {
	h.CancelRetransmitTimer()
	h.rtoArmed = true
	h.rtoTimerID = h.sched.Schedule(delay, func() {
		h.rtoArmed = false
		if h.cc != nil {
			h.cc.OnRTO()
		}
	})
}

// CancelRetransmitTimer implements noordwijk.Host.
func (h *Host) CancelRetransmitTimer() {
	if h.rtoArmed {
		h.sched.Cancel(h.rtoTimerID)
		h.rtoArmed = false
	}
}

// receive is the dama.ReceiveCallback registered on this Host's NetDevice.
// ProtoData frames advance this node's own cumulative receive point and
// echo it straight back to the sender; ProtoAck frames feed the
// congestion control's ack path.
func (h *Host) receive(payload []byte, from dama.Address, protocol uint16) {
	switch protocol {
	case ProtoData:
		h.recvHighWater += uint32(len(payload))
		h.Delivered += len(payload)
		if h.OnDeliver != nil {
			h.OnDeliver(len(payload))
		}
		buf := make([]byte, ackSize)
		binary.BigEndian.PutUint32(buf, h.recvHighWater)
		h.dev.Send(buf, from, ProtoAck)
	case ProtoAck:
		if len(payload) < ackSize {
			return
		}
		h.onAck(binary.BigEndian.Uint32(payload))
	}
}

func (h *Host) onAck(ack uint32) {
	if ack == h.lastAckSeq {
		h.dupCount++
		if h.cc != nil {
			h.cc.OnDupAck(h.dupCount)
		}
		return
	}
	h.dupCount = 0
	h.lastAckSeq = ack
	if sz := uint32(h.segSize); ack >= sz {
		if sentAt, ok := h.sentAt[ack-sz]; ok {
			h.sampleRTT(h.Now() - sentAt)
		}
	}
	if h.cc != nil {
		h.cc.OnNewAck(ack)
	}
}

// sampleRTT folds one RTT sample into the smoothed RTT/RTO estimate, per
// RFC 6298 §2.3.
func (h *Host) sampleRTT(rtt simclock.Clock) {
	if h.srtt == 0 {
		h.srtt = rtt
		h.rttvar = rtt / 2
	} else {
		delta := h.srtt - rtt
		if delta < 0 {
			delta = -delta
		}
		h.rttvar = simclock.Clock((1-beta)*float64(h.rttvar) + beta*float64(delta))
		h.srtt = simclock.Clock((1-alpha)*float64(h.srtt) + alpha*float64(rtt))
	}
	h.rto = h.srtt + 4*h.rttvar
	if h.rto < minRTO {
		h.rto = minRTO
	}
}
