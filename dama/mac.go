// SPDX-License-Identifier: GPL-3.0

package dama

import "github.com/heistp/damawijk/simclock"

// Mac is the per-node queue and framing contract (spec.md §4.2). A
// Controller is the only caller permitted to invoke SendHead.
type Mac interface {
	Address() Address
	Enqueue(payload []byte, to Address, etherType EtherType) bool
	HasData() bool
	SendHead() bool
	Receive(f Frame)
}

// ForwardUpFunc is invoked when a Mac has a frame ready to pass to the
// layer above it (spec.md §4.2, "Receive(frame)").
type ForwardUpFunc func(payload []byte, from, to Address, etherType EtherType)

// SimpleBroadcastMac is the one concrete Mac THE CORE requires: a bounded
// FIFO send queue plus Ethernet-style framing, delegating all arbitration
// to an attached Controller (spec.md §4.2).
type SimpleBroadcastMac struct {
	addr      Address
	sched     simclock.Scheduler
	queue     *txQueue
	channel   Channel
	ctrl      Controller
	forwardUp ForwardUpFunc
	trace     *MacTrace
}

// NewSimpleBroadcastMac returns a new Mac with the given address and queue
// capacity (0 selects DefaultMaxPacketNumber). sched is used only to
// timestamp queue entries at enqueue time, for the Dequeue trace hook's
// dwell-time measurement; it need not be the same Scheduler the Mac's
// Controller runs against, though in practice it always is.
func NewSimpleBroadcastMac(sched simclock.Scheduler, addr Address, capacity int) *SimpleBroadcastMac {
	return &SimpleBroadcastMac{
		addr:  addr,
		sched: sched,
		queue: newTxQueue(capacity),
		trace: &MacTrace{},
	}
}

// SetChannel attaches the Mac to a Channel, registering it as a listener.
func (m *SimpleBroadcastMac) SetChannel(ch Channel) {
	m.channel = ch
	ch.Add(m)
}

// SetController attaches the Controller responsible for arbitrating this
// Mac's access to the channel.
func (m *SimpleBroadcastMac) SetController(c Controller) {
	m.ctrl = c
}

// SetForwardUp registers the callback invoked on receipt of a frame
// forwarded up the stack.
func (m *SimpleBroadcastMac) SetForwardUp(fn ForwardUpFunc) {
	m.forwardUp = fn
}

// Trace returns the Mac's trace hooks for configuration.
func (m *SimpleBroadcastMac) Trace() *MacTrace {
	return m.trace
}

// controller implements the accessor SimpleBroadcastChannel.Send uses to
// reach a colliding sender's Controller without importing a concrete Mac
// type.
func (m *SimpleBroadcastMac) controller() Controller {
	return m.ctrl
}

// Address implements Mac.
func (m *SimpleBroadcastMac) Address() Address {
	return m.addr
}

// Enqueue implements Mac (spec.md §4.2).
//
// The broadcast Mac always frames with from = its own address: Enqueue
// takes no `from` parameter, so a bridging source address cannot be
// passed in, matching the original SimpleBroadcastMac's behavior
// (spec.md §9, Open Question 3 — preserved rather than "fixed").
func (m *SimpleBroadcastMac) Enqueue(payload []byte, to Address, etherType EtherType) bool {
	item := queueItem{payload: payload, dest: to, etherType: etherType, enqueued: m.sched.Now()}
	if !m.queue.push(item) {
		m.trace.rxDrop(Frame{Dst: to, Src: m.addr, EtherType: etherType, Payload: payload})
		return false
	}
	m.trace.tx(Frame{Dst: to, Src: m.addr, EtherType: etherType, Payload: payload})
	return true
}

// HasData implements Mac.
func (m *SimpleBroadcastMac) HasData() bool {
	return m.queue.len() > 0
}

// SendHead implements Mac (spec.md §4.2). It must be called only by the
// node's Controller.
func (m *SimpleBroadcastMac) SendHead() bool {
	item, ok := m.queue.pop()
	if !ok {
		return false
	}
	f := Frame{
		Dst:       item.dest,
		Src:       m.addr,
		EtherType: item.etherType,
		Payload:   item.payload,
	}
	m.trace.sniff(f)
	m.trace.dequeue(f, m.sched.Now()-item.enqueued)
	m.channel.Send(f, m)
	return true
}

// Receive implements Mac (spec.md §4.2): strips the header (trivial here,
// since Frame already carries its fields decoded) and invokes the upward
// forwarding callback. Classification and controller notification are a
// NetDevice responsibility (spec.md §4.5), not the Mac's.
func (m *SimpleBroadcastMac) Receive(f Frame) {
	m.trace.promiscSniff(f)
	if f.Dst == m.addr || f.Dst.IsBroadcast() {
		m.trace.rx(f)
	}
	if m.forwardUp != nil {
		m.forwardUp(f.Payload, f.Src, f.Dst, f.EtherType)
	}
}
