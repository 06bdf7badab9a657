// SPDX-License-Identifier: GPL-3.0

package dama

import "github.com/heistp/damawijk/simclock"

// Channel models a shared medium connecting a set of Macs. Concrete
// implementations decide collision and delivery policy; SimpleBroadcastChannel
// below is the one THE CORE specifies (spec.md §4.1).
//
// NDevices/Device mirror ns-3's Channel base class
// (src/dama/model/damachannel.h kept `DamaChannel : public Channel`, with
// GetNDevices/GetDevice); nothing in spec.md's data flow needs them, but
// they're part of the original channel's public contract and cost nothing
// to keep (SPEC_FULL.md, "Supplemented features").
type Channel interface {
	// Send attempts to transmit f on behalf of sender. It never blocks;
	// delivery (or a collision notification) happens via scheduled
	// callbacks.
	Send(f Frame, sender Mac)
	// Add attaches a Mac to the channel.
	Add(m Mac)
	// NDevices returns the number of Macs attached to the channel.
	NDevices() int
	// Device returns the i'th attached Mac, or nil if out of range.
	Device(i int) Mac
}

// SimpleBroadcastChannel is the one concrete Channel THE CORE requires: a
// shared medium with a single, uniform propagation delay, where at most one
// frame may be in flight at a time (spec.md §4.1).
type SimpleBroadcastChannel struct {
	sched        simclock.Scheduler
	propagation  simclock.Clock
	macs         []Mac
	inUse        bool
	activeSender Mac
	pending      []simclock.EventID
}

// NewSimpleBroadcastChannel returns a new channel with the given scheduler
// and propagation delay (default 200ms per spec.md §4.1/§6).
func NewSimpleBroadcastChannel(sched simclock.Scheduler, propagation simclock.Clock) *SimpleBroadcastChannel {
	return &SimpleBroadcastChannel{sched: sched, propagation: propagation}
}

// DefaultPropagation is the channel's default propagation delay.
const DefaultPropagation = simclock.Clock(200_000_000) // 200ms, in ns

// Add implements Channel.
func (c *SimpleBroadcastChannel) Add(m Mac) {
	c.macs = append(c.macs, m)
}

// NDevices implements Channel.
func (c *SimpleBroadcastChannel) NDevices() int {
	return len(c.macs)
}

// Device implements Channel.
func (c *SimpleBroadcastChannel) Device(i int) Mac {
	if i < 0 || i >= len(c.macs) {
		return nil
	}
	return c.macs[i]
}

// InUse reports whether the channel currently has a transmission in
// flight. Exported to support the channel-exclusivity invariant in tests
// (spec.md §8, invariant 1).
func (c *SimpleBroadcastChannel) InUse() bool {
	return c.inUse
}

// ActiveSender returns the Mac currently holding the channel, or nil.
func (c *SimpleBroadcastChannel) ActiveSender() Mac {
	return c.activeSender
}

// Send implements Channel, per spec.md §4.1.
//
// If the channel is free: mark it in-use, record the sender, schedule
// delivery to every other attached Mac after the propagation delay, and
// schedule free-channel at the same delay.
//
// If the channel is already in use: this is a collision. Both the new
// sender's and the active sender's controllers are notified; all pending
// delivery events for the in-flight frame are cancelled (neither frame is
// delivered); and — matching simplebroadcastchannel.cc exactly — a
// free-channel event is still scheduled for the new transmission's
// attempted duration, even though nothing is actually occupying the medium
// on its behalf.
func (c *SimpleBroadcastChannel) Send(f Frame, sender Mac) {
	if c.inUse {
		notifyCollision(sender)
		notifyCollision(c.activeSender)
		for _, id := range c.pending {
			c.sched.Cancel(id)
		}
		c.pending = c.pending[:0]
	} else {
		c.activeSender = sender
		c.inUse = true
		for _, m := range c.macs {
			if m == sender {
				continue
			}
			to := m
			id := c.sched.Schedule(c.propagation, func() {
				to.Receive(f)
			})
			c.pending = append(c.pending, id)
		}
	}
	c.sched.Schedule(c.propagation, c.freeChannel)
}

// freeChannel implements the channel's "free-channel" event (spec.md
// §4.1): it clears in-use, the active sender, and the channel's entire set
// of pending delivery events (simplebroadcastchannel.cc's FreeChannel
// clears m_events wholesale, not just the newest one).
func (c *SimpleBroadcastChannel) freeChannel() {
	c.inUse = false
	c.activeSender = nil
	c.pending = c.pending[:0]
}

// notifyCollision reports a collision to a Mac's controller, if any. A Mac
// without a controller (e.g. a bare test double) is simply not notified.
func notifyCollision(m Mac) {
	if m == nil {
		return
	}
	if c, ok := m.(interface{ controller() Controller }); ok {
		if ctrl := c.controller(); ctrl != nil {
			ctrl.NotifyCollision()
		}
	}
}
