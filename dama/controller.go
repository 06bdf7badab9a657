// SPDX-License-Identifier: GPL-3.0

package dama

import "github.com/heistp/damawijk/simclock"

// Controller is the abstract arbitration contract a Mac defers to for
// channel access (spec.md §4.3). A Controller owns one or more Macs and
// decides when each may call SendHead.
type Controller interface {
	// Start begins the controller's arbitration loop (e.g. scheduling the
	// first slot tick). It is called once, after all Macs are attached.
	Start() error
	// NotifyRx is called when an attached Mac receives a frame addressed
	// to it (unicast or broadcast).
	NotifyRx()
	// NotifyPromiscRx is called when an attached Mac overhears a frame not
	// addressed to it, useful for slot-reservation snooping (spec.md
	// §4.4).
	NotifyPromiscRx()
	// NotifyCollision is called when an attempted transmission by an
	// attached Mac collided with another on the channel.
	NotifyCollision()
}

// TdmaConfig holds the timing parameters shared by every TDMA-based
// controller (spec.md §3, "Controller"/"TdmaController" rows). It mirrors
// ns-3's TdmaController attributes SlotTime, GuardTime and InterFrameTime,
// plus the slot count; there is no DataRate field.
type TdmaConfig struct {
	// SlotTime is the duration of one TDMA slot, excluding guard time.
	// RAlohaController ticks once every SlotTime.
	SlotTime simclock.Clock
	// GuardTime is the guard interval per slot. It enters only the
	// slotPeriod/framePeriod figures; slot ticks do not wait for it.
	GuardTime simclock.Clock
	// InterFrameTime is the gap per TDMA frame. It enters only the
	// framePeriod figure; slot ticks do not wait for it.
	InterFrameTime simclock.Clock
	// NumSlots is the number of slots per TDMA frame (spec.md §4.4).
	NumSlots int
}

// DefaultTdmaConfig returns a reference timing: 10ms slots, 1ms guard
// time, no inter-frame gap, DefaultNumSlots (4) slots per frame.
func DefaultTdmaConfig() TdmaConfig {
	return TdmaConfig{
		SlotTime:       simclock.Clock(10_000_000),
		GuardTime:      simclock.Clock(1_000_000),
		InterFrameTime: 0,
		NumSlots:       DefaultNumSlots,
	}
}

// slotPeriod is SlotTime plus GuardTime.
func (c TdmaConfig) slotPeriod() simclock.Clock {
	return c.SlotTime + c.GuardTime
}

// framePeriod is NumSlots slotPeriods plus InterFrameTime.
func (c TdmaConfig) framePeriod() simclock.Clock {
	return simclock.Clock(c.NumSlots)*c.slotPeriod() + c.InterFrameTime
}
