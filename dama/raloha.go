// SPDX-License-Identifier: GPL-3.0

package dama

import "github.com/heistp/damawijk/simclock"

// RAlohaController implements slotted Reservation-ALOHA over a TDMA frame
// of N slots (spec.md §4.4). A successful, uncontested transmission on a
// slot reserves that slot for the following frame; a collision releases
// the slot and draws a fresh random back-off.
type RAlohaController struct {
	sched simclock.Scheduler
	cfg   TdmaConfig
	mac   Mac

	currentSlot int
	waitingSlot int
	allowed     []bool
	forbidden   []bool

	tickID  simclock.EventID
	started bool

	trace *ControllerTrace
}

// ControllerTrace holds optional observability hooks for a controller, in
// the same spirit as MacTrace (spec.md §6, trace sinks are not part of the
// core contract).
type ControllerTrace struct {
	// Collision fires whenever notify-collision is handled, with the slot
	// index that was cleared.
	Collision func(slot int)
	// SlotReserved fires when a slot transitions to allowed.
	SlotReserved func(slot int)
}

func (t *ControllerTrace) collision(slot int) {
	if t != nil && t.Collision != nil {
		t.Collision(slot)
	}
}

func (t *ControllerTrace) slotReserved(slot int) {
	if t != nil && t.SlotReserved != nil {
		t.SlotReserved(slot)
	}
}

// DefaultNumSlots is THE CORE's default TDMA frame size (spec.md §4.4).
const DefaultNumSlots = 4

// NewRAlohaController returns a controller for the given Mac, using cfg for
// its timing. A zero-value NumSlots selects DefaultNumSlots.
func NewRAlohaController(sched simclock.Scheduler, mac Mac, cfg TdmaConfig) *RAlohaController {
	if cfg.NumSlots <= 0 {
		cfg.NumSlots = DefaultNumSlots
	}
	c := &RAlohaController{
		sched:     sched,
		cfg:       cfg,
		mac:       mac,
		allowed:   make([]bool, cfg.NumSlots),
		forbidden: make([]bool, cfg.NumSlots),
		trace:     &ControllerTrace{},
	}
	if sm, ok := mac.(*SimpleBroadcastMac); ok {
		sm.SetController(c)
	}
	return c
}

// Trace returns the controller's trace hooks for configuration.
func (c *RAlohaController) Trace() *ControllerTrace {
	return c.trace
}

// CurrentSlot returns the slot index the controller most recently ticked
// to. Exported to support invariant checks in tests (spec.md §8,
// invariant 3).
func (c *RAlohaController) CurrentSlot() int {
	return c.currentSlot
}

// WaitingSlot returns the controller's current back-off counter. Exported
// to support invariant checks in tests (spec.md §8, invariant 5).
func (c *RAlohaController) WaitingSlot() int {
	return c.waitingSlot
}

// FramePeriod returns (slot_time+guard_time) times num_slots, plus
// inter_frame_time, for a driver to log. The controller's own slot ticks
// are SlotTime apart, so its frames repeat every NumSlots*SlotTime; the
// two differ when GuardTime or InterFrameTime is non-zero.
func (c *RAlohaController) FramePeriod() simclock.Clock {
	return c.cfg.framePeriod()
}

// Start implements Controller (spec.md §4.4). Calling Start on a
// controller with no Mac attached is a programming error, per spec.
func (c *RAlohaController) Start() error {
	if c.mac == nil {
		return errNoMac
	}
	if c.started {
		return nil
	}
	c.started = true
	c.tickID = c.sched.Schedule(c.cfg.SlotTime-simclock.Clock(10), c.tick)
	return nil
}

// Stop cancels the controller's pending slot-tick, if any. Not part of the
// Controller interface: it exists so a simulation can tear nodes down
// mid-run without leaking scheduled events (spec.md §7, "Controllers
// cancel their next scheduled slot-tick on dispose").
func (c *RAlohaController) Stop() {
	if c.started {
		c.sched.Cancel(c.tickID)
		c.started = false
	}
}

// tick implements one slot-tick of the state machine in spec.md §4.4.
func (c *RAlohaController) tick() {
	c.currentSlot = (c.currentSlot + 1) % c.cfg.NumSlots
	// allowed OR NOT forbidden: preserved exactly as specified, including
	// its redundancy when both bits are set (spec.md §9, REDESIGN FLAGS 4).
	if c.allowed[c.currentSlot] || !c.forbidden[c.currentSlot] {
		if c.mac.HasData() {
			if c.waitingSlot == 0 {
				c.mac.SendHead()
				if !c.allowed[c.currentSlot] {
					c.trace.slotReserved(c.currentSlot)
				}
				c.allowed[c.currentSlot] = true
			} else {
				c.waitingSlot--
			}
		} else {
			c.allowed[c.currentSlot] = false
		}
	}
	c.tickID = c.sched.Schedule(c.cfg.SlotTime, c.tick)
}

// NotifyRx implements Controller.
func (c *RAlohaController) NotifyRx() {
	c.learnForbidden()
}

// NotifyPromiscRx implements Controller.
func (c *RAlohaController) NotifyPromiscRx() {
	c.learnForbidden()
}

// learnForbidden implements notify-rx/notify-promisc-rx (spec.md §4.4): if
// the current slot isn't one we hold, another node must hold it.
func (c *RAlohaController) learnForbidden() {
	if !c.allowed[c.currentSlot] {
		c.forbidden[c.currentSlot] = true
	}
}

// NotifyCollision implements Controller (spec.md §4.4): releases the
// current slot entirely and draws a fresh random back-off in [0, N].
func (c *RAlohaController) NotifyCollision() {
	c.allowed[c.currentSlot] = false
	c.forbidden[c.currentSlot] = false
	c.waitingSlot = c.sched.RandomUniformInt(0, c.cfg.NumSlots)
	c.trace.collision(c.currentSlot)
}

type controllerError string

func (e controllerError) Error() string { return string(e) }

const errNoMac = controllerError("dama: RAlohaController.Start called with no Mac attached")
