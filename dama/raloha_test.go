// SPDX-License-Identifier: GPL-3.0

package dama

import (
	"testing"

	"github.com/heistp/damawijk/simclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNode bundles the pieces a scenario test wires up per simulated host.
type testNode struct {
	mac  *SimpleBroadcastMac
	ctrl *RAlohaController
	dev  *NetDevice
}

func newTestNode(t *testing.T, sched simclock.Scheduler, ch *SimpleBroadcastChannel, cfg TdmaConfig) *testNode {
	t.Helper()
	mac := NewSimpleBroadcastMac(sched, DefaultAllocator.Allocate(), 0)
	mac.SetChannel(ch)
	ctrl := NewRAlohaController(sched, mac, cfg)
	require.NoError(t, ctrl.Start())
	return &testNode{mac: mac, ctrl: ctrl}
}

// newTestNodeWithDevice is newTestNode plus a NetDevice wrapping the Mac,
// so inbound frames go through forwardUp's classification and the
// controller actually receives NotifyRx/NotifyPromiscRx (spec.md §4.5) —
// the path newTestNode's bare Mac skips entirely.
func newTestNodeWithDevice(t *testing.T, sched simclock.Scheduler, ch *SimpleBroadcastChannel, cfg TdmaConfig) *testNode {
	t.Helper()
	n := newTestNode(t, sched, ch, cfg)
	n.dev = NewNetDevice(n.mac, n.ctrl)
	return n
}

// keepBacklogged enqueues enough frames addressed to peer that n's queue
// never empties for the remainder of a test run, so n holds its reserved
// slot continuously instead of going idle after one transmission. Each
// payload carries an LLC/SNAP header so a receiving NetDevice accepts it
// rather than dropping it as malformed.
func keepBacklogged(t *testing.T, n *testNode, peer Address) {
	t.Helper()
	for i := 0; i < DefaultMaxPacketNumber; i++ {
		n.mac.Enqueue(encodeLLCSNAP(0x0800, []byte{byte(i)}), peer, 0x0800)
	}
}

// testCfg matches spec.md §7's worked example: N=4, slot_time=100ms,
// propagation=10ms.
func testCfg() (TdmaConfig, simclock.Clock) {
	return TdmaConfig{SlotTime: simclock.FromMilliseconds(100), NumSlots: 4},
		simclock.FromMilliseconds(10)
}

// TestRAlohaNoContention is scenario S1 (spec.md §7): node A enqueues 10
// frames at t=0 with node B idle; expect exactly 10 deliveries to B and
// zero collisions.
func TestRAlohaNoContention(t *testing.T) {
	cfg, prop := testCfg()
	sched := simclock.NewEngine(1)
	ch := NewSimpleBroadcastChannel(sched, prop)

	a := newTestNode(t, sched, ch, cfg)
	b := newTestNode(t, sched, ch, cfg)

	var delivered int
	var collisions int
	b.mac.SetForwardUp(func(payload []byte, from, to Address, et EtherType) {
		delivered++
	})
	a.ctrl.Trace().Collision = func(slot int) { collisions++ }
	b.ctrl.Trace().Collision = func(slot int) { collisions++ }

	for i := 0; i < 10; i++ {
		require.True(t, a.mac.Enqueue([]byte{byte(i)}, b.mac.Address(), 0x0800))
	}

	sched.RunUntil(cfg.SlotTime * 60)

	assert.Equal(t, 10, delivered)
	assert.Equal(t, 0, collisions)
}

// TestRAlohaSimultaneousFirstTransmission is scenario S2 (spec.md §7): both
// nodes enqueue one frame at t=0 and reach their first contended slot
// together, producing exactly one collision notification per controller,
// after which both frames are eventually delivered.
func TestRAlohaSimultaneousFirstTransmission(t *testing.T) {
	cfg, prop := testCfg()
	sched := simclock.NewEngine(2)
	ch := NewSimpleBroadcastChannel(sched, prop)

	a := newTestNode(t, sched, ch, cfg)
	b := newTestNode(t, sched, ch, cfg)

	var aRx, bRx int
	var aCollisions, bCollisions int
	a.mac.SetForwardUp(func(payload []byte, from, to Address, et EtherType) { aRx++ })
	b.mac.SetForwardUp(func(payload []byte, from, to Address, et EtherType) { bRx++ })
	a.ctrl.Trace().Collision = func(slot int) { aCollisions++ }
	b.ctrl.Trace().Collision = func(slot int) { bCollisions++ }

	require.True(t, a.mac.Enqueue([]byte("a"), b.mac.Address(), 0x0800))
	require.True(t, b.mac.Enqueue([]byte("b"), a.mac.Address(), 0x0800))

	sched.RunUntil(cfg.SlotTime * 60)

	assert.GreaterOrEqual(t, aCollisions, 1)
	assert.GreaterOrEqual(t, bCollisions, 1)
	assert.Equal(t, 1, aRx, "B's frame must eventually be delivered to A")
	assert.Equal(t, 1, bRx, "A's frame must eventually be delivered to B")
}

// TestRAlohaForbiddenSlotLearning is scenario S3 (spec.md §7): once node B
// overhears node A's successful slots, B must not contend on them even
// with data queued and allowed=0. Both nodes are wired through a
// NetDevice, since forbidden-slot learning depends entirely on the
// NotifyRx/NotifyPromiscRx upcall that only NetDevice.forwardUp issues
// (spec.md §4.5); a bare Mac never drives it, as the control case below
// demonstrates.
func TestRAlohaForbiddenSlotLearning(t *testing.T) {
	t.Run("LearnsForbiddenSlot", func(t *testing.T) {
		cfg, prop := testCfg()
		sched := simclock.NewEngine(3)
		ch := NewSimpleBroadcastChannel(sched, prop)

		a := newTestNodeWithDevice(t, sched, ch, cfg)
		b := newTestNodeWithDevice(t, sched, ch, cfg)

		// A stays backlogged so it holds every slot it can claim for the
		// whole run, instead of going idle after one transmission. With
		// no contention yet, A ends up claiming all cfg.NumSlots slots.
		keepBacklogged(t, a, b.mac.Address())

		// Run long enough for A to reserve every slot and for B to learn,
		// via NotifyRx on A's directed frames, that all of them are
		// forbidden.
		sched.RunUntil(cfg.SlotTime * simclock.Clock(cfg.NumSlots) * 4)

		// B now also has data queued, but every slot is one it has
		// learned is A's.
		keepBacklogged(t, b, a.mac.Address())

		var collisions int
		a.ctrl.Trace().Collision = func(slot int) { collisions++ }
		b.ctrl.Trace().Collision = func(slot int) { collisions++ }

		sched.RunUntil(cfg.SlotTime * simclock.Clock(cfg.NumSlots) * 16)

		assert.Equal(t, 0, collisions, "B must treat A's reserved slots as forbidden, not contend on them")
	})

	t.Run("CollidesWithoutNotification", func(t *testing.T) {
		// Negative control: bare Macs wired directly, bypassing
		// NetDevice.forwardUp entirely, so the controllers never see
		// NotifyRx/NotifyPromiscRx and B never learns any of A's slots
		// are forbidden. Contention must then occur, proving the
		// positive case above is actually exercising the learning path
		// and not passing vacuously.
		cfg, prop := testCfg()
		sched := simclock.NewEngine(13)
		ch := NewSimpleBroadcastChannel(sched, prop)

		a := newTestNode(t, sched, ch, cfg)
		b := newTestNode(t, sched, ch, cfg)

		keepBacklogged(t, a, b.mac.Address())
		sched.RunUntil(cfg.SlotTime * simclock.Clock(cfg.NumSlots) * 4)
		keepBacklogged(t, b, a.mac.Address())

		var collisions int
		a.ctrl.Trace().Collision = func(slot int) { collisions++ }
		b.ctrl.Trace().Collision = func(slot int) { collisions++ }

		sched.RunUntil(cfg.SlotTime * simclock.Clock(cfg.NumSlots) * 16)

		assert.Greater(t, collisions, 0, "without NetDevice notification B has no way to learn A's slots, so contention must occur")
	})
}

// TestSlotWraparound is invariant 3 (spec.md §8): current_slot always
// stays in [0, N).
func TestSlotWraparound(t *testing.T) {
	cfg, prop := testCfg()
	sched := simclock.NewEngine(4)
	ch := NewSimpleBroadcastChannel(sched, prop)
	a := newTestNode(t, sched, ch, cfg)

	sched.RunUntil(cfg.SlotTime * 41)
	slot := a.ctrl.CurrentSlot()
	assert.GreaterOrEqual(t, slot, 0)
	assert.Less(t, slot, cfg.NumSlots)
}

// TestBackoffBound is invariant 5 (spec.md §8): after a collision,
// waiting_slot is drawn from [0, N].
func TestBackoffBound(t *testing.T) {
	cfg, prop := testCfg()
	sched := simclock.NewEngine(5)
	ch := NewSimpleBroadcastChannel(sched, prop)
	a := newTestNode(t, sched, ch, cfg)
	b := newTestNode(t, sched, ch, cfg)

	require.True(t, a.mac.Enqueue([]byte("a"), b.mac.Address(), 0x0800))
	require.True(t, b.mac.Enqueue([]byte("b"), a.mac.Address(), 0x0800))

	a.ctrl.Trace().Collision = func(slot int) {
		assert.GreaterOrEqual(t, a.ctrl.WaitingSlot(), 0)
		assert.LessOrEqual(t, a.ctrl.WaitingSlot(), cfg.NumSlots)
	}
	sched.RunUntil(cfg.SlotTime * 20)
}
