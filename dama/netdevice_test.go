// SPDX-License-Identifier: GPL-3.0

package dama

import (
	"testing"

	"github.com/heistp/damawijk/simclock"
	"github.com/stretchr/testify/assert"
)

// stubController is a Controller that only counts notifications, for
// exercising NetDevice.forwardUp's classification independent of any
// particular arbitration policy.
type stubController struct {
	rx, promiscRx, collisions int
}

func (s *stubController) Start() error    { return nil }
func (s *stubController) NotifyRx()       { s.rx++ }
func (s *stubController) NotifyPromiscRx() { s.promiscRx++ }
func (s *stubController) NotifyCollision() { s.collisions++ }

// newTestDevice returns a NetDevice wrapping a fresh Mac and stubController,
// with no Channel attached: tests drive it by calling Receive directly,
// which is enough to exercise forwardUp without a running scheduler.
func newTestDevice(addr Address) (*NetDevice, *stubController) {
	sched := simclock.NewEngine(1)
	mac := NewSimpleBroadcastMac(sched, addr, 0)
	ctrl := &stubController{}
	return NewNetDevice(mac, ctrl), ctrl
}

// TestNetDeviceSelfUnicastDelivery is spec.md §4.5's "self" classification:
// a frame addressed to this device's own address calls NotifyRx and the
// registered receive callback, decoding the LLC/SNAP header correctly.
func TestNetDeviceSelfUnicastDelivery(t *testing.T) {
	self := DefaultAllocator.Allocate()
	other := DefaultAllocator.Allocate()
	dev, ctrl := newTestDevice(self)

	var rxPayload []byte
	var rxFrom Address
	var rxProtocol uint16
	var rxCalls, promiscCalls int
	dev.RegisterReceiveCallback(func(payload []byte, from Address, protocol uint16) {
		rxCalls++
		rxPayload, rxFrom, rxProtocol = payload, from, protocol
	})
	dev.RegisterPromiscReceiveCallback(func(payload []byte, from, to Address, protocol uint16) {
		promiscCalls++
	})

	framed := encodeLLCSNAP(0x0800, []byte("hello"))
	dev.mac.Receive(Frame{Dst: self, Src: other, EtherType: 0x0800, Payload: framed})

	assert.Equal(t, 1, ctrl.rx, "self-addressed frame must call NotifyRx")
	assert.Equal(t, 0, ctrl.promiscRx, "self-addressed frame must not call NotifyPromiscRx")
	assert.Equal(t, 1, rxCalls, "receive callback must fire for a self-addressed frame")
	assert.Equal(t, 1, promiscCalls, "the promiscuous callback fires for every overheard frame, including self-addressed ones")
	assert.Equal(t, []byte("hello"), rxPayload)
	assert.Equal(t, other, rxFrom)
	assert.Equal(t, uint16(0x0800), rxProtocol)
}

// TestNetDeviceBroadcastDelivery is spec.md §4.5's "broadcast"
// classification: a frame addressed to Broadcast is delivered exactly like
// a self-addressed one.
func TestNetDeviceBroadcastDelivery(t *testing.T) {
	self := DefaultAllocator.Allocate()
	other := DefaultAllocator.Allocate()
	dev, ctrl := newTestDevice(self)

	var rxCalls int
	dev.RegisterReceiveCallback(func(payload []byte, from Address, protocol uint16) {
		rxCalls++
	})

	framed := encodeLLCSNAP(0x0801, []byte("bcast"))
	dev.mac.Receive(Frame{Dst: Broadcast, Src: other, EtherType: 0x0801, Payload: framed})

	assert.Equal(t, 1, ctrl.rx, "broadcast frame must call NotifyRx")
	assert.Equal(t, 0, ctrl.promiscRx)
	assert.Equal(t, 1, rxCalls)
}

// TestNetDeviceOtherHostPromiscOnly is spec.md §4.5's "other" classification:
// a frame addressed to neither this device nor broadcast calls
// NotifyPromiscRx and the promiscuous callback, but never the receive
// callback — this is the path R-ALOHA's forbidden-slot learning (spec.md
// §4.4) depends on.
func TestNetDeviceOtherHostPromiscOnly(t *testing.T) {
	self := DefaultAllocator.Allocate()
	a := DefaultAllocator.Allocate()
	b := DefaultAllocator.Allocate()
	dev, ctrl := newTestDevice(self)

	var rxCalls, promiscCalls int
	var gotFrom, gotTo Address
	var gotProtocol uint16
	dev.RegisterReceiveCallback(func(payload []byte, from Address, protocol uint16) {
		rxCalls++
	})
	dev.RegisterPromiscReceiveCallback(func(payload []byte, from, to Address, protocol uint16) {
		promiscCalls++
		gotFrom, gotTo, gotProtocol = from, to, protocol
	})

	framed := encodeLLCSNAP(0x0800, []byte("overheard"))
	dev.mac.Receive(Frame{Dst: b, Src: a, EtherType: 0x0800, Payload: framed})

	assert.Equal(t, 0, ctrl.rx)
	assert.Equal(t, 1, ctrl.promiscRx, "a frame addressed elsewhere must call NotifyPromiscRx")
	assert.Equal(t, 0, rxCalls, "the receive callback must not fire for a frame addressed to another host")
	assert.Equal(t, 1, promiscCalls)
	assert.Equal(t, a, gotFrom)
	assert.Equal(t, b, gotTo)
	assert.Equal(t, uint16(0x0800), gotProtocol)
}

// TestNetDeviceMalformedFrameDropped is spec.md §4.5: a payload too short
// to carry an LLC/SNAP header is dropped before classification, so neither
// the controller nor any callback observes it.
func TestNetDeviceMalformedFrameDropped(t *testing.T) {
	self := DefaultAllocator.Allocate()
	other := DefaultAllocator.Allocate()
	dev, ctrl := newTestDevice(self)

	var rxCalls, promiscCalls int
	dev.RegisterReceiveCallback(func(payload []byte, from Address, protocol uint16) { rxCalls++ })
	dev.RegisterPromiscReceiveCallback(func(payload []byte, from, to Address, protocol uint16) { promiscCalls++ })

	dev.mac.Receive(Frame{Dst: self, Src: other, EtherType: 0x0800, Payload: []byte{0x01, 0x02}})

	assert.Equal(t, 0, ctrl.rx)
	assert.Equal(t, 0, ctrl.promiscRx)
	assert.Equal(t, 0, rxCalls)
	assert.Equal(t, 0, promiscCalls)
}
