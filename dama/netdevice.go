// SPDX-License-Identifier: GPL-3.0

package dama

// MSDUMax is the largest MSDU the device is sized for; MTU is this minus
// the LLC/SNAP overhead (spec.md §4.5). Send and SendFrom do not check a
// packet's length against either value.
const MSDUMax = 1500

// DefaultMTU is MSDUMax reduced by the LLC/SNAP header.
const DefaultMTU = MSDUMax - llcSNAPOverhead

// ReceiveCallback is invoked when a packet addressed to this device (or
// broadcast) arrives.
type ReceiveCallback func(payload []byte, from Address, protocol uint16)

// PromiscCallback is invoked for every packet this device overhears on the
// channel, including ones addressed elsewhere.
type PromiscCallback func(payload []byte, from, to Address, protocol uint16)

// NetDevice is the thin façade THE CORE's upper layers talk to: it wraps a
// Mac and its Controller, handles LLC/SNAP encapsulation, and classifies
// inbound frames before forwarding them (spec.md §4.5).
type NetDevice struct {
	mac  Mac
	ctrl Controller
	mtu  int

	rx       ReceiveCallback
	promisc  PromiscCallback
}

// NewNetDevice returns a device wrapping mac, arbitrated by ctrl, with the
// default MTU.
func NewNetDevice(mac Mac, ctrl Controller) *NetDevice {
	d := &NetDevice{mac: mac, ctrl: ctrl, mtu: DefaultMTU}
	if sm, ok := mac.(*SimpleBroadcastMac); ok {
		sm.SetForwardUp(d.forwardUp)
	}
	return d
}

// Address returns the device's link-layer address.
func (d *NetDevice) Address() Address {
	return d.mac.Address()
}

// MTU returns the device's current MTU.
func (d *NetDevice) MTU() int {
	return d.mtu
}

// ErrMTUTooLarge is returned by SetMTU when mtu exceeds DefaultMTU.
var ErrMTUTooLarge = controllerError("dama: requested MTU exceeds MSDU_MAX - LLC/SNAP overhead")

// SetMTU sets the device's MTU, rejecting values above DefaultMTU
// (spec.md §4.5).
func (d *NetDevice) SetMTU(mtu int) error {
	if mtu > DefaultMTU {
		return ErrMTUTooLarge
	}
	d.mtu = mtu
	return nil
}

// RegisterReceiveCallback sets the callback invoked for packets addressed
// to this device.
func (d *NetDevice) RegisterReceiveCallback(fn ReceiveCallback) {
	d.rx = fn
}

// RegisterPromiscReceiveCallback sets the callback invoked for every
// packet overheard on the channel.
func (d *NetDevice) RegisterPromiscReceiveCallback(fn PromiscCallback) {
	d.promisc = fn
}

// Send implements NetDevice.send (spec.md §4.5): wraps packet in LLC/SNAP
// and enqueues it via the Mac, addressed from this device's own address.
func (d *NetDevice) Send(packet []byte, dest Address, protocol uint16) bool {
	return d.SendFrom(packet, d.mac.Address(), dest, protocol)
}

// SendFrom implements NetDevice.send-from (spec.md §4.5): as Send, but
// with an explicit source address for bridging use. source is not passed
// on: Mac.Enqueue has no source parameter, so every frame carries the
// Mac's own address (spec.md §9, Open Question 3).
func (d *NetDevice) SendFrom(packet []byte, source, dest Address, protocol uint16) bool {
	framed := encodeLLCSNAP(protocol, packet)
	return d.mac.Enqueue(framed, dest, EtherType(protocol))
}

// forwardUp implements the receive path of spec.md §4.5: classify the
// frame, notify the controller, and invoke the upward callback unless the
// frame is destined for another host.
//
// The controller is notified of every received frame regardless of
// whether a user promiscuous callback is registered: R-ALOHA's
// forbidden-slot learning (spec.md §4.4, notify-rx/notify-promisc-rx)
// depends on this and must not be gated behind an application choosing to
// observe overheard traffic. The "if a promisc callback is registered"
// condition in spec.md §4.5 is read as governing delivery of the *user's*
// PromiscCallback only, not the controller upcall.
func (d *NetDevice) forwardUp(payload []byte, from, to Address, etherType EtherType) {
	protocol, inner, ok := decodeLLCSNAP(payload)
	if !ok {
		return
	}
	self := to == d.mac.Address()
	broadcast := to.IsBroadcast()

	if d.ctrl != nil {
		if self || broadcast {
			d.ctrl.NotifyRx()
		} else {
			d.ctrl.NotifyPromiscRx()
		}
	}
	if d.promisc != nil {
		d.promisc(inner, from, to, protocol)
	}
	if !self && !broadcast {
		return
	}
	if d.rx != nil {
		d.rx(inner, from, protocol)
	}
}
