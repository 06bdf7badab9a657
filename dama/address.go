// SPDX-License-Identifier: GPL-3.0

package dama

import "fmt"

// Address is a 48-bit MAC address, matching the 6-byte dst/src fields of
// the DAMA frame header (spec.md §6, "Wire/framing").
type Address [6]byte

// Broadcast is the all-ones address used for broadcast frames.
var Broadcast = Address{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// Zero is the unset address, never valid as a real endpoint.
var Zero = Address{}

func (a Address) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x",
		a[0], a[1], a[2], a[3], a[4], a[5])
}

// IsBroadcast reports whether a is the broadcast address.
func (a Address) IsBroadcast() bool {
	return a == Broadcast
}

// addressAllocator hands out sequential, globally-unique addresses for a
// single simulation run. Real MAC-48 allocation (OUI assignment, collision
// avoidance across runs) is explicitly out of THE CORE's scope (spec.md
// §1); this is just enough to satisfy the "globally unique within
// simulation" invariant in spec.md §3 for tests and the cmd/damasim driver.
type addressAllocator struct {
	next uint64
}

// newAddressAllocator returns an allocator seeded from a locally
// administered OUI prefix (02:00:00), so generated addresses are never
// confused with the broadcast or zero addresses.
func newAddressAllocator() *addressAllocator {
	return &addressAllocator{next: 1}
}

// Allocate returns the next Address in sequence.
func (a *addressAllocator) Allocate() Address {
	n := a.next
	a.next++
	return Address{0x02, 0x00, 0x00,
		byte(n >> 16), byte(n >> 8), byte(n)}
}

// DefaultAllocator is a shared allocator for callers that need fresh node
// addresses. The package's constructors take an address explicitly and do
// not consult it.
var DefaultAllocator = newAddressAllocator()
