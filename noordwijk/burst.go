// SPDX-License-Identifier: GPL-3.0

package noordwijk

// BurstState tracks the size of the current burst and how much of it has
// been sent or retransmitted (spec.md §3, "BurstState").
type BurstState struct {
	// Size is the current burst_size, in segments.
	Size int
	// SentThisBurst counts segments sent since the last reset.
	SentThisBurst int
	// RetransmittedThisBurst counts segments retransmitted since the
	// last reset (spec.md §4.6.3/§4.6.2d).
	RetransmittedThisBurst int
}

// newBurstState returns a BurstState seeded at the default burst size.
func newBurstState(defaultSize int) BurstState {
	return BurstState{Size: defaultSize}
}

// shrinkByRetransmits subtracts RetransmittedThisBurst from Size, clamping
// at 1, then resets the counter (spec.md §4.6.2d).
func (b *BurstState) shrinkByRetransmits() {
	b.Size -= b.RetransmittedThisBurst
	if b.Size < 1 {
		b.Size = 1
	}
	b.RetransmittedThisBurst = 0
}

// resetForNextBurst clears the per-burst sent counter. Called once a burst
// has been fully paced out (spec.md §4.6.1).
func (b *BurstState) resetForNextBurst() {
	b.SentThisBurst = 0
}
