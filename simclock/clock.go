// SPDX-License-Identifier: GPL-3.0

// Package simclock provides the logical-time primitives that the DAMA and
// Noordwijk packages are built against: a nanosecond-resolution clock and
// a Scheduler contract for posting and cancelling delayed callbacks.
//
// Neither package in this module implements its own simulation kernel.
// simclock.Engine is a reference scheduler suitable for tests and for the
// cmd/damasim driver; a host simulator may supply any other type that
// satisfies Scheduler.
package simclock

import (
	"fmt"
	"time"
)

// Clock is a point in, or duration of, logical simulation time.
type Clock time.Duration

// ClockInfinity is the maximum representable Clock value, used as the
// initial value of a "no sample yet" minimum.
const ClockInfinity = Clock(1<<63 - 1)

// String renders the Clock in fractional seconds, matching the convention
// used throughout the simulator for log output.
func (c Clock) String() string {
	return fmt.Sprintf("%.6f", time.Duration(c).Seconds())
}

// StringMS renders the Clock in fractional milliseconds.
func (c Clock) StringMS() string {
	return fmt.Sprintf("%.3f", time.Duration(c).Seconds()*1000)
}

// Milliseconds returns the integer number of milliseconds in c, truncating.
// Noordwijk's rate laws are specified as integer millisecond arithmetic
// (spec.md §4.6.2, "Integer arithmetic"), so this is the conversion used at
// every Noordwijk arithmetic boundary.
func (c Clock) Milliseconds() int64 {
	return time.Duration(c).Milliseconds()
}

// FromMilliseconds builds a Clock from an integer millisecond count.
func FromMilliseconds(ms int64) Clock {
	return Clock(ms * int64(time.Millisecond))
}
