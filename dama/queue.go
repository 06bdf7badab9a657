// SPDX-License-Identifier: GPL-3.0

package dama

import "github.com/heistp/damawijk/simclock"

// DefaultMaxPacketNumber is the default bound on a Mac's send queue
// (spec.md §3, "Mac" row: cap = MaxPacketNumber, default 400).
const DefaultMaxPacketNumber = 400

// queueItem is one entry in a Mac's send queue: the payload awaiting
// framing, its destination and EtherType, and the time it was enqueued
// (spec.md §3). Framing (prepending the Ethernet-style header) happens at
// SendHead time, not at enqueue time.
type queueItem struct {
	payload   []byte
	dest      Address
	etherType EtherType
	enqueued  simclock.Clock
}

// txQueue is a bounded FIFO of queueItem, preserving enqueue order
// (spec.md §3, "QueueItem" row).
type txQueue struct {
	items []queueItem
	cap   int
}

func newTxQueue(capacity int) *txQueue {
	if capacity <= 0 {
		capacity = DefaultMaxPacketNumber
	}
	return &txQueue{cap: capacity}
}

// push appends an item, returning false (and dropping nothing itself — the
// caller decides whether to trace the drop) if the queue is already full.
func (q *txQueue) push(item queueItem) bool {
	if len(q.items) >= q.cap {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// pop removes and returns the head item.
func (q *txQueue) pop() (queueItem, bool) {
	if len(q.items) == 0 {
		return queueItem{}, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

func (q *txQueue) len() int {
	return len(q.items)
}
