// SPDX-License-Identifier: GPL-3.0

package dama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTxQueueFIFOOrder(t *testing.T) {
	q := newTxQueue(0)
	for i := 0; i < 3; i++ {
		ok := q.push(queueItem{dest: Address{byte(i)}})
		assert.True(t, ok)
	}
	assert.Equal(t, 3, q.len())
	for i := 0; i < 3; i++ {
		item, ok := q.pop()
		assert.True(t, ok)
		assert.Equal(t, Address{byte(i)}, item.dest)
	}
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestTxQueueBoundedCapacity(t *testing.T) {
	q := newTxQueue(2)
	assert.True(t, q.push(queueItem{}))
	assert.True(t, q.push(queueItem{}))
	assert.False(t, q.push(queueItem{}), "third push must be dropped at capacity 2")
	assert.Equal(t, 2, q.len())
}

func TestTxQueueDefaultCapacity(t *testing.T) {
	q := newTxQueue(0)
	assert.Equal(t, DefaultMaxPacketNumber, q.cap)
}
