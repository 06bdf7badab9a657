// SPDX-License-Identifier: GPL-3.0

package dama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLCSNAPRoundTrip(t *testing.T) {
	payload := []byte("hello, R-ALOHA")
	framed := encodeLLCSNAP(0x0800, payload)
	assert.Equal(t, llcSNAPOverhead+len(payload), len(framed))

	protocol, got, ok := decodeLLCSNAP(framed)
	assert.True(t, ok)
	assert.Equal(t, uint16(0x0800), protocol)
	assert.Equal(t, payload, got)
}

func TestLLCSNAPDecodeTooShort(t *testing.T) {
	_, _, ok := decodeLLCSNAP([]byte{0xaa, 0xaa, 0x03})
	assert.False(t, ok)
}

func TestFrameLen(t *testing.T) {
	f := Frame{Dst: Broadcast, Src: Zero, EtherType: 0x0800, Payload: make([]byte, 46)}
	assert.Equal(t, 6+6+2+46, f.Len())
}
