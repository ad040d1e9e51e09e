// SPDX-License-Identifier: EPL-2.0

package ringbuffer

import "encoding/binary"

// scratchSize covers every fixed-size scalar and small structs without a heap
// allocation.
const scratchSize = 64

// WriteValue writes the little-endian encoding of a fixed-size value.
// The value is written whole or not at all.
func WriteValue[T any](rb *RingBuffer, v T) bool {
	size := binary.Size(v)
	if size <= 0 {
		return false
	}

	var scratch [scratchSize]byte
	buf := scratchBuffer(&scratch, size)
	if _, err := binary.Encode(buf, binary.LittleEndian, v); err != nil {
		return false
	}

	return rb.Write(buf, false) == uint32(size)
}

// ReadValue reads and consumes a fixed-size value written by WriteValue.
func ReadValue[T any](rb *RingBuffer, v *T) bool {
	return decodeValue(rb, v, true)
}

// PeekValue decodes the next fixed-size value without consuming it.
func PeekValue[T any](rb *RingBuffer, v *T) bool {
	return decodeValue(rb, v, false)
}

func decodeValue[T any](rb *RingBuffer, v *T, consume bool) bool {
	size := binary.Size(v)
	if size <= 0 {
		return false
	}

	var scratch [scratchSize]byte
	buf := scratchBuffer(&scratch, size)
	if rb.Peek(buf, false) != uint32(size) {
		return false
	}
	if _, err := binary.Decode(buf, binary.LittleEndian, v); err != nil {
		return false
	}

	if consume {
		rb.AdvanceReadPosition(uint32(size))
	}

	return true
}

func scratchBuffer(scratch *[scratchSize]byte, size int) []byte {
	if size <= scratchSize {
		return scratch[:size]
	}
	return make([]byte, size)
}
