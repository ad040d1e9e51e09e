// SPDX-License-Identifier: EPL-2.0

package ringbuffer

import (
	"math"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/ik5/audring/internal/pow2"
)

// RingBuffer is a lock-free SPSC ring buffer of bytes.
// The zero value is an unallocated buffer; call Allocate before use.
type RingBuffer struct {
	buf      []byte
	capacity uint32
	mask     uint32

	_             cpu.CacheLinePad
	writePosition atomic.Uint32 // owned by the producer
	_             cpu.CacheLinePad
	readPosition  atomic.Uint32 // owned by the consumer
	_             cpu.CacheLinePad
}

// Vector describes a region of the ring as at most two contiguous spans.
// Second is empty unless the region wraps past the physical end of the buffer.
type Vector struct {
	First  []byte
	Second []byte
}

// Len returns the combined length of both spans.
func (v Vector) Len() int { return len(v.First) + len(v.Second) }

// New returns a buffer allocated with at least capacity bytes.
func New(capacity uint32) (*RingBuffer, error) {
	rb := &RingBuffer{}
	if !rb.Allocate(capacity) {
		return nil, ErrInvalidCapacity
	}
	return rb, nil
}

// Allocate sets up storage for at least capacity bytes, rounded up to a power
// of two. Any previous storage is released first. It returns false when
// capacity is outside [2, 2^31].
func (rb *RingBuffer) Allocate(capacity uint32) bool {
	if !pow2.Valid(capacity) {
		return false
	}

	rb.Deallocate()

	capacity = pow2.Next(capacity)

	rb.buf = make([]byte, capacity)
	rb.capacity = capacity
	rb.mask = capacity - 1

	return true
}

// Deallocate releases the storage and zeroes the capacity and cursors.
func (rb *RingBuffer) Deallocate() {
	if rb.buf == nil {
		return
	}

	rb.buf = nil
	rb.capacity = 0
	rb.mask = 0

	rb.readPosition.Store(0)
	rb.writePosition.Store(0)
}

// Reset empties the buffer. The storage is kept but its contents are stale.
func (rb *RingBuffer) Reset() {
	rb.readPosition.Store(0)
	rb.writePosition.Store(0)
}

// Capacity returns the allocated capacity in bytes, 0 if unallocated.
func (rb *RingBuffer) Capacity() uint32 { return rb.capacity }

// BytesAvailableToRead returns the number of bytes the consumer can read.
func (rb *RingBuffer) BytesAvailableToRead() uint32 {
	w := rb.writePosition.Load()
	r := rb.readPosition.Load()
	return rb.readable(w, r)
}

// BytesAvailableToWrite returns the number of bytes the producer can write.
func (rb *RingBuffer) BytesAvailableToWrite() uint32 {
	w := rb.writePosition.Load()
	r := rb.readPosition.Load()
	return rb.writable(w, r)
}

// IsEmpty reports whether there is nothing to read.
func (rb *RingBuffer) IsEmpty() bool {
	return rb.writePosition.Load() == rb.readPosition.Load()
}

// IsFull reports whether there is no room to write.
func (rb *RingBuffer) IsFull() bool {
	return rb.BytesAvailableToWrite() == 0
}

func (rb *RingBuffer) readable(w, r uint32) uint32 {
	if w > r {
		return w - r
	}
	return (w - r + rb.capacity) & rb.mask
}

func (rb *RingBuffer) writable(w, r uint32) uint32 {
	switch {
	case rb.capacity == 0:
		return 0
	case w > r:
		return ((r - w + rb.capacity) & rb.mask) - 1
	case w < r:
		return r - w - 1
	default:
		return rb.capacity - 1
	}
}

// Read copies up to len(dst) bytes into dst and consumes them. Unless
// allowPartial is set, nothing is read when fewer than len(dst) bytes are
// available. It returns the number of bytes read.
func (rb *RingBuffer) Read(dst []byte, allowPartial bool) uint32 {
	n, r := rb.peek(dst, allowPartial)
	if n == 0 {
		return 0
	}

	rb.readPosition.Store((r + n) & rb.mask)

	return n
}

// Peek is Read without consuming the bytes.
func (rb *RingBuffer) Peek(dst []byte, allowPartial bool) uint32 {
	n, _ := rb.peek(dst, allowPartial)
	return n
}

func (rb *RingBuffer) peek(dst []byte, allowPartial bool) (uint32, uint32) {
	count := clampLen(len(dst))
	if count == 0 {
		return 0, 0
	}

	w := rb.writePosition.Load()
	r := rb.readPosition.Load()

	available := rb.readable(w, r)
	if available == 0 || (available < count && !allowPartial) {
		return 0, r
	}

	n := min(available, count)
	if r+n > rb.capacity {
		tail := rb.capacity - r
		copy(dst, rb.buf[r:])
		copy(dst[tail:n], rb.buf[:n-tail])
	} else {
		copy(dst[:n], rb.buf[r:r+n])
	}

	return n, r
}

// Write copies up to len(src) bytes from src into the buffer. Unless
// allowPartial is set, nothing is written when there is room for fewer than
// len(src) bytes. It returns the number of bytes written.
func (rb *RingBuffer) Write(src []byte, allowPartial bool) uint32 {
	count := clampLen(len(src))
	if count == 0 {
		return 0
	}

	w := rb.writePosition.Load()
	r := rb.readPosition.Load()

	available := rb.writable(w, r)
	if available == 0 || (available < count && !allowPartial) {
		return 0
	}

	n := min(available, count)
	if w+n > rb.capacity {
		tail := rb.capacity - w
		copy(rb.buf[w:], src[:tail])
		copy(rb.buf[:n-tail], src[tail:n])
	} else {
		copy(rb.buf[w:w+n], src[:n])
	}

	rb.writePosition.Store((w + n) & rb.mask)

	return n
}

// AdvanceReadPosition consumes n bytes without copying them.
// The caller must not advance past BytesAvailableToRead.
func (rb *RingBuffer) AdvanceReadPosition(n uint32) {
	rb.readPosition.Store((rb.readPosition.Load() + n) & rb.mask)
}

// AdvanceWritePosition commits n bytes written through WriteVector.
// The caller must not advance past BytesAvailableToWrite.
func (rb *RingBuffer) AdvanceWritePosition(n uint32) {
	rb.writePosition.Store((rb.writePosition.Load() + n) & rb.mask)
}

// ReadVector returns the readable region in place. The spans must be treated
// as read-only and are valid until the next AdvanceReadPosition or Read.
func (rb *RingBuffer) ReadVector() Vector {
	w := rb.writePosition.Load()
	r := rb.readPosition.Load()

	return rb.vector(r, rb.readable(w, r))
}

// WriteVector returns the writable region in place.
func (rb *RingBuffer) WriteVector() Vector {
	w := rb.writePosition.Load()
	r := rb.readPosition.Load()

	return rb.vector(w, rb.writable(w, r))
}

func (rb *RingBuffer) vector(pos, n uint32) Vector {
	if n == 0 {
		return Vector{}
	}

	end := pos + n
	if end > rb.capacity {
		return Vector{
			First:  rb.buf[pos:rb.capacity:rb.capacity],
			Second: rb.buf[: end&rb.mask : end&rb.mask],
		}
	}

	return Vector{First: rb.buf[pos:end:end]}
}

func clampLen(n int) uint32 {
	if uint64(n) > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
