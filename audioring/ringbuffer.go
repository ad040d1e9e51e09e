// SPDX-License-Identifier: EPL-2.0

package audioring

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/ik5/audring/audio"
)

// RingBuffer is a lock-free SPSC ring buffer of non-interleaved audio frames.
//
// Every channel lives in its own region of a single allocation, and all
// channels share one pair of frame cursors, so a frame is always written
// and read across every channel at once. One frame of capacity is kept free
// to tell a full buffer from an empty one.
type RingBuffer struct {
	storage channelStorage

	_            cpu.CacheLinePad
	writePointer atomic.Uint32 // owned by the producer
	_            cpu.CacheLinePad
	readPointer  atomic.Uint32 // owned by the consumer
	_            cpu.CacheLinePad
}

// New returns a ring buffer allocated for at least capacityFrames frames.
func New(format audio.StreamFormat, capacityFrames uint32) (*RingBuffer, error) {
	if err := checkAllocation(format, capacityFrames); err != nil {
		return nil, err
	}

	rb := &RingBuffer{}
	if !rb.Allocate(format, capacityFrames) {
		return nil, ErrInvalidCapacity
	}

	return rb, nil
}

// Allocate sets up storage for capacityFrames frames of format, rounded up
// to a power of two, and empties the buffer. Any previous storage is released
// first. It returns false for interleaved formats and for capacities outside
// [2, 2^31].
func (rb *RingBuffer) Allocate(format audio.StreamFormat, capacityFrames uint32) bool {
	if !rb.storage.allocate(format, capacityFrames) {
		return false
	}

	rb.Reset()

	return true
}

// Deallocate releases the storage and zeroes the format, capacity and cursors.
func (rb *RingBuffer) Deallocate() {
	if !rb.storage.allocated() {
		return
	}

	rb.storage.release()
	rb.Reset()
}

// Reset empties the buffer. The storage is kept but its contents are stale.
func (rb *RingBuffer) Reset() {
	rb.readPointer.Store(0)
	rb.writePointer.Store(0)
}

// Format returns the format passed to Allocate.
func (rb *RingBuffer) Format() audio.StreamFormat { return rb.storage.format }

// CapacityFrames returns the allocated capacity in frames, 0 if unallocated.
func (rb *RingBuffer) CapacityFrames() uint32 { return rb.storage.capacityFrames }

// FramesAvailableToRead returns the number of frames the consumer can read.
func (rb *RingBuffer) FramesAvailableToRead() uint32 {
	w := rb.writePointer.Load()
	r := rb.readPointer.Load()
	return rb.readable(w, r)
}

// FramesAvailableToWrite returns the number of frames the producer can write.
func (rb *RingBuffer) FramesAvailableToWrite() uint32 {
	w := rb.writePointer.Load()
	r := rb.readPointer.Load()
	return rb.writable(w, r)
}

// IsEmpty reports whether there is nothing to read.
func (rb *RingBuffer) IsEmpty() bool {
	return rb.writePointer.Load() == rb.readPointer.Load()
}

// IsFull reports whether there is no room to write.
func (rb *RingBuffer) IsFull() bool {
	return rb.FramesAvailableToWrite() == 0
}

func (rb *RingBuffer) readable(w, r uint32) uint32 {
	if w > r {
		return w - r
	}
	return (w - r + rb.storage.capacityFrames) & rb.storage.mask
}

func (rb *RingBuffer) writable(w, r uint32) uint32 {
	capacity := rb.storage.capacityFrames

	switch {
	case capacity == 0:
		return 0
	case w > r:
		return ((r - w + capacity) & rb.storage.mask) - 1
	case w < r:
		return r - w - 1
	default:
		return capacity - 1
	}
}

// Read copies up to frameCount frames into bl, one buffer per channel, and
// consumes them. Unless allowPartial is set, nothing is read when fewer than
// frameCount frames are available. On success every buffer's ByteSize is set
// to the number of bytes read. It returns the number of frames read.
func (rb *RingBuffer) Read(bl audio.BufferList, frameCount uint32, allowPartial bool) uint32 {
	if frameCount == 0 || !rb.storage.accepts(bl) {
		return 0
	}

	w := rb.writePointer.Load()
	r := rb.readPointer.Load()

	available := rb.readable(w, r)
	if available == 0 || (available < frameCount && !allowPartial) {
		return 0
	}

	n := min(available, frameCount)
	capacity := rb.storage.capacityFrames
	bpf := rb.storage.bytesPerFrame

	if r+n > capacity {
		tail := capacity - r
		rb.storage.fetch(bl, 0, int(r)*bpf, int(tail)*bpf)
		rb.storage.fetch(bl, int(tail)*bpf, 0, int(n-tail)*bpf)
	} else {
		rb.storage.fetch(bl, 0, int(r)*bpf, int(n)*bpf)
	}

	rb.readPointer.Store((r + n) & rb.storage.mask)

	bl.SetByteSize(int(n) * bpf)

	return n
}

// Write copies up to frameCount frames from bl, one buffer per channel, into
// the ring. Unless allowPartial is set, nothing is written when there is room
// for fewer than frameCount frames. It returns the number of frames written.
func (rb *RingBuffer) Write(bl audio.BufferList, frameCount uint32, allowPartial bool) uint32 {
	if frameCount == 0 || !rb.storage.accepts(bl) {
		return 0
	}

	w := rb.writePointer.Load()
	r := rb.readPointer.Load()

	available := rb.writable(w, r)
	if available == 0 || (available < frameCount && !allowPartial) {
		return 0
	}

	n := min(available, frameCount)
	capacity := rb.storage.capacityFrames
	bpf := rb.storage.bytesPerFrame

	if w+n > capacity {
		tail := capacity - w
		rb.storage.store(bl, int(w)*bpf, 0, int(tail)*bpf)
		rb.storage.store(bl, 0, int(tail)*bpf, int(n-tail)*bpf)
	} else {
		rb.storage.store(bl, int(w)*bpf, 0, int(n)*bpf)
	}

	rb.writePointer.Store((w + n) & rb.storage.mask)

	return n
}

func checkAllocation(format audio.StreamFormat, capacityFrames uint32) error {
	if format.IsInterleaved() {
		return audio.ErrInterleavedFormat
	}
	if err := format.Validate(); err != nil {
		return ErrInvalidFormat
	}
	if capacityFrames < 2 || capacityFrames > 1<<31 {
		return ErrInvalidCapacity
	}
	return nil
}
