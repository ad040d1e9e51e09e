// SPDX-License-Identifier: EPL-2.0

package audioring

import (
	"math"

	"github.com/ik5/audring/audio"
)

// TimestampedRingBuffer stores non-interleaved audio against an absolute
// sample-time axis. The frame for time t lives at physical frame t modulo the
// capacity, and the range of times currently held is published through a
// lock-free register so one reader can query and read it while one writer
// appends.
//
// The writer owns the time axis: writing earlier than the current end throws
// away everything held, writing past capacity evicts the oldest frames, and
// writing after a gap zero-fills the skipped frames.
type TimestampedRingBuffer struct {
	storage channelStorage
	bounds  boundsRegister
}

// NewTimestamped returns a timestamped ring buffer allocated for at least
// capacityFrames frames.
func NewTimestamped(format audio.StreamFormat, capacityFrames uint32) (*TimestampedRingBuffer, error) {
	if err := checkAllocation(format, capacityFrames); err != nil {
		return nil, err
	}

	rb := &TimestampedRingBuffer{}
	if !rb.Allocate(format, capacityFrames) {
		return nil, ErrInvalidCapacity
	}

	return rb, nil
}

// Allocate sets up storage for capacityFrames frames of format, rounded up
// to a power of two, and resets the time bounds to [0, 0).
func (rb *TimestampedRingBuffer) Allocate(format audio.StreamFormat, capacityFrames uint32) bool {
	if !rb.storage.allocate(format, capacityFrames) {
		return false
	}

	rb.bounds.reset()

	return true
}

// Deallocate releases the storage and resets the time bounds.
func (rb *TimestampedRingBuffer) Deallocate() {
	if !rb.storage.allocated() {
		return
	}

	rb.storage.release()
	rb.bounds.reset()
}

// Reset forgets every frame held by resetting the time bounds to [0, 0).
func (rb *TimestampedRingBuffer) Reset() {
	rb.bounds.reset()
}

// Format returns the stream format the buffer was allocated for.
func (rb *TimestampedRingBuffer) Format() audio.StreamFormat { return rb.storage.format }

// CapacityFrames returns the allocated capacity in frames, or 0 when
// unallocated.
func (rb *TimestampedRingBuffer) CapacityFrames() uint32 { return rb.storage.capacityFrames }

// TimeBounds returns the range of sample times currently held. It fails only
// when the writer republished the bounds on every attempt.
func (rb *TimestampedRingBuffer) TimeBounds() (TimeBounds, bool) {
	return rb.bounds.load()
}

// Write stores frameCount frames from bl at sample time startTime and
// publishes the new bounds. It fails for a nil or mismatched buffer list,
// a frame count above capacity, a negative time or an end time past
// math.MaxInt64.
func (rb *TimestampedRingBuffer) Write(bl audio.BufferList, frameCount uint32, startTime int64) bool {
	if frameCount == 0 {
		return true
	}

	if !rb.storage.accepts(bl) || !rb.validRange(frameCount, startTime) {
		return false
	}

	capacity := int64(rb.storage.capacityFrames)
	endTime := startTime + int64(frameCount)

	cur := rb.bounds.current()
	switch {
	case startTime < cur.End:
		rb.bounds.set(startTime, startTime)
	case endTime-cur.Start <= capacity:
	default:
		newStart := endTime - capacity
		rb.bounds.set(newStart, max(newStart, cur.End))
	}

	cur = rb.bounds.current()
	capacityBytes := rb.storage.capacityBytes()

	var offset0 int
	if startTime > cur.End {
		offset0 = rb.storage.byteOffset(cur.End)
		offset1 := rb.storage.byteOffset(startTime)
		if offset0 < offset1 {
			rb.storage.zero(offset0, offset1-offset0)
		} else {
			rb.storage.zero(offset0, capacityBytes-offset0)
			rb.storage.zero(0, offset1)
		}
		offset0 = offset1
	} else {
		offset0 = rb.storage.byteOffset(startTime)
	}

	offset1 := rb.storage.byteOffset(endTime)
	if offset0 < offset1 {
		rb.storage.store(bl, offset0, 0, offset1-offset0)
	} else {
		n := capacityBytes - offset0
		rb.storage.store(bl, offset0, 0, n)
		rb.storage.store(bl, 0, n, offset1)
	}

	rb.bounds.set(cur.Start, endTime)

	return true
}

// Read fills bl with frameCount frames starting at sample time startTime.
// Frames outside the held range come back as silence, and every buffer's
// ByteSize is set to the size of the part that was actually held, which is
// 0 when nothing overlapped. It fails for a nil or mismatched buffer list,
// a frame count above capacity, a negative time, an end time past
// math.MaxInt64, or when the bounds could not be read.
//
// Frames the writer evicts or rewinds over while they are being copied are
// returned as silence and left out of ByteSize.
func (rb *TimestampedRingBuffer) Read(bl audio.BufferList, frameCount uint32, startTime int64) bool {
	if frameCount == 0 {
		return true
	}

	if !rb.storage.accepts(bl) || !rb.validRange(frameCount, startTime) {
		return false
	}

	bounds, ok := rb.bounds.load()
	if !ok {
		return false
	}

	bpf := rb.storage.bytesPerFrame
	requested := TimeBounds{Start: startTime, End: startTime + int64(frameCount)}
	held := clampBounds(requested, bounds)

	if held.Empty() {
		zeroList(bl, 0, int(frameCount)*bpf)
		bl.SetByteSize(0)
		return true
	}

	lead := int(held.Start-requested.Start) * bpf
	byteSize := int(held.Len()) * bpf
	if lead > 0 {
		zeroList(bl, 0, lead)
	}
	if trail := int(requested.End-held.End) * bpf; trail > 0 {
		zeroList(bl, lead+byteSize, trail)
	}

	offset0 := rb.storage.byteOffset(held.Start)
	offset1 := rb.storage.byteOffset(held.End)
	if offset0 < offset1 {
		rb.storage.fetch(bl, lead, offset0, offset1-offset0)
	} else {
		n := rb.storage.capacityBytes() - offset0
		rb.storage.fetch(bl, lead, offset0, n)
		rb.storage.fetch(bl, lead+n, 0, offset1)
	}

	after, ok := rb.bounds.load()
	if !ok {
		zeroList(bl, 0, int(frameCount)*bpf)
		bl.SetByteSize(0)
		return false
	}

	if valid := stillHeld(held, bounds, after); valid != held {
		if n := valid.Start - held.Start; n > 0 {
			zeroList(bl, lead, int(n)*bpf)
		}
		if n := held.End - valid.End; n > 0 {
			zeroList(bl, int(valid.End-requested.Start)*bpf, int(n)*bpf)
		}
		byteSize = int(valid.Len()) * bpf
	}

	bl.SetByteSize(byteSize)

	return true
}

func (rb *TimestampedRingBuffer) validRange(frameCount uint32, startTime int64) bool {
	return frameCount <= rb.storage.capacityFrames &&
		startTime >= 0 &&
		startTime <= math.MaxInt64-int64(frameCount)
}

// stillHeld returns the part of held, copied while before was published,
// that the writer has not touched since, given the bounds published after
// the copy. A rewind invalidates everything. The result is collapsed to
// held.End when nothing is left.
func stillHeld(held, before, after TimeBounds) TimeBounds {
	if after.Start < before.Start {
		return TimeBounds{Start: held.End, End: held.End}
	}

	valid := clampBounds(held, after)
	if valid.Empty() {
		return TimeBounds{Start: held.End, End: held.End}
	}

	return valid
}

// clampBounds limits the requested range to the held one. The result is
// empty when they do not overlap.
func clampBounds(requested, held TimeBounds) TimeBounds {
	if requested.Start > held.End || requested.End < held.Start {
		return TimeBounds{Start: requested.Start, End: requested.Start}
	}

	start := max(requested.Start, held.Start)
	end := max(min(requested.End, held.End), start)

	return TimeBounds{Start: start, End: end}
}
