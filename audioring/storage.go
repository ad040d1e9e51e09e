// SPDX-License-Identifier: EPL-2.0

package audioring

import (
	"math"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/internal/pow2"
)

// channelStorage is the deinterleaved backing store shared by both ring
// buffer types: one zeroed arena, sliced into one region per channel.
type channelStorage struct {
	arena    []byte
	channels [][]byte

	format         audio.StreamFormat
	bytesPerFrame  int
	capacityFrames uint32
	mask           uint32
}

// allocate sets up storage for capacityFrames frames of format, rounded up
// to a power of two. It reports false for interleaved or invalid formats,
// out of range capacities and sizes the platform cannot address.
func (s *channelStorage) allocate(format audio.StreamFormat, capacityFrames uint32) bool {
	if format.IsInterleaved() || format.Validate() != nil || !pow2.Valid(capacityFrames) {
		return false
	}

	capacityFrames = pow2.Next(capacityFrames)

	streams := uint64(format.ChannelStreamCount())
	regionBytes := uint64(capacityFrames) * uint64(format.BytesPerFrame)
	if regionBytes > uint64(math.MaxInt)/streams {
		return false
	}

	s.release()

	region := int(regionBytes)
	s.arena = make([]byte, region*int(streams))
	s.channels = make([][]byte, streams)
	for i := range s.channels {
		s.channels[i] = s.arena[i*region : (i+1)*region : (i+1)*region]
	}

	s.format = format
	s.bytesPerFrame = format.BytesPerFrame
	s.capacityFrames = capacityFrames
	s.mask = capacityFrames - 1

	return true
}

func (s *channelStorage) release() {
	*s = channelStorage{}
}

func (s *channelStorage) allocated() bool { return s.arena != nil }

// accepts reports whether bl has one buffer per channel stream.
func (s *channelStorage) accepts(bl audio.BufferList) bool {
	return bl != nil && s.allocated() && len(bl) == len(s.channels)
}

func (s *channelStorage) capacityBytes() int {
	return int(s.capacityFrames) * s.bytesPerFrame
}

// byteOffset maps an absolute frame position onto a region byte offset.
func (s *channelStorage) byteOffset(frame int64) int {
	return int(uint32(frame)&s.mask) * s.bytesPerFrame
}

// fetch copies byteCount bytes per channel from the regions at srcOffset
// into bl at dstOffset, clamped to each destination's capacity.
func (s *channelStorage) fetch(bl audio.BufferList, dstOffset, srcOffset, byteCount int) {
	for i, region := range s.channels {
		dst := bl[i].Data
		if dstOffset >= len(dst) {
			continue
		}
		n := min(byteCount, len(dst)-dstOffset)
		copy(dst[dstOffset:dstOffset+n], region[srcOffset:srcOffset+n])
	}
}

// store copies byteCount bytes per channel from bl at srcOffset into the
// regions at dstOffset, clamped to each source's valid size.
func (s *channelStorage) store(bl audio.BufferList, dstOffset, srcOffset, byteCount int) {
	for i, region := range s.channels {
		src := bl[i].Bytes()
		if srcOffset >= len(src) {
			continue
		}
		n := min(byteCount, len(src)-srcOffset)
		copy(region[dstOffset:dstOffset+n], src[srcOffset:srcOffset+n])
	}
}

// zero clears byteCount bytes at offset in every region.
func (s *channelStorage) zero(offset, byteCount int) {
	for _, region := range s.channels {
		clear(region[offset : offset+byteCount])
	}
}

// zeroList clears byteCount bytes at offset in every buffer of bl, clamped
// to each buffer's capacity.
func zeroList(bl audio.BufferList, offset, byteCount int) {
	for i := range bl {
		dst := bl[i].Data
		if offset >= len(dst) {
			continue
		}
		clear(dst[offset : offset+min(byteCount, len(dst)-offset)])
	}
}
