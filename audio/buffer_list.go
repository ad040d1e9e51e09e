// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audring/utils"
)

// Buffer is one channel stream of a BufferList.
// len(Data) is the byte capacity; ByteSize is how many bytes are valid.
type Buffer struct {
	Data     []byte
	ByteSize int
}

// Bytes returns the valid part of the buffer.
func (b Buffer) Bytes() []byte {
	return b.Data[:min(max(b.ByteSize, 0), len(b.Data))]
}

// BufferList holds audio as one Buffer per channel stream. Ring buffers read
// the ByteSize of each buffer on write and set it on read.
type BufferList []Buffer

// NewBufferList allocates room for frames frames of format in a single
// backing array, one Buffer per channel stream, each reporting full size.
func NewBufferList(format StreamFormat, frames int) BufferList {
	streams := format.ChannelStreamCount()
	size := format.ByteCount(frames)

	arena := make([]byte, size*streams)
	bl := make(BufferList, streams)
	for i := range bl {
		bl[i] = Buffer{
			Data:     arena[i*size : (i+1)*size : (i+1)*size],
			ByteSize: size,
		}
	}

	return bl
}

// FrameCapacity is the number of frames every buffer can hold.
func (bl BufferList) FrameCapacity(format StreamFormat) int {
	if len(bl) == 0 {
		return 0
	}

	n := len(bl[0].Data)
	for _, b := range bl[1:] {
		n = min(n, len(b.Data))
	}

	return format.FrameCount(n)
}

// Frames is the number of valid frames common to every buffer.
func (bl BufferList) Frames(format StreamFormat) int {
	if len(bl) == 0 {
		return 0
	}

	n := len(bl[0].Bytes())
	for _, b := range bl[1:] {
		n = min(n, len(b.Bytes()))
	}

	return format.FrameCount(n)
}

// SetByteSize sets the reported size of every buffer.
func (bl BufferList) SetByteSize(n int) {
	for i := range bl {
		bl[i].ByteSize = n
	}
}

// Reset marks every buffer as full to its capacity.
func (bl BufferList) Reset() {
	for i := range bl {
		bl[i].ByteSize = len(bl[i].Data)
	}
}

// Zero clears the contents of every buffer.
func (bl BufferList) Zero() {
	for i := range bl {
		clear(bl[i].Data)
	}
}

// DeinterleaveFloat32 splits interleaved float32 samples into the
// non-interleaved float32 buffers of dst and sets their ByteSize.
// It returns the number of frames stored, limited by dst's capacity.
func DeinterleaveFloat32(dst BufferList, src []float32, channels int) (int, error) {
	if channels <= 0 || len(src)%channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) != channels {
		return 0, fmt.Errorf("%d buffers for %d channels: %w", len(dst), channels, ErrChannelMismatch)
	}

	frames := len(src) / channels
	for _, b := range dst {
		frames = min(frames, len(b.Data)/4)
	}

	for ch := range dst {
		data := dst[ch].Data
		for f := range frames {
			utils.PutFloat32(data[f*4:], src[f*channels+ch])
		}
		dst[ch].ByteSize = frames * 4
	}

	return frames, nil
}

// InterleaveFloat32 merges the valid frames of the non-interleaved float32
// buffers in src into dst. It returns the number of samples written.
func InterleaveFloat32(dst []float32, src BufferList) (int, error) {
	channels := len(src)
	if channels == 0 {
		return 0, ErrChannelMismatch
	}

	frames := len(dst) / channels
	for _, b := range src {
		frames = min(frames, len(b.Bytes())/4)
	}

	for ch, b := range src {
		for f := range frames {
			dst[f*channels+ch] = utils.Float32(b.Data[f*4:])
		}
	}

	return frames * channels, nil
}

// IntBuffer converts the valid frames of bl, laid out as format, into an
// interleaved go-audio IntBuffer at bitDepth. buf is reused when it has room.
// Only non-interleaved float32 and 16-bit integer layouts are accepted.
func (bl BufferList) IntBuffer(format StreamFormat, bitDepth int, buf *goaudio.IntBuffer) (*goaudio.IntBuffer, error) {
	if format.IsInterleaved() {
		return nil, ErrInterleavedFormat
	}
	if len(bl) != format.ChannelsPerFrame {
		return nil, ErrChannelMismatch
	}

	var sample func(b []byte) int
	switch {
	case format.Float && format.BitsPerChannel == 32:
		sample = func(b []byte) int { return utils.Float32ToInt(utils.Float32(b), bitDepth) }
	case !format.Float && format.BitsPerChannel == 16:
		shift := bitDepth - 16
		sample = func(b []byte) int {
			v := int(utils.Int16(b))
			if shift >= 0 {
				return v << shift
			}
			return v >> -shift
		}
	default:
		return nil, fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}

	channels := format.ChannelsPerFrame
	frames := bl.Frames(format)
	size := frames * channels

	if buf == nil {
		buf = &goaudio.IntBuffer{}
	}
	if cap(buf.Data) < size {
		buf.Data = make([]int, size)
	}
	buf.Data = buf.Data[:size]
	buf.Format = format.GoAudioFormat()
	buf.SourceBitDepth = bitDepth

	bpf := format.BytesPerFrame
	for ch, b := range bl {
		for f := range frames {
			buf.Data[f*channels+ch] = sample(b.Data[f*bpf:])
		}
	}

	return buf, nil
}
