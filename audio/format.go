// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	goaudio "github.com/go-audio/audio"
)

// StreamFormat describes linear PCM audio the way the ring buffers see it.
//
// For non-interleaved formats BytesPerFrame is the size of one frame of a
// single channel, since every channel lives in its own buffer. For
// interleaved formats it covers all channels.
type StreamFormat struct {
	SampleRate       float64
	ChannelsPerFrame int
	BitsPerChannel   int
	BytesPerFrame    int
	Float            bool
	NonInterleaved   bool
}

// NewPCMFormat returns a signed integer PCM format with the given bit depth.
func NewPCMFormat(sampleRate float64, channels, bits int, interleaved bool) StreamFormat {
	f := StreamFormat{
		SampleRate:       sampleRate,
		ChannelsPerFrame: channels,
		BitsPerChannel:   bits,
		BytesPerFrame:    (bits + 7) / 8,
		NonInterleaved:   !interleaved,
	}
	if interleaved {
		f.BytesPerFrame *= channels
	}
	return f
}

// NewPCM16Format returns a 16-bit signed integer PCM format.
func NewPCM16Format(sampleRate float64, channels int, interleaved bool) StreamFormat {
	return NewPCMFormat(sampleRate, channels, 16, interleaved)
}

// NewFloat32Format returns a 32-bit float PCM format.
func NewFloat32Format(sampleRate float64, channels int, interleaved bool) StreamFormat {
	f := NewPCMFormat(sampleRate, channels, 32, interleaved)
	f.Float = true
	return f
}

// FormatFromGoAudio converts a go-audio format and bit depth into a
// StreamFormat. A bit depth of 32 is taken as float samples.
func FormatFromGoAudio(f *goaudio.Format, bitDepth int, interleaved bool) (StreamFormat, error) {
	if f == nil || f.NumChannels <= 0 || f.SampleRate <= 0 {
		return StreamFormat{}, ErrInvalidFormat
	}

	switch bitDepth {
	case 8, 16, 24:
		return NewPCMFormat(float64(f.SampleRate), f.NumChannels, bitDepth, interleaved), nil
	case 32:
		return NewFloat32Format(float64(f.SampleRate), f.NumChannels, interleaved), nil
	}

	return StreamFormat{}, fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedFormat)
}

// GoAudioFormat returns the go-audio view of f.
func (f StreamFormat) GoAudioFormat() *goaudio.Format {
	return &goaudio.Format{
		NumChannels: f.ChannelsPerFrame,
		SampleRate:  int(f.SampleRate),
	}
}

func (f StreamFormat) IsInterleaved() bool { return !f.NonInterleaved }

// ChannelStreamCount is the number of separate buffers the format uses.
func (f StreamFormat) ChannelStreamCount() int {
	if f.NonInterleaved {
		return f.ChannelsPerFrame
	}
	return 1
}

// InterleavedChannelCount is the number of channels sharing one buffer.
func (f StreamFormat) InterleavedChannelCount() int {
	if f.NonInterleaved {
		return 1
	}
	return f.ChannelsPerFrame
}

// ByteCount converts a frame count to bytes per channel stream.
func (f StreamFormat) ByteCount(frames int) int { return frames * f.BytesPerFrame }

// FrameCount converts a per-stream byte count to whole frames.
func (f StreamFormat) FrameCount(bytes int) int {
	if f.BytesPerFrame == 0 {
		return 0
	}
	return bytes / f.BytesPerFrame
}

// Validate checks that the format describes usable linear PCM.
func (f StreamFormat) Validate() error {
	if f.ChannelsPerFrame <= 0 || f.BitsPerChannel <= 0 || f.BytesPerFrame <= 0 {
		return ErrInvalidFormat
	}

	want := (f.BitsPerChannel + 7) / 8 * f.InterleavedChannelCount()
	if f.BytesPerFrame != want {
		return fmt.Errorf("%d bytes per frame, want %d: %w", f.BytesPerFrame, want, ErrInvalidFormat)
	}

	if f.Float && f.BitsPerChannel != 32 && f.BitsPerChannel != 64 {
		return fmt.Errorf("%d-bit float: %w", f.BitsPerChannel, ErrUnsupportedFormat)
	}

	return nil
}

func (f StreamFormat) String() string {
	kind := "Int"
	if f.Float {
		kind = "Float"
	}
	layout := "interleaved"
	if f.NonInterleaved {
		layout = "non-interleaved"
	}
	return fmt.Sprintf("%d ch, %g Hz, %s%d, %s", f.ChannelsPerFrame, f.SampleRate, kind, f.BitsPerChannel, layout)
}
