// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audring/audio"
)

// Writer encodes non-interleaved float32 blocks, as read from an audio ring,
// into an integer PCM WAV file. It implements stream.Sink.
type Writer struct {
	enc      *wav.Encoder
	format   audio.StreamFormat
	bitDepth int

	buf    *goaudio.IntBuffer
	frames int
}

// NewWriter starts a WAV file on w. bitDepth must be 16, 24 or 32. The file
// is incomplete until Close is called.
func NewWriter(w io.WriteSeeker, sampleRate, channels, bitDepth int) (*Writer, error) {
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	switch bitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedBitDepth)
	}

	return &Writer{
		enc:      wav.NewEncoder(w, sampleRate, bitDepth, channels, pcmFormat),
		format:   audio.NewFloat32Format(float64(sampleRate), channels, false),
		bitDepth: bitDepth,
	}, nil
}

// WriteFrames encodes the first frames frames of bl.
func (w *Writer) WriteFrames(bl audio.BufferList, frames int) error {
	buf, err := bl.IntBuffer(w.format, w.bitDepth, w.buf)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	w.buf = buf

	n := min(len(buf.Data), frames*w.format.ChannelsPerFrame)
	buf.Data = buf.Data[:n]

	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	w.frames += n / w.format.ChannelsPerFrame

	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finishes the headers. It does not close the underlying writer.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalize: %w", err)
	}
	return nil
}
