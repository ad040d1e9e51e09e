// SPDX-License-Identifier: EPL-2.0

// Package intpcm adapts the integer PCM decoders of go-audio (WAV, AIFF) to
// audio.Source.
package intpcm

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audring/utils"
)

var (
	ErrInvalidFormat       = errors.New("decoder reported no usable format")
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
)

// Reader is the part of a go-audio decoder a Source reads from.
type Reader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Source converts the integer samples of a Reader to float32 in [-1, 1).
type Source struct {
	dec        Reader
	sampleRate int
	channels   int
	bitDepth   int
	// unsigned8 marks 8-bit data stored as unsigned with a 128 offset.
	unsigned8 bool

	buf *goaudio.IntBuffer
}

// Option tweaks how samples are interpreted.
type Option func(*Source)

// Unsigned8 treats 8-bit samples as unsigned, the way WAV stores them.
func Unsigned8() Option {
	return func(s *Source) { s.unsigned8 = true }
}

// New returns a Source reading dec, whose samples are bitDepth bits wide.
func New(dec Reader, bitDepth int, opts ...Option) (*Source, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedBitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 || format.SampleRate <= 0 {
		return nil, ErrInvalidFormat
	}

	s := &Source{
		dec:        dec,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   bitDepth,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Source) SampleRate() int { return s.sampleRate }
func (s *Source) Channels() int   { return s.channels }
func (s *Source) BitDepth() int   { return s.bitDepth }
func (s *Source) Close() error    { return nil }

func (s *Source) BufSize() int {
	if s.buf != nil {
		return cap(s.buf.Data)
	}
	return 4096
}

func (s *Source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	if s.buf == nil || cap(s.buf.Data) < want {
		s.buf = &goaudio.IntBuffer{
			Data:           make([]int, want),
			Format:         s.dec.Format(),
			SourceBitDepth: s.bitDepth,
		}
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	if n == 0 {
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("decode pcm: %w", err)
		}
		return 0, io.EOF
	}

	for i, v := range s.buf.Data[:n] {
		if s.unsigned8 && s.bitDepth == 8 {
			v -= 128
		}
		dst[i] = utils.IntToFloat32(v, s.bitDepth)
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("decode pcm: %w", err)
	}
	if n < want || errors.Is(err, io.EOF) {
		return n, io.EOF
	}

	return n, nil
}

// ReadSeeker returns r as an io.ReadSeeker, reading it into memory when it
// cannot seek.
func ReadSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("buffer input: %w", err)
	}

	return bytes.NewReader(data), nil
}
