// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic audio sources for tests.
// It satisfies audio.Source without importing the audio package, so the
// audio package's own tests can use it.
package audiotest

import (
	"io"
	"math"
)

// Waveform returns the sample for a frame index and channel.
type Waveform func(frame, channel int) float32

// MockSource generates totalFrames frames of a waveform.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    Waveform

	// MaxFrames caps the frames returned per ReadSamples call when > 0,
	// mimicking decoders that return short reads.
	MaxFrames int
	// Err, when set, is returned once FailAfter frames have been produced.
	Err       error
	FailAfter int

	closed bool
}

// NewMockSource creates a source producing totalFrames frames of waveform.
func NewMockSource(sampleRate, channels, totalFrames int, waveform Waveform) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentSource creates a mock source that generates silence (all zeros).
func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 { return 0 })
}

// NewSineSource creates a mock source that generates a sine wave.
func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewRampSource creates a source whose every sample is distinct and exactly
// representable in float32, so transfers can be checked bit for bit.
func NewRampSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, Ramp)
}

// Ramp is the waveform used by NewRampSource.
func Ramp(frame, channel int) float32 {
	return float32(frame%4096)/4096 - float32(channel)/8
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Generated returns the number of frames produced so far.
func (m *MockSource) Generated() int { return m.generated }

// Reset rewinds the source to its first frame.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.Err != nil && m.generated >= m.FailAfter {
		return 0, m.Err
	}
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	if m.MaxFrames > 0 {
		frames = min(frames, m.MaxFrames)
	}
	if m.Err != nil {
		frames = min(frames, m.FailAfter-m.generated)
	}

	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}

	m.generated += frames
	n := frames * m.channels

	if m.generated >= m.totalFrames {
		return n, io.EOF
	}

	return n, nil
}

// ShortReads wraps a source so every read returns at most Max samples. When
// Max is not a multiple of the channel count, reads end in the middle of a
// frame.
type ShortReads struct {
	*MockSource
	Max int

	pending []float32
	err     error
}

func (s *ShortReads) ReadSamples(dst []float32) (int, error) {
	if len(s.pending) == 0 && s.err == nil {
		buf := make([]float32, 64*s.channels)
		n, err := s.MockSource.ReadSamples(buf)
		s.pending, s.err = buf[:n], err
	}

	n := copy(dst[:min(len(dst), s.Max)], s.pending)
	s.pending = s.pending[n:]
	if len(s.pending) == 0 {
		return n, s.err
	}

	return n, nil
}
