// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audring/internal/audiotest"
)

// readAll drains src in chunks of size samples.
func readAll(t *testing.T, src Source, size int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, size)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
}

func TestNewResampler_InvalidRate(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(44100, 2, 100)
	for _, rate := range []int{0, -8000} {
		if _, err := NewResampler(src, rate); !errors.Is(err, ErrInvalidSampleRate) {
			t.Errorf("NewResampler(%d) error = %v, want ErrInvalidSampleRate", rate, err)
		}
	}
}

func TestResampler_SameRatePassesThrough(t *testing.T) {
	t.Parallel()

	for _, size := range []int{2, 6, 1000} {
		src := audiotest.NewRampSource(8000, 2, 300)
		r, err := NewResampler(src, 8000)
		if err != nil {
			t.Fatal(err)
		}

		got := readAll(t, r, size)
		if len(got) != 600 {
			t.Fatalf("chunk %d: got %d samples, want 600", size, len(got))
		}
		for i, v := range got {
			if want := audiotest.Ramp(i/2, i%2); v != want {
				t.Fatalf("chunk %d: sample %d = %v, want %v", size, i, v, want)
			}
		}
	}
}

func TestResampler_UpsampleLine(t *testing.T) {
	t.Parallel()

	line := func(frame, _ int) float32 { return float32(frame) / 1000 }
	src := audiotest.NewMockSource(8000, 1, 100, line)
	r, err := NewResampler(src, 16000)
	if err != nil {
		t.Fatal(err)
	}
	if r.SampleRate() != 16000 || r.Channels() != 1 {
		t.Fatalf("resampler = %d Hz, %d ch", r.SampleRate(), r.Channels())
	}

	got := readAll(t, r, 64)
	if len(got) != 199 {
		t.Fatalf("got %d samples, want 199", len(got))
	}

	// Away from the padded ends a straight line is reproduced exactly.
	for i := 2; i < len(got)-4; i++ {
		if want := float32(i) / 2000; math.Abs(float64(got[i]-want)) > 1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestResampler_Downsample(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineSource(48000, 2, 48000, 440)
	r, err := NewResampler(src, 8000)
	if err != nil {
		t.Fatal(err)
	}

	got := readAll(t, r, 4096)
	frames := len(got) / 2
	if frames < 7999 || frames > 8000 {
		t.Fatalf("got %d frames, want about 8000", frames)
	}
	for i, v := range got {
		if v < -1.01 || v > 1.01 {
			t.Fatalf("sample %d = %v out of range", i, v)
		}
	}
}

func TestResampler_Errors(t *testing.T) {
	t.Parallel()

	r, _ := NewResampler(audiotest.NewSilentSource(8000, 2, 10), 16000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("odd dst: error = %v, want ErrInvalidDstSize", err)
	}

	empty, _ := NewResampler(audiotest.NewSilentSource(8000, 1, 0), 16000)
	if n, err := empty.ReadSamples(make([]float32, 8)); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("empty source: ReadSamples() = %d, %v, want 0, EOF", n, err)
	}

	errBroken := errors.New("broken")
	src := audiotest.NewSilentSource(8000, 1, 1000)
	src.Err = errBroken
	src.FailAfter = 10
	broken, _ := NewResampler(src, 4000)

	buf := make([]float32, 64)
	var err error
	for range 10 {
		if _, err = broken.ReadSamples(buf); err != nil {
			break
		}
	}
	if !errors.Is(err, errBroken) {
		t.Errorf("ReadSamples() error = %v, want %v", err, errBroken)
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 10)
	r, _ := NewResampler(src, 16000)
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}
	if !src.Closed() {
		t.Error("source not closed")
	}
}

func TestMonoMixer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
	}{
		{"mono", 1},
		{"stereo", 2},
		{"5.1", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewRampSource(8000, tt.channels, 500)
			src.MaxFrames = 77
			m := NewMonoMixer(src)
			if m.Channels() != 1 || m.SampleRate() != 8000 {
				t.Fatalf("mixer = %d Hz, %d ch", m.SampleRate(), m.Channels())
			}

			got := readAll(t, m, 100)
			if len(got) != 500 {
				t.Fatalf("got %d frames, want 500", len(got))
			}

			for f, v := range got {
				var want float32
				for ch := range tt.channels {
					want += audiotest.Ramp(f, ch)
				}
				want /= float32(tt.channels)
				if math.Abs(float64(v-want)) > 1e-6 {
					t.Fatalf("frame %d = %v, want %v", f, v, want)
				}
			}
		})
	}
}

func TestMonoMixer_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 2, 10)
	if err := NewMonoMixer(src).Close(); err != nil {
		t.Fatal(err)
	}
	if !src.Closed() {
		t.Error("source not closed")
	}
}
