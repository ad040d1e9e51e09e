// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/audioring"
	"github.com/ik5/audring/internal/audiotest"
)

func rampSamples(channels, start, frames int) []float32 {
	s := make([]float32, frames*channels)
	for f := range frames {
		for ch := range channels {
			s[f*channels+ch] = audiotest.Ramp(start+f, ch)
		}
	}
	return s
}

func newRecorder(t *testing.T, channels int, capacity uint32, opts ...Option) *Recorder {
	t.Helper()

	r, err := NewRecorder(audio.NewFloat32Format(48000, channels, false), capacity, opts...)
	if err != nil {
		t.Fatalf("NewRecorder() error = %v", err)
	}
	return r
}

func TestRecorder_RecordAndSnapshot(t *testing.T) {
	t.Parallel()

	r := newRecorder(t, 2, 16, WithBlockFrames(5))

	n, err := r.Record(rampSamples(2, 0, 20))
	if err != nil || n != 20 {
		t.Fatalf("Record() = %d, %v", n, err)
	}
	if r.Now() != 20 {
		t.Errorf("Now() = %d, want 20", r.Now())
	}

	b, ok := r.Bounds()
	if !ok || b != (audioring.TimeBounds{Start: 4, End: 20}) {
		t.Fatalf("Bounds() = %+v, %v, want [4, 20)", b, ok)
	}

	dst := make([]float32, 8*2)
	held, err := r.Snapshot(dst, 8)
	if err != nil || held != 8 {
		t.Fatalf("Snapshot(8) = %d, %v", held, err)
	}
	checkRamp(t, dst, 2, 8, 8)

	held, err = r.Snapshot(dst, 0)
	if err != nil || held != 4 {
		t.Fatalf("Snapshot(0) = %d, %v", held, err)
	}
	for i := range 4 * 2 {
		if dst[i] != 0 {
			t.Fatalf("sample %d = %v, want silence", i, dst[i])
		}
	}
	checkRamp(t, dst[4*2:], 2, 4, 4)
}

func TestRecorder_SeekLeavesSilentGap(t *testing.T) {
	t.Parallel()

	r := newRecorder(t, 1, 32)

	r.Record(rampSamples(1, 0, 4))
	r.Seek(8)
	r.Record(rampSamples(1, 8, 4))

	dst := make([]float32, 12)
	held, err := r.Snapshot(dst, 0)
	if err != nil || held != 12 {
		t.Fatalf("Snapshot() = %d, %v", held, err)
	}
	checkRamp(t, dst[:4], 1, 0, 4)
	for i := 4; i < 8; i++ {
		if dst[i] != 0 {
			t.Fatalf("gap sample %d = %v, want silence", i, dst[i])
		}
	}
	checkRamp(t, dst[8:], 1, 8, 4)
}

func TestRecorder_SeekBackDropsHistory(t *testing.T) {
	t.Parallel()

	r := newRecorder(t, 1, 32)
	r.Record(rampSamples(1, 0, 10))

	r.Seek(5)
	r.Record(rampSamples(1, 5, 2))

	b, _ := r.Bounds()
	if b != (audioring.TimeBounds{Start: 5, End: 7}) {
		t.Errorf("Bounds() = %+v, want [5, 7)", b)
	}
}

func TestRecorder_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewRecorder(audio.NewPCM16Format(48000, 2, false), 16); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("pcm16: error = %v, want ErrFormatMismatch", err)
	}
	if _, err := NewRecorder(audio.NewFloat32Format(48000, 2, false), 1); !errors.Is(err, audioring.ErrInvalidCapacity) {
		t.Errorf("capacity 1: error = %v, want ErrInvalidCapacity", err)
	}

	r := newRecorder(t, 2, 8)

	if _, err := r.Snapshot(make([]float32, 9*2), 0); !errors.Is(err, ErrSnapshotTooLarge) {
		t.Errorf("9 frames: error = %v, want ErrSnapshotTooLarge", err)
	}
	if _, err := r.Snapshot(make([]float32, 2), -1); !errors.Is(err, ErrNegativeTime) {
		t.Errorf("negative: error = %v, want ErrNegativeTime", err)
	}

	src := audiotest.NewRampSource(48000, 1, 10)
	if err := r.RecordFrom(context.Background(), src); !errors.Is(err, audio.ErrChannelMismatch) {
		t.Errorf("RecordFrom(mono) error = %v, want ErrChannelMismatch", err)
	}
}

func TestRecorder_RecordFrom(t *testing.T) {
	t.Parallel()

	r := newRecorder(t, 2, 1024, WithBlockFrames(100))

	src := audiotest.NewRampSource(48000, 2, 3000)
	src.MaxFrames = 77
	if err := r.RecordFrom(context.Background(), src); err != nil {
		t.Fatalf("RecordFrom() error = %v", err)
	}
	if r.Now() != 3000 {
		t.Fatalf("Now() = %d, want 3000", r.Now())
	}

	dst := make([]float32, 1024*2)
	held, err := r.Snapshot(dst, 3000-1024)
	if err != nil || held != 1024 {
		t.Fatalf("Snapshot() = %d, %v", held, err)
	}
	checkRamp(t, dst, 2, 3000-1024, 1024)
}

func TestRecorder_RecordFromPartialFrameReads(t *testing.T) {
	t.Parallel()

	r := newRecorder(t, 3, 512, WithBlockFrames(10))

	src := &audiotest.ShortReads{MockSource: audiotest.NewRampSource(48000, 3, 500), Max: 7}
	if err := r.RecordFrom(context.Background(), src); err != nil {
		t.Fatalf("RecordFrom() error = %v", err)
	}
	if r.Now() != 500 {
		t.Fatalf("Now() = %d, want 500", r.Now())
	}

	dst := make([]float32, 500*3)
	if held, err := r.Snapshot(dst, 0); err != nil || held != 500 {
		t.Fatalf("Snapshot() = %d, %v", held, err)
	}
	checkRamp(t, dst, 3, 0, 500)
}
