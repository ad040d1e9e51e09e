// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/audioring"
)

// Recorder keeps the most recent audio of a stream addressable by sample
// time. One goroutine records while another takes snapshots; frames evicted
// while a snapshot copies them come back silent.
type Recorder struct {
	ring     *audioring.TimestampedRingBuffer
	channels int
	opts     options

	// writer side
	block audio.BufferList
	next  int64

	// reader side
	snapshot audio.BufferList
}

// NewRecorder returns a recorder holding at least capacity frames of
// non-interleaved float32 audio in format.
func NewRecorder(format audio.StreamFormat, capacity uint32, opts ...Option) (*Recorder, error) {
	o := newOptions(opts)

	if err := checkRing(format, format.ChannelsPerFrame); err != nil {
		return nil, err
	}

	ring, err := audioring.NewTimestamped(format, capacity)
	if err != nil {
		return nil, fmt.Errorf("ring: %w", err)
	}

	if o.blockFrames < 1 {
		return nil, fmt.Errorf("%d frames: %w", o.blockFrames, ErrInvalidBlock)
	}
	block := min(o.blockFrames, int(ring.CapacityFrames()))

	return &Recorder{
		ring:     ring,
		channels: format.ChannelsPerFrame,
		opts:     o,
		block:    audio.NewBufferList(format, block),
		snapshot: audio.NewBufferList(format, int(ring.CapacityFrames())),
	}, nil
}

// Ring returns the underlying timestamped ring.
func (r *Recorder) Ring() *audioring.TimestampedRingBuffer { return r.ring }

// Now returns the sample time the next recorded frame will get.
func (r *Recorder) Now() int64 { return r.next }

// Seek moves the recording position to t. Recording earlier than what is
// held drops everything held; recording later leaves a silent gap.
func (r *Recorder) Seek(t int64) { r.next = max(t, 0) }

// Bounds returns the range of time currently held.
func (r *Recorder) Bounds() (audioring.TimeBounds, bool) { return r.ring.TimeBounds() }

// Record appends interleaved samples at the current position and returns the
// number of frames recorded. A trailing partial frame is ignored.
func (r *Recorder) Record(samples []float32) (int, error) {
	total := 0
	perBlock := r.block.FrameCapacity(r.ring.Format()) * r.channels

	for len(samples) >= r.channels {
		chunk := samples[:min(len(samples), perBlock)]
		frames, err := audio.DeinterleaveFloat32(r.block, chunk[:len(chunk)-len(chunk)%r.channels], r.channels)
		if err != nil {
			return total, fmt.Errorf("deinterleave: %w", err)
		}

		if !r.ring.Write(r.block, uint32(frames), r.next) {
			return total, fmt.Errorf("write %d frames at %d: %w", frames, r.next, ErrFormatMismatch)
		}

		r.next += int64(frames)
		total += frames
		samples = samples[frames*r.channels:]
	}

	return total, nil
}

// RecordFrom records src until it reports io.EOF or the context ends.
func (r *Recorder) RecordFrom(ctx context.Context, src audio.Source) error {
	if src.Channels() != r.channels {
		return fmt.Errorf("%d channels into %d: %w", src.Channels(), r.channels, audio.ErrChannelMismatch)
	}

	perRead := r.block.FrameCapacity(r.ring.Format()) * r.channels
	buf := make([]float32, perRead+r.channels)
	carry := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := src.ReadSamples(buf[carry : carry+perRead])
		n += carry
		whole := n - n%r.channels
		if whole > 0 {
			if _, rerr := r.Record(buf[:whole]); rerr != nil {
				return rerr
			}
		}
		carry = copy(buf, buf[whole:n])

		if errors.Is(err, io.EOF) {
			if carry > 0 {
				r.opts.logger.DebugContext(ctx, "dropping partial frame", "samples", carry)
			}
			r.opts.logger.DebugContext(ctx, "recording finished", "end", r.next)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
	}
}

// Snapshot fills dst with the interleaved frames starting at sample time
// start. Frames the recorder does not hold are silent. It returns how many
// frames were actually held.
func (r *Recorder) Snapshot(dst []float32, start int64) (int, error) {
	frames := len(dst) / r.channels
	if frames > int(r.ring.CapacityFrames()) {
		return 0, fmt.Errorf("%d frames: %w", frames, ErrSnapshotTooLarge)
	}
	if start < 0 {
		return 0, fmt.Errorf("%d: %w", start, ErrNegativeTime)
	}
	if frames == 0 {
		return 0, nil
	}

	if !r.ring.Read(r.snapshot, uint32(frames), start) {
		return 0, ErrBoundsUnavailable
	}

	format := r.ring.Format()
	held := format.FrameCount(r.snapshot[0].ByteSize)

	r.snapshot.SetByteSize(format.ByteCount(frames))
	if _, err := audio.InterleaveFloat32(dst, r.snapshot); err != nil {
		return 0, err
	}

	return held, nil
}
