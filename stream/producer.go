// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/audioring"
)

// Producer pulls interleaved samples from a Source and pushes them into a
// frame ring as non-interleaved float32. It is the only writer of the ring.
type Producer struct {
	src  audio.Source
	ring *audioring.RingBuffer
	opts options

	samples []float32
	carry   int // samples of a partial frame kept at the front of samples
	block   audio.BufferList
	view    audio.BufferList

	frames atomic.Uint64
	stalls atomic.Uint64
}

// NewProducer returns a producer feeding ring from src. The ring must hold
// non-interleaved float32 with as many channels as src.
func NewProducer(src audio.Source, ring *audioring.RingBuffer, opts ...Option) (*Producer, error) {
	o := newOptions(opts)

	format := ring.Format()
	if err := checkRing(format, src.Channels()); err != nil {
		return nil, err
	}
	if o.blockFrames < 1 || o.blockFrames >= int(ring.CapacityFrames()) {
		return nil, fmt.Errorf("%d frames: %w", o.blockFrames, ErrInvalidBlock)
	}

	block := audio.NewBufferList(format, o.blockFrames)

	return &Producer{
		src:     src,
		ring:    ring,
		opts:    o,
		samples: make([]float32, (o.blockFrames+1)*src.Channels()),
		block:   block,
		view:    make(audio.BufferList, len(block)),
	}, nil
}

// Frames returns the number of frames written to the ring so far.
func (p *Producer) Frames() uint64 { return p.frames.Load() }

// Stalls returns how many times the producer found the ring full.
func (p *Producer) Stalls() uint64 { return p.stalls.Load() }

// Run moves the whole source into the ring. It returns nil once the source
// reports io.EOF and every frame has been written, or the first error.
func (p *Producer) Run(ctx context.Context) error {
	channels := p.src.Channels()
	log := p.opts.logger

	log.DebugContext(ctx, "producer started",
		"channels", channels,
		"sample_rate", p.src.SampleRate(),
		"block_frames", p.opts.blockFrames)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := p.src.ReadSamples(p.samples[p.carry : p.carry+p.opts.blockFrames*channels])
		n += p.carry
		if whole := n - n%channels; whole > 0 {
			frames, derr := audio.DeinterleaveFloat32(p.block, p.samples[:whole], channels)
			if derr != nil {
				return fmt.Errorf("deinterleave: %w", derr)
			}
			if perr := p.push(ctx, frames); perr != nil {
				return perr
			}
			p.carry = copy(p.samples, p.samples[whole:n])
		} else {
			p.carry = n
		}

		if errors.Is(err, io.EOF) {
			if p.carry > 0 {
				log.DebugContext(ctx, "dropping partial frame", "samples", p.carry)
			}
			log.DebugContext(ctx, "producer finished", "frames", p.Frames(), "stalls", p.Stalls())
			return nil
		}
		if err != nil {
			return fmt.Errorf("read source: %w", err)
		}
	}
}

// push writes frames of the block, waiting for room as needed.
func (p *Producer) push(ctx context.Context, frames int) error {
	bpf := p.ring.Format().BytesPerFrame

	for done := 0; done < frames; {
		shift(p.view, p.block, done*bpf)

		n := int(p.ring.Write(p.view, uint32(frames-done), true))
		done += n
		p.frames.Add(uint64(n))

		if done == frames {
			return nil
		}

		p.stalls.Add(1)
		p.opts.logger.DebugContext(ctx, "ring full", "pending", frames-done)

		if err := idle(ctx, p.opts.idleBackoff); err != nil {
			return err
		}
	}

	return nil
}

// shift points view at the contents of bl from offset bytes on.
func shift(view, bl audio.BufferList, offset int) {
	for i := range bl {
		view[i] = audio.Buffer{
			Data:     bl[i].Data[offset:],
			ByteSize: bl[i].ByteSize - offset,
		}
	}
}

func checkRing(format audio.StreamFormat, channels int) error {
	if !format.Float || format.BitsPerChannel != 32 || format.IsInterleaved() || format.ChannelsPerFrame != channels {
		return fmt.Errorf("%s for %d channels: %w", format, channels, ErrFormatMismatch)
	}
	return nil
}

// idle waits d, or yields when d is not positive.
func idle(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		runtime.Gosched()
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
