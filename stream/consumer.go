// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/audioring"
)

// Sink receives blocks of non-interleaved frames read from a ring. The buffer
// list is only valid during the call.
type Sink interface {
	WriteFrames(bl audio.BufferList, frames int) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(bl audio.BufferList, frames int) error

// WriteFrames calls f(bl, frames).
func (f SinkFunc) WriteFrames(bl audio.BufferList, frames int) error { return f(bl, frames) }

// Consumer drains a frame ring into a Sink. It is the only reader of the ring.
type Consumer struct {
	ring  *audioring.RingBuffer
	sink  Sink
	opts  options
	block audio.BufferList

	frames atomic.Uint64
}

// NewConsumer returns a consumer draining ring into sink in blocks of the
// configured size.
func NewConsumer(ring *audioring.RingBuffer, sink Sink, opts ...Option) (*Consumer, error) {
	o := newOptions(opts)
	if o.blockFrames < 1 {
		return nil, fmt.Errorf("%d frames: %w", o.blockFrames, ErrInvalidBlock)
	}

	return &Consumer{
		ring:  ring,
		sink:  sink,
		opts:  o,
		block: audio.NewBufferList(ring.Format(), o.blockFrames),
	}, nil
}

// Frames returns the number of frames handed to the sink so far.
func (c *Consumer) Frames() uint64 { return c.frames.Load() }

// Run reads blocks until done is closed and the ring is empty, the context
// ends or the sink fails. With a nil done it runs until the context ends.
func (c *Consumer) Run(ctx context.Context, done <-chan struct{}) error {
	log := c.opts.logger
	log.DebugContext(ctx, "consumer started", "block_frames", c.opts.blockFrames)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := c.ring.Read(c.block, uint32(c.opts.blockFrames), true)
		if n > 0 {
			if err := c.sink.WriteFrames(c.block, int(n)); err != nil {
				return fmt.Errorf("sink: %w", err)
			}
			c.frames.Add(uint64(n))
			continue
		}

		select {
		case <-done:
			if c.ring.IsEmpty() {
				log.DebugContext(ctx, "consumer finished", "frames", c.Frames())
				return nil
			}
			continue
		default:
		}

		if err := idle(ctx, c.opts.idleBackoff); err != nil {
			return err
		}
	}
}
