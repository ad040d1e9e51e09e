// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/audioring"
)

// Stats summarizes a finished pipeline.
type Stats struct {
	FramesWritten uint64
	FramesRead    uint64
	Stalls        uint64
}

// Run decodes src into sink through a frame ring, with the producer and the
// consumer on their own goroutines. It returns once both have stopped. The
// error is the first failure of either side, or the context error.
func Run(ctx context.Context, src audio.Source, sink Sink, opts ...Option) (Stats, error) {
	o := newOptions(opts)

	format := audio.NewFloat32Format(float64(src.SampleRate()), src.Channels(), false)
	ring, err := audioring.New(format, o.capacity)
	if err != nil {
		return Stats{}, fmt.Errorf("ring: %w", err)
	}

	producer, err := NewProducer(src, ring, opts...)
	if err != nil {
		return Stats{}, err
	}
	consumer, err := NewConsumer(ring, sink, opts...)
	if err != nil {
		return Stats{}, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg           sync.WaitGroup
		produceErr   error
		consumeErr   error
		producerDone = make(chan struct{})
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(producerDone)

		if produceErr = producer.Run(ctx); produceErr != nil {
			cancel()
		}
	}()
	go func() {
		defer wg.Done()

		if consumeErr = consumer.Run(ctx, producerDone); consumeErr != nil {
			cancel()
		}
	}()
	wg.Wait()

	stats := Stats{
		FramesWritten: producer.Frames(),
		FramesRead:    consumer.Frames(),
		Stalls:        producer.Stalls(),
	}

	o.logger.DebugContext(ctx, "pipeline finished",
		"written", stats.FramesWritten,
		"read", stats.FramesRead,
		"stalls", stats.Stalls)

	return stats, firstError(produceErr, consumeErr)
}

// firstError prefers a real failure over the cancellation it caused.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
