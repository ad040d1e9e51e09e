// SPDX-License-Identifier: EPL-2.0

package audring

import (
	"context"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/stream"
	"github.com/ik5/audring/utils"
)

// TransferPCM16 moves src through a lock-free frame ring, with the decoder
// and the collector on separate goroutines, and returns everything as
// interleaved 16-bit PCM. The source is not closed.
//
// It is the simplest way to use the package end to end. For a custom sink,
// use stream.Run; for full control, use stream.Producer and stream.Consumer
// with an audioring.RingBuffer.
//
// Example:
//
//	src, _ := wav.Decoder{}.Decode(file)
//	pcm16, err := audring.TransferPCM16(ctx, src, stream.WithCapacity(8192))
//	if err != nil {
//	    return err
//	}
//	wav.WriteWAV16(out, src.SampleRate(), src.Channels(), pcm16)
func TransferPCM16(ctx context.Context, src audio.Source, opts ...stream.Option) ([]int16, error) {
	var sink stream.Collector
	if _, err := stream.Run(ctx, src, &sink, opts...); err != nil {
		return nil, err
	}

	pcm16 := make([]int16, len(sink.Samples))
	for i, s := range sink.Samples {
		pcm16[i] = utils.Float32ToInt16(s)
	}

	return pcm16, nil
}
