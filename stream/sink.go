// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"github.com/ik5/audring/audio"
)

// Collector is a Sink that keeps every frame it receives as interleaved
// float32 samples.
type Collector struct {
	Samples []float32
}

func (c *Collector) WriteFrames(bl audio.BufferList, frames int) error {
	start := len(c.Samples)
	c.Samples = append(c.Samples, make([]float32, frames*len(bl))...)

	n, err := audio.InterleaveFloat32(c.Samples[start:], bl)
	c.Samples = c.Samples[:start+n]

	return err
}
