// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"log/slog"
	"time"
)

const (
	DefaultCapacity    = 16384
	DefaultBlockFrames = 1024
	DefaultIdleBackoff = time.Millisecond
)

type options struct {
	capacity    uint32
	blockFrames int
	idleBackoff time.Duration
	logger      *slog.Logger
}

// Option configures a pipeline, producer, consumer or recorder.
type Option func(*options)

// WithCapacity sets the ring capacity in frames. It is rounded up to a power
// of two. The default is DefaultCapacity.
func WithCapacity(frames uint32) Option {
	return func(o *options) {
		o.capacity = frames
	}
}

// WithBlockFrames sets how many frames move per ring transfer.
// The default is DefaultBlockFrames.
func WithBlockFrames(frames int) Option {
	return func(o *options) {
		o.blockFrames = frames
	}
}

// WithIdleBackoff sets how long a side waits before polling the ring again
// when it is full or empty. The default is DefaultIdleBackoff.
func WithIdleBackoff(d time.Duration) Option {
	return func(o *options) {
		o.idleBackoff = d
	}
}

// WithLogger sets the logger for lifecycle and stall events. Nothing is
// logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) options {
	o := options{
		capacity:    DefaultCapacity,
		blockFrames: DefaultBlockFrames,
		idleBackoff: DefaultIdleBackoff,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
