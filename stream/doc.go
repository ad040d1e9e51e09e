// SPDX-License-Identifier: EPL-2.0

// Package stream moves decoded audio through the lock-free rings of package
// audioring.
//
// A Producer reads an audio.Source and writes its frames into an
// audioring.RingBuffer. A Consumer reads the ring in blocks and hands them to
// a Sink. Each runs on its own goroutine and polls the ring when it is full
// or empty, so neither ever blocks the other. Run wires both together:
//
//	var sink stream.Collector
//	stats, err := stream.Run(ctx, src, &sink,
//	    stream.WithCapacity(8192),
//	    stream.WithBlockFrames(512),
//	    stream.WithLogger(slog.Default()))
//
// A Recorder keeps the latest audio of a stream in an
// audioring.TimestampedRingBuffer so another goroutine can take snapshots of
// any recent time range.
package stream
