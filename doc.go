// SPDX-License-Identifier: EPL-2.0

// Package audring moves streaming audio between goroutines through lock-free
// single-producer, single-consumer ring buffers.
//
// The rings never block, lock or allocate once allocated, so one side can be
// a real-time audio callback while the other decodes, records or writes
// files.
//
// # Packages
//
//   - ringbuffer: a byte ring with zero-copy vectors and fixed-size value helpers
//   - audioring: a frame ring for non-interleaved multi-channel audio, and a
//     timestamped variant that addresses frames by absolute sample time
//   - stream: producer and consumer goroutines that pump an audio.Source
//     through a frame ring into a Sink, and a Recorder over the timestamped ring
//   - audio: stream formats, buffer lists and the Source and Decoder interfaces
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: decoders, plus a
//     WAV writer that works as a Sink
//
// # Quick Start
//
//	dec, err := audring.NewRegistry().ForPath("input.mp3")
//	if err != nil {
//	    return err
//	}
//
//	f, _ := os.Open("input.mp3")
//	src, err := dec.Decode(f)
//	if err != nil {
//	    return err
//	}
//
//	pcm16, err := audring.TransferPCM16(ctx, src)
//
// # Working with Rings Directly
//
//	format := audio.NewFloat32Format(48000, 2, false)
//	rb, _ := audioring.New(format, 4096)
//
//	// producer goroutine
//	rb.Write(block, frames, true)
//
//	// consumer goroutine, for example an audio callback
//	n := rb.Read(out, frames, true)
//
// # Timestamped Rings
//
// audioring.TimestampedRingBuffer stores each frame at its sample time.
// Readers ask for any range of time and get silence for the parts that were
// never written or have been overwritten:
//
//	rb, _ := audioring.NewTimestamped(format, 48000)
//	rb.Write(block, 512, now)
//	bounds, _ := rb.TimeBounds()
//	rb.Read(out, 512, bounds.End-512)
package audring
