// SPDX-License-Identifier: EPL-2.0

// Package audioring provides lock-free single-producer, single-consumer ring
// buffers for non-interleaved multi-channel audio.
//
// RingBuffer is a frame FIFO: the producer writes frames, the consumer reads
// them in order. TimestampedRingBuffer addresses frames by absolute sample
// time instead, so a consumer can read any range of recently written time
// and gets silence for the parts it no longer holds or never received.
//
// Both keep every channel in its own region of one allocation and copy all
// channels of a frame together. Capacities are rounded up to a power of two
// and must be in [2, 2^31] frames. Buffers are passed as audio.BufferList,
// one audio.Buffer per channel; writes take at most each buffer's ByteSize,
// reads fill at most each buffer's len(Data) and set ByteSize.
//
// # Thread Safety
//
// One goroutine writes and one goroutine reads. Allocate, Reset and
// Deallocate must not overlap any other call. No data path method blocks,
// allocates or panics; failures are reported as a 0 or false return.
//
//	rb, err := audioring.New(audio.NewFloat32Format(48000, 2, false), 4096)
//	if err != nil {
//	    return err
//	}
//
//	in := audio.NewBufferList(rb.Format(), 512)
//	out := audio.NewBufferList(rb.Format(), 512)
//
//	rb.Write(in, 512, false)       // producer
//	n := rb.Read(out, 512, true)   // consumer
//
// # Time Bounds
//
// TimestampedRingBuffer publishes the range of times it holds through an
// eight slot register. The writer fills a fresh slot and then advances a
// counter; the reader trusts a slot only when its own counter matches the
// published one before and after reading, and gives up after eight tries.
// Read checks the bounds again after copying and silences frames the writer
// evicted in the meantime. Those copies overlap the writer's stores, so the
// race detector reports them even though the result is discarded.
package audioring
