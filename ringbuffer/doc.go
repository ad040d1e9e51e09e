// SPDX-License-Identifier: EPL-2.0

// Package ringbuffer provides a single-producer, single-consumer lock-free
// byte ring buffer.
//
// The buffer capacity is always a power of two so that cursor arithmetic is a
// bitmask. One byte of capacity is kept free to tell a full buffer from an
// empty one, so at most Capacity()-1 bytes can be buffered at a time.
//
// # Thread Safety
//
// Exactly one goroutine may act as the producer and exactly one as the
// consumer:
//   - Producer: Write, WriteValue, WriteVector, AdvanceWritePosition
//   - Consumer: Read, Peek, ReadValue, PeekValue, ReadVector, AdvanceReadPosition
//
// The availability queries may be called from either side. Allocate, Reset
// and Deallocate must not run concurrently with anything else.
//
// No operation blocks, allocates or panics on the data path. A transfer that
// cannot be satisfied returns 0 and leaves the buffer untouched:
//
//	var rb ringbuffer.RingBuffer
//	if !rb.Allocate(4096) {
//	    // invalid capacity
//	}
//
//	// producer
//	n := rb.Write(packet, false) // all or nothing
//
//	// consumer
//	buf := make([]byte, 512)
//	n = rb.Read(buf, true) // whatever is available, up to len(buf)
//
// # Zero-Copy Access
//
// ReadVector and WriteVector expose the readable and writable regions in
// place. After consuming or filling them, commit the transfer with
// AdvanceReadPosition or AdvanceWritePosition:
//
//	v := rb.WriteVector()
//	n := copy(v.First, data)
//	n += copy(v.Second, data[n:])
//	rb.AdvanceWritePosition(uint32(n))
//
// # Memory Ordering
//
// The producer copies data before it stores the write cursor, and the
// consumer loads the write cursor before it copies data out. Go's atomics
// give these stores and loads release and acquire semantics, which is what
// makes the data visible across goroutines without a lock.
package ringbuffer
