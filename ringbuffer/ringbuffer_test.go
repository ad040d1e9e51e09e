// SPDX-License-Identifier: EPL-2.0

package ringbuffer

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
)

func sequence(start, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(start + i)
	}
	return b
}

func TestAllocate_InvalidCapacity(t *testing.T) {
	t.Parallel()

	for _, c := range []uint32{0, 1, 1<<31 + 1, ^uint32(0)} {
		var rb RingBuffer
		if rb.Allocate(c) {
			t.Errorf("Allocate(%d) = true, want false", c)
		}
		if rb.Capacity() != 0 {
			t.Errorf("Allocate(%d) left capacity %d, want 0", c, rb.Capacity())
		}
	}
}

func TestAllocate_RoundsToPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested uint32
		want      uint32
	}{
		{2, 2},
		{3, 4},
		{5, 8},
		{100, 128},
		{4096, 4096},
		{4097, 8192},
	}

	for _, tt := range tests {
		var rb RingBuffer
		if !rb.Allocate(tt.requested) {
			t.Fatalf("Allocate(%d) = false", tt.requested)
		}
		if rb.Capacity() != tt.want {
			t.Errorf("Allocate(%d) capacity = %d, want %d", tt.requested, rb.Capacity(), tt.want)
		}
		if got := rb.BytesAvailableToWrite(); got != tt.want-1 {
			t.Errorf("Allocate(%d) BytesAvailableToWrite = %d, want %d", tt.requested, got, tt.want-1)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	if _, err := New(1); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("New(1) error = %v, want ErrInvalidCapacity", err)
	}

	rb, err := New(10)
	if err != nil {
		t.Fatalf("New(10) error = %v", err)
	}
	if rb.Capacity() != 16 {
		t.Errorf("New(10) capacity = %d, want 16", rb.Capacity())
	}
}

func TestReallocate_ResetsState(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(8)
	rb.Write(sequence(0, 5), false)

	if !rb.Allocate(32) {
		t.Fatal("second Allocate failed")
	}
	if rb.Capacity() != 32 {
		t.Errorf("capacity = %d, want 32", rb.Capacity())
	}
	if rb.BytesAvailableToRead() != 0 {
		t.Errorf("BytesAvailableToRead = %d after reallocation, want 0", rb.BytesAvailableToRead())
	}
}

func TestDeallocate(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(16)
	rb.Write(sequence(0, 4), false)

	rb.Deallocate()
	rb.Deallocate() // idempotent

	if rb.Capacity() != 0 {
		t.Errorf("Capacity = %d after Deallocate, want 0", rb.Capacity())
	}
	if rb.BytesAvailableToRead() != 0 || rb.BytesAvailableToWrite() != 0 {
		t.Error("deallocated buffer reports available bytes")
	}
	if n := rb.Write([]byte{1}, true); n != 0 {
		t.Errorf("Write on deallocated buffer = %d, want 0", n)
	}
	if n := rb.Read(make([]byte, 1), true); n != 0 {
		t.Errorf("Read on deallocated buffer = %d, want 0", n)
	}
}

func TestReset(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(16)
	rb.Write(sequence(0, 10), false)
	rb.Read(make([]byte, 3), false)

	rb.Reset()

	if !rb.IsEmpty() {
		t.Error("IsEmpty = false after Reset")
	}
	if rb.Capacity() != 16 {
		t.Errorf("Capacity = %d after Reset, want 16", rb.Capacity())
	}
	if got := rb.BytesAvailableToWrite(); got != 15 {
		t.Errorf("BytesAvailableToWrite = %d after Reset, want 15", got)
	}
}

func TestRoundTrip_AllAlignments(t *testing.T) {
	t.Parallel()

	const capacity = 16

	for offset := range capacity {
		for n := 1; n < capacity; n++ {
			var rb RingBuffer
			rb.Allocate(capacity)

			// Move both cursors to offset.
			rb.AdvanceWritePosition(uint32(offset))
			rb.AdvanceReadPosition(uint32(offset))

			in := sequence(offset*7, n)
			if got := rb.Write(in, false); got != uint32(n) {
				t.Fatalf("offset %d: Write(%d) = %d", offset, n, got)
			}

			out := make([]byte, n)
			if got := rb.Read(out, false); got != uint32(n) {
				t.Fatalf("offset %d: Read(%d) = %d", offset, n, got)
			}

			if !bytes.Equal(in, out) {
				t.Fatalf("offset %d n %d: read %v, want %v", offset, n, out, in)
			}
		}
	}
}

func TestWrite_AllOrNothing(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(8)

	if got := rb.Write(sequence(0, 8), false); got != 0 {
		t.Fatalf("Write(8) into capacity 8 = %d, want 0", got)
	}
	if rb.BytesAvailableToRead() != 0 {
		t.Fatal("rejected write changed the write cursor")
	}

	if got := rb.Write(sequence(0, 8), true); got != 7 {
		t.Fatalf("partial Write(8) = %d, want 7", got)
	}
	if !rb.IsFull() {
		t.Error("IsFull = false after filling the buffer")
	}
	if got := rb.Write([]byte{1}, true); got != 0 {
		t.Errorf("Write into full buffer = %d, want 0", got)
	}
}

func TestRead_AllOrNothing(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(16)
	rb.Write(sequence(0, 5), false)

	out := make([]byte, 6)
	if got := rb.Read(out, false); got != 0 {
		t.Fatalf("Read(6) with 5 available = %d, want 0", got)
	}
	if rb.BytesAvailableToRead() != 5 {
		t.Fatal("rejected read changed the read cursor")
	}

	if got := rb.Read(out, true); got != 5 {
		t.Fatalf("partial Read(6) = %d, want 5", got)
	}
	if !bytes.Equal(out[:5], sequence(0, 5)) {
		t.Errorf("partial Read content = %v", out[:5])
	}
	if got := rb.Read(out, true); got != 0 {
		t.Errorf("Read on empty buffer = %d, want 0", got)
	}
}

func TestReadWrite_EmptySlices(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(8)

	if got := rb.Write(nil, true); got != 0 {
		t.Errorf("Write(nil) = %d, want 0", got)
	}
	rb.Write([]byte{1, 2}, false)
	if got := rb.Read(nil, true); got != 0 {
		t.Errorf("Read(nil) = %d, want 0", got)
	}
	if got := rb.Peek([]byte{}, true); got != 0 {
		t.Errorf("Peek(empty) = %d, want 0", got)
	}
}

func TestPeek_DoesNotConsume(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(8)
	rb.AdvanceWritePosition(6)
	rb.AdvanceReadPosition(6)
	rb.Write(sequence(10, 5), false) // wraps

	first := make([]byte, 5)
	second := make([]byte, 5)
	if rb.Peek(first, false) != 5 || rb.Peek(second, false) != 5 {
		t.Fatal("Peek did not return 5 bytes")
	}
	if !bytes.Equal(first, second) || !bytes.Equal(first, sequence(10, 5)) {
		t.Errorf("Peek content = %v / %v", first, second)
	}
	if rb.BytesAvailableToRead() != 5 {
		t.Errorf("BytesAvailableToRead = %d after Peek, want 5", rb.BytesAvailableToRead())
	}
}

func TestAvailabilityInvariant(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(64)

	rng := rand.New(rand.NewPCG(1, 2))
	scratch := make([]byte, 80)

	for i := range 10000 {
		n := rng.IntN(len(scratch))
		if rng.IntN(2) == 0 {
			rb.Write(scratch[:n], rng.IntN(2) == 0)
		} else {
			rb.Read(scratch[:n], rng.IntN(2) == 0)
		}

		r, w := rb.BytesAvailableToRead(), rb.BytesAvailableToWrite()
		if r+w != rb.Capacity()-1 {
			t.Fatalf("step %d: read %d + write %d != %d", i, r, w, rb.Capacity()-1)
		}
	}
}

func TestVectors(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(8)

	wv := rb.WriteVector()
	if wv.Len() != 7 || len(wv.Second) != 0 {
		t.Fatalf("empty WriteVector = %d+%d, want 7+0", len(wv.First), len(wv.Second))
	}

	rb.AdvanceWritePosition(6)
	rb.AdvanceReadPosition(6)

	wv = rb.WriteVector()
	if len(wv.First) != 2 || len(wv.Second) != 5 {
		t.Fatalf("wrapped WriteVector = %d+%d, want 2+5", len(wv.First), len(wv.Second))
	}

	data := sequence(40, 4)
	n := copy(wv.First, data)
	n += copy(wv.Second, data[n:])
	rb.AdvanceWritePosition(uint32(n))

	rv := rb.ReadVector()
	if len(rv.First) != 2 || len(rv.Second) != 2 {
		t.Fatalf("ReadVector = %d+%d, want 2+2", len(rv.First), len(rv.Second))
	}
	got := append(append([]byte{}, rv.First...), rv.Second...)
	if !bytes.Equal(got, data) {
		t.Errorf("ReadVector content = %v, want %v", got, data)
	}

	rb.AdvanceReadPosition(uint32(rv.Len()))
	if !rb.IsEmpty() {
		t.Error("buffer not empty after consuming the read vector")
	}
	if rv := rb.ReadVector(); rv.Len() != 0 {
		t.Errorf("ReadVector on empty buffer has %d bytes", rv.Len())
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	type header struct {
		Frames uint32
		Time   int64
	}

	var rb RingBuffer
	rb.Allocate(32)
	rb.AdvanceWritePosition(27)
	rb.AdvanceReadPosition(27)

	in := header{Frames: 512, Time: -42}
	if !WriteValue(&rb, in) {
		t.Fatal("WriteValue failed")
	}
	if !WriteValue(&rb, uint16(7)) {
		t.Fatal("WriteValue(uint16) failed")
	}

	var peeked header
	if !PeekValue(&rb, &peeked) || peeked != in {
		t.Fatalf("PeekValue = %+v, want %+v", peeked, in)
	}

	var out header
	if !ReadValue(&rb, &out) || out != in {
		t.Fatalf("ReadValue = %+v, want %+v", out, in)
	}

	var small uint16
	if !ReadValue(&rb, &small) || small != 7 {
		t.Fatalf("ReadValue(uint16) = %d, want 7", small)
	}
	if ReadValue(&rb, &small) {
		t.Error("ReadValue on empty buffer succeeded")
	}

	if WriteValue(&rb, 5) {
		t.Error("WriteValue(int) succeeded for a non fixed-size type")
	}
	if WriteValue(&rb, [40]byte{}) {
		t.Error("WriteValue larger than the free space succeeded")
	}
}

func TestIOAdapters(t *testing.T) {
	t.Parallel()

	var rb RingBuffer
	rb.Allocate(8)

	w := rb.Writer()
	n, err := w.Write(sequence(0, 10))
	if n != 7 || !errors.Is(err, ErrFull) {
		t.Fatalf("Writer.Write = %d, %v, want 7, ErrFull", n, err)
	}

	r := rb.Reader()
	buf := make([]byte, 10)
	n, err = r.Read(buf)
	if n != 7 || err != nil {
		t.Fatalf("Reader.Read = %d, %v, want 7, nil", n, err)
	}
	if _, err := r.Read(buf); !errors.Is(err, ErrEmpty) {
		t.Errorf("Reader.Read on empty buffer error = %v, want ErrEmpty", err)
	}
}

func TestConcurrentProducerConsumer(t *testing.T) {
	t.Parallel()

	const total = 1 << 18

	var rb RingBuffer
	rb.Allocate(1024)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		chunk := make([]byte, 97)
		sent := 0
		for sent < total {
			n := min(len(chunk), total-sent)
			for i := range n {
				chunk[i] = byte(sent + i)
			}
			sent += int(rb.Write(chunk[:n], true))
		}
	}()

	var mismatch error
	go func() {
		defer wg.Done()
		buf := make([]byte, 61)
		got := 0
		for got < total {
			n := int(rb.Read(buf, true))
			for i := range n {
				if buf[i] != byte(got+i) && mismatch == nil {
					mismatch = errors.New("byte stream corrupted")
				}
			}
			got += n
		}
	}()

	wg.Wait()

	if mismatch != nil {
		t.Fatal(mismatch)
	}
	if !rb.IsEmpty() {
		t.Error("buffer not empty after transferring everything")
	}
}
