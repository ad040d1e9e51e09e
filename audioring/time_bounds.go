// SPDX-License-Identifier: EPL-2.0

package audioring

import (
	"math"
	"sync/atomic"
)

// TimeBounds is a half-open range [Start, End) of sample time.
type TimeBounds struct {
	Start int64
	End   int64
}

// Len returns the number of frames in the range.
func (b TimeBounds) Len() int64 { return b.End - b.Start }

// Empty reports whether the range holds no frames.
func (b TimeBounds) Empty() bool { return b.End <= b.Start }

// Contains reports whether t falls inside the range.
func (b TimeBounds) Contains(t int64) bool { return t >= b.Start && t < b.End }

const (
	boundsSlots    = 8
	boundsMask     = boundsSlots - 1
	boundsAttempts = 8

	// slotBusy marks a slot whose bounds are being rewritten.
	slotBusy = math.MaxUint64
)

type boundsSlot struct {
	start  atomic.Int64
	end    atomic.Int64
	update atomic.Uint64
}

// boundsRegister publishes TimeBounds from one writer to one reader without
// a lock. The writer fills the slot after the current one and then advances
// the counter; the reader takes the slot the counter names and keeps its
// values only if the slot still carries that counter after reading them.
type boundsRegister struct {
	slots   [boundsSlots]boundsSlot
	counter atomic.Uint64
}

func (q *boundsRegister) reset() {
	for i := range q.slots {
		q.slots[i].start.Store(0)
		q.slots[i].end.Store(0)
		q.slots[i].update.Store(0)
	}
	q.counter.Store(0)
}

// set publishes new bounds. Only the writer may call it.
func (q *boundsRegister) set(start, end int64) {
	next := q.counter.Load() + 1
	slot := &q.slots[next&boundsMask]

	slot.update.Store(slotBusy)
	slot.start.Store(start)
	slot.end.Store(end)
	slot.update.Store(next)

	q.counter.Store(next)
}

// current returns the last published bounds. Only the writer may call it,
// since nothing else can change them underneath.
func (q *boundsRegister) current() TimeBounds {
	slot := &q.slots[q.counter.Load()&boundsMask]
	return TimeBounds{Start: slot.start.Load(), End: slot.end.Load()}
}

// load returns the last published bounds, or false when every attempt raced
// with the writer.
func (q *boundsRegister) load() (TimeBounds, bool) {
	for range boundsAttempts {
		c := q.counter.Load()
		slot := &q.slots[c&boundsMask]

		if slot.update.Load() != c {
			continue
		}

		b := TimeBounds{Start: slot.start.Load(), End: slot.end.Load()}

		if slot.update.Load() == c {
			return b, true
		}
	}

	return TimeBounds{}, false
}
