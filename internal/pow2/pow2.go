// SPDX-License-Identifier: EPL-2.0

// Package pow2 holds the capacity rounding shared by the ring buffers.
package pow2

import "math/bits"

const (
	// MinCapacity is the smallest capacity a ring buffer accepts.
	MinCapacity = 2
	// MaxCapacity is the largest capacity a ring buffer accepts (2^31).
	MaxCapacity = 1 << 31
)

// Valid reports whether n can be rounded to a ring capacity.
func Valid(n uint32) bool {
	return n >= MinCapacity && n <= MaxCapacity
}

// Next returns the smallest power of two that is >= n.
// n must satisfy Valid.
func Next(n uint32) uint32 {
	return 1 << (32 - bits.LeadingZeros32(n-1))
}

// Is reports whether n is a power of two.
func Is(n uint32) bool {
	return n != 0 && n&(n-1) == 0
}
