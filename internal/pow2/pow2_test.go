// SPDX-License-Identifier: EPL-2.0

package pow2

import "testing"

func TestNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   uint32
		want uint32
	}{
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{1000, 1024},
		{1024, 1024},
		{1025, 2048},
		{1<<30 + 1, 1 << 31},
		{MaxCapacity, MaxCapacity},
	}

	for _, tt := range tests {
		if got := Next(tt.in); got != tt.want {
			t.Errorf("Next(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNext_SmallestPowerOfTwo(t *testing.T) {
	t.Parallel()

	for n := uint32(MinCapacity); n < 1<<12; n++ {
		got := Next(n)
		if !Is(got) {
			t.Fatalf("Next(%d) = %d, not a power of two", n, got)
		}
		if got < n || got/2 >= n {
			t.Fatalf("Next(%d) = %d, not the smallest power of two >= n", n, got)
		}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   uint32
		want bool
	}{
		{0, false},
		{1, false},
		{2, true},
		{MaxCapacity, true},
		{MaxCapacity + 1, false},
		{^uint32(0), false},
	}

	for _, tt := range tests {
		if got := Valid(tt.in); got != tt.want {
			t.Errorf("Valid(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
