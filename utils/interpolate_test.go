// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestCatmullRom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		y0, y1, y2, y3 float32
		x              float32
		want           float32
	}{
		{"start point", 0, 1, 2, 3, 0, 1},
		{"end point", 0, 1, 2, 3, 1, 2},
		{"line midpoint", 0, 1, 2, 3, 0.5, 1.5},
		{"line quarter", -1, 0, 1, 2, 0.25, 0.25},
		{"constant", 0.3, 0.3, 0.3, 0.3, 0.7, 0.3},
		{"symmetric peak", 0, 1, 1, 0, 0.5, 1.125},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CatmullRom(tt.y0, tt.y1, tt.y2, tt.y3, tt.x)
			if math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("CatmullRom(%v, %v, %v, %v, %v) = %v, want %v",
					tt.y0, tt.y1, tt.y2, tt.y3, tt.x, got, tt.want)
			}
		})
	}
}

func BenchmarkCatmullRom(b *testing.B) {
	var sink float32
	for i := 0; b.Loop(); i++ {
		sink += CatmullRom(0.1, 0.5, -0.2, 0.3, float32(i%100)/100)
	}
	_ = sink
}
