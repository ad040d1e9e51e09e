// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample conversions shared by the decoders, the buffer
// list helpers and the WAV sink.
package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 converts a sample in [-1,1] to int16, clamping out of range
// values. Negative samples scale by 32768 and positive ones by 32767 so both
// ends of the int16 range are reachable.
func Float32ToInt16(x float32) int16 {
	return int16(Float32ToInt(x, 16))
}

// Float32ToInt converts a sample in [-1,1] to a signed integer of bitDepth
// bits (8 to 32), clamping out of range values.
func Float32ToInt(x float32, bitDepth int) int {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	scale := float64(int64(1) << (bitDepth - 1))
	if x < 0 {
		return int(float64(x) * scale)
	}
	return int(float64(x) * (scale - 1))
}

// IntToFloat32 converts a signed integer sample of bitDepth bits to [-1,1).
func IntToFloat32(v int, bitDepth int) float32 {
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}

// PutFloat32 stores v little-endian in b[0:4].
func PutFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

// Float32 loads a little-endian float32 from b[0:4].
func Float32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// PutInt16 stores v little-endian in b[0:2].
func PutInt16(b []byte, v int16) {
	binary.LittleEndian.PutUint16(b, uint16(v))
}

// Int16 loads a little-endian int16 from b[0:2].
func Int16(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}
