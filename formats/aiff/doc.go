// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF (Audio Interchange File Format) files.
//
// Decoding is done by github.com/go-audio/aiff. Samples of 8, 16, 24 and 32
// bits are accepted and returned as an audio.Source of interleaved float32
// in [-1, 1), ready to be fed to a stream.Producer:
//
//	f, _ := os.Open("input.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // not AIFF
//	}
//
// Inputs that cannot seek are read into memory first.
package aiff
