// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always produces stereo: mono files are duplicated into both
// channels by go-mp3. Samples come back as interleaved float32 in [-1, 1):
//
//	f, _ := os.Open("input.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//	stats, err := stream.Run(ctx, src, sink)
package mp3
