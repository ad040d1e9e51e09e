// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Vorbis decodes natively to float32, so samples are passed through as
// interleaved values in [-1, 1] with the channel count of the stream:
//
//	f, _ := os.Open("input.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
package vorbis
