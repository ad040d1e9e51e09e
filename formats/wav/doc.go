// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes integer PCM WAV files.
//
// Decoding and the streaming Writer are built on github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts 8, 16, 24 and 32-bit integer PCM with any channel count
// and sample rate, and returns an audio.Source of float32 samples in [-1, 1):
//
//	f, _ := os.Open("input.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if err != nil {
//	    return err
//	}
//
// Inputs that cannot seek are read into memory first.
//
// # Writing
//
// Writer takes the non-interleaved float32 blocks that come out of an
// audioring.RingBuffer and encodes them at 16, 24 or 32 bits. It needs an
// io.WriteSeeker so the headers can be finished by Close:
//
//	out, _ := os.Create("output.wav")
//	w, _ := wav.NewWriter(out, 48000, 2, 16)
//	stats, err := stream.Run(ctx, src, w)
//	w.Close()
//
// WriteWAV16 writes a complete 16-bit file from interleaved samples in one
// call and works with any io.Writer.
package wav
