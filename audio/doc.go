// SPDX-License-Identifier: EPL-2.0

// Package audio provides the value types shared by the ring buffers, the
// decoders and the streaming pipeline.
//
// This package contains:
//   - StreamFormat, a linear PCM format description
//   - Buffer and BufferList, per-channel audio buffers
//   - Source and Decoder interfaces for audio input
//   - Registry for decoder lookup by format name or file extension
//   - Resampler and MonoMixer, Source stages for rate and channel conversion
//
// # Stream Formats
//
// A StreamFormat records the channel count, sample width and layout of PCM
// audio. The ring buffers only accept non-interleaved formats, where every
// channel has its own buffer:
//
//	format := audio.NewFloat32Format(48000, 2, false)
//	format.ChannelStreamCount() // 2
//	format.BytesPerFrame        // 4, one channel's frame
//
// Formats coming from go-audio decoders convert with FormatFromGoAudio.
//
// # Buffer Lists
//
// A BufferList holds one Buffer per channel stream. len(Data) is the capacity
// and ByteSize is the number of valid bytes:
//
//	bl := audio.NewBufferList(format, 512)
//	frames, err := audio.DeinterleaveFloat32(bl, samples, 2)
//
// Ring buffers read ByteSize when writing and set it when reading, so after a
// read it tells how much of each buffer holds real audio.
//
// # Sources and Decoders
//
// A Source produces interleaved float32 samples in [-1.0, 1.0]:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// The registry picks a decoder by name or by file extension:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	decoder, err := registry.ForPath("take1.wav")
//
// # Conversion Stages
//
// Resampler and MonoMixer wrap a Source and are Sources themselves, so they
// stack in front of a ring buffer producer:
//
//	r, err := audio.NewResampler(src, 16000)
//	if err != nil {
//	    return err
//	}
//	mono := audio.NewMonoMixer(r)
//
// # Errors
//
// Failures are reported with the sentinel errors in this package, wrapped with
// context where useful; test them with errors.Is.
package audio
