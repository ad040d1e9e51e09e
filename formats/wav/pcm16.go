// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audring/utils"
)

const headerSize = 44

// WriteWAV16 writes interleaved 16-bit samples as a canonical PCM WAV file.
// Unlike Writer it needs no seeking, so it can target any io.Writer.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrInvalidChannels
	}

	const bytesPerSample = 2

	blockAlign := channels * bytesPerSample
	dataSize := len(samples) * bytesPerSample

	header := make([]byte, headerSize)
	le := binary.LittleEndian

	copy(header[0:4], "RIFF")
	le.PutUint32(header[4:8], uint32(headerSize-8+dataSize))
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	le.PutUint32(header[16:20], 16)
	le.PutUint16(header[20:22], pcmFormat)
	le.PutUint16(header[22:24], uint16(channels))
	le.PutUint32(header[24:28], uint32(sampleRate))
	le.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	le.PutUint16(header[32:34], uint16(blockAlign))
	le.PutUint16(header[34:36], 8*bytesPerSample)

	copy(header[36:40], "data")
	le.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	const chunkSamples = 8192

	buf := make([]byte, min(len(samples), chunkSamples)*bytesPerSample)
	for len(samples) > 0 {
		chunk := samples[:min(len(samples), chunkSamples)]
		samples = samples[len(chunk):]

		for i, s := range chunk {
			utils.PutInt16(buf[i*bytesPerSample:], s)
		}

		if _, err := w.Write(buf[:len(chunk)*bytesPerSample]); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}

	return nil
}
