// SPDX-License-Identifier: EPL-2.0

package wav_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audring/formats/wav"
)

func Example() {
	file := new(bytes.Buffer)
	if err := wav.WriteWAV16(file, 16000, 2, []int16{100, -100, 200, -200, 300, -300}); err != nil {
		fmt.Println(err)
		return
	}

	src, err := wav.Decoder{}.Decode(file)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer src.Close()

	fmt.Printf("Sample rate: %d Hz\n", src.SampleRate())
	fmt.Printf("Channels: %d\n", src.Channels())

	buf := make([]float32, 16)
	n, err := src.ReadSamples(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Println(err)
		return
	}
	fmt.Printf("Read %d samples\n", n)
	// Output:
	// Sample rate: 16000 Hz
	// Channels: 2
	// Read 6 samples
}

func ExampleDecoder_Decode_notWAV() {
	_, err := wav.Decoder{}.Decode(bytes.NewReader([]byte("not audio")))
	fmt.Println(errors.Is(err, wav.ErrNotWavFile))
	// Output:
	// true
}
