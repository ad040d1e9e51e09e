// SPDX-License-Identifier: EPL-2.0

package stream_test

import (
	"context"
	"fmt"

	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/internal/audiotest"
	"github.com/ik5/audring/stream"
)

func ExampleRun() {
	src := audiotest.NewSineSource(8000, 2, 8000, 440)

	var sink stream.Collector
	stats, err := stream.Run(context.Background(), src, &sink,
		stream.WithCapacity(1024),
		stream.WithBlockFrames(256))
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("Written: %d frames\n", stats.FramesWritten)
	fmt.Printf("Read: %d frames\n", stats.FramesRead)
	fmt.Printf("Samples: %d\n", len(sink.Samples))
	// Output:
	// Written: 8000 frames
	// Read: 8000 frames
	// Samples: 16000
}

func ExampleRecorder() {
	rec, err := stream.NewRecorder(audio.NewFloat32Format(8000, 1, false), 4000)
	if err != nil {
		fmt.Println(err)
		return
	}

	// Ten seconds of audio, of which the recorder keeps the last 4096 frames.
	rec.RecordFrom(context.Background(), audiotest.NewSilentSource(8000, 1, 80000))

	bounds, _ := rec.Bounds()
	fmt.Printf("Held: [%d, %d)\n", bounds.Start, bounds.End)

	window := make([]float32, 1000)
	held, _ := rec.Snapshot(window, 75000)
	fmt.Printf("Snapshot at 75000: %d frames held\n", held)

	held, _ = rec.Snapshot(window, 79500)
	fmt.Printf("Snapshot at 79500: %d frames held\n", held)
	// Output:
	// Held: [75904, 80000)
	// Snapshot at 75000: 96 frames held
	// Snapshot at 79500: 500 frames held
}
