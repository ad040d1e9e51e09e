// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ik5/audring"
	"github.com/ik5/audring/audio"
	"github.com/ik5/audring/formats/wav"
	"github.com/ik5/audring/stream"
)

var pipeFlags struct {
	capacity uint32
	block    int
	bits     int
	rate     int
	mono     bool
}

var pipeCmd = &cobra.Command{
	Use:   "pipe <input> <output.wav>",
	Short: "Decode a file through a frame ring into a WAV file",
	Long: `Decode an audio file on one goroutine, pass it through a lock-free
frame ring buffer and encode it as PCM WAV on another.

The decoded audio can be resampled and mixed down to mono on the producer
side before it enters the ring.

Supported inputs: wav, aiff, mp3, ogg.`,
	Args: cobra.ExactArgs(2),
	RunE: runPipe,
}

func init() {
	pipeCmd.Flags().Uint32Var(&pipeFlags.capacity, "capacity", 0, "ring capacity in frames (default from config)")
	pipeCmd.Flags().IntVar(&pipeFlags.block, "block", 0, "frames per ring transfer (default from config)")
	pipeCmd.Flags().IntVar(&pipeFlags.bits, "bits", 0, "output bit depth: 16, 24 or 32 (default from config)")
	pipeCmd.Flags().IntVar(&pipeFlags.rate, "rate", 0, "output sample rate, 0 keeps the input rate")
	pipeCmd.Flags().BoolVar(&pipeFlags.mono, "mono", false, "mix all channels down to mono")
}

func runPipe(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	cfg := globalConfig.Pipe
	if cmd.Flags().Changed("capacity") {
		cfg.Capacity = pipeFlags.capacity
	}
	if cmd.Flags().Changed("block") {
		cfg.BlockFrames = pipeFlags.block
	}
	if cmd.Flags().Changed("bits") {
		cfg.BitDepth = pipeFlags.bits
	}
	if cmd.Flags().Changed("rate") {
		cfg.SampleRate = pipeFlags.rate
	}
	if cmd.Flags().Changed("mono") {
		cfg.Mono = pipeFlags.mono
	}

	dec, err := audring.NewRegistry().ForPath(inPath)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	decoded, err := dec.Decode(in)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}

	src, err := convert(decoded, cfg.SampleRate, cfg.Mono)
	if err != nil {
		decoded.Close()
		return err
	}
	defer src.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w, err := wav.NewWriter(out, src.SampleRate(), src.Channels(), cfg.BitDepth)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	slog.Debug("pipe",
		"input", inPath,
		"sample_rate", src.SampleRate(),
		"channels", src.Channels(),
		"capacity", cfg.Capacity,
		"block_frames", cfg.BlockFrames)

	stats, err := stream.Run(ctx, src, w,
		stream.WithCapacity(cfg.Capacity),
		stream.WithBlockFrames(cfg.BlockFrames),
		stream.WithIdleBackoff(cfg.IdleBackoff),
		stream.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	size := int64(0)
	if fi, err := out.Stat(); err == nil {
		size = fi.Size()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %s frames, %s, %d stalls\n",
		outPath,
		humanize.Comma(int64(stats.FramesRead)),
		humanize.Bytes(uint64(size)),
		stats.Stalls)

	return nil
}

// convert stacks the resampling and downmix stages on src as requested.
func convert(src audio.Source, rate int, mono bool) (audio.Source, error) {
	if rate > 0 && rate != src.SampleRate() {
		r, err := audio.NewResampler(src, rate)
		if err != nil {
			return nil, err
		}
		src = r
	}

	if mono && src.Channels() > 1 {
		src = audio.NewMonoMixer(src)
	}

	return src, nil
}
