// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ik5/audring/ringbuffer"
)

var benchFlags struct {
	bytes    uint64
	capacity uint32
	chunk    int
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure byte ring throughput between two goroutines",
	Args:  cobra.NoArgs,
	RunE:  runBench,
}

func init() {
	benchCmd.Flags().Uint64Var(&benchFlags.bytes, "bytes", 0, "total bytes to move (default from config)")
	benchCmd.Flags().Uint32Var(&benchFlags.capacity, "capacity", 0, "ring capacity in bytes (default from config)")
	benchCmd.Flags().IntVar(&benchFlags.chunk, "chunk", 0, "bytes per read and write (default from config)")
}

// BenchResult describes one throughput run.
type BenchResult struct {
	Bytes    uint64
	Capacity uint32
	Elapsed  time.Duration
	// Spins counts the times either side found the ring full or empty.
	Spins uint64
}

// Rate returns the throughput in bytes per second.
func (r BenchResult) Rate() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Bytes) / r.Elapsed.Seconds()
}

func runBench(cmd *cobra.Command, _ []string) error {
	cfg := globalConfig.Bench
	if cmd.Flags().Changed("bytes") {
		cfg.Bytes = benchFlags.bytes
	}
	if cmd.Flags().Changed("capacity") {
		cfg.Capacity = benchFlags.capacity
	}
	if cmd.Flags().Changed("chunk") {
		cfg.Chunk = benchFlags.chunk
	}

	res, err := benchmark(cmd.Context(), cfg.Bytes, cfg.Capacity, cfg.Chunk)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Moved %s through a %s ring in %s: %s/s (%d spins)\n",
		humanize.IBytes(res.Bytes),
		humanize.IBytes(uint64(res.Capacity)),
		res.Elapsed.Round(time.Microsecond),
		humanize.IBytes(uint64(res.Rate())),
		res.Spins)

	return nil
}

// benchmark moves total bytes through a byte ring with a writer goroutine
// and verifies the stream on the reading side.
func benchmark(ctx context.Context, total uint64, capacity uint32, chunk int) (BenchResult, error) {
	if total == 0 || chunk <= 0 {
		return BenchResult{}, fmt.Errorf("bytes %d, chunk %d: must be positive", total, chunk)
	}

	rb, err := ringbuffer.New(capacity)
	if err != nil {
		return BenchResult{}, fmt.Errorf("capacity %d: %w", capacity, err)
	}

	slog.Debug("bench", "bytes", total, "capacity", rb.Capacity(), "chunk", chunk)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writerSpins uint64
	writerDone := make(chan struct{})
	start := time.Now()

	go func() {
		defer close(writerDone)

		buf := make([]byte, chunk)
		var pos uint64
		for pos < total {
			if ctx.Err() != nil {
				return
			}

			n := min(uint64(chunk), total-pos)
			for i := range n {
				buf[i] = byte(pos + i)
			}

			written := uint64(0)
			for written < n {
				w := rb.Write(buf[written:n], true)
				if w == 0 {
					writerSpins++
					if ctx.Err() != nil {
						return
					}
					runtime.Gosched()
				}
				written += uint64(w)
			}
			pos += n
		}
	}()

	buf := make([]byte, chunk)
	var (
		pos   uint64
		spins uint64
	)
	for pos < total {
		if err := ctx.Err(); err != nil {
			<-writerDone
			return BenchResult{}, err
		}

		n := uint64(rb.Read(buf, true))
		if n == 0 {
			spins++
			runtime.Gosched()
			continue
		}

		for i := range n {
			if buf[i] != byte(pos+i) {
				cancel()
				<-writerDone
				return BenchResult{}, fmt.Errorf("byte %d corrupted: got %#x, want %#x", pos+i, buf[i], byte(pos+i))
			}
		}
		pos += n
	}

	elapsed := time.Since(start)
	<-writerDone

	return BenchResult{
		Bytes:    total,
		Capacity: rb.Capacity(),
		Elapsed:  elapsed,
		Spins:    spins + writerSpins,
	}, nil
}
