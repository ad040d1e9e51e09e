// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audring/cmd/audring/internal/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	globalConfig = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "audring",
	Short: "Lock-free audio ring buffer tools",
	Long: `audring moves decoded audio between goroutines through lock-free
single-producer, single-consumer ring buffers.

Examples:
  # Decode an MP3 through a frame ring into a 24-bit WAV
  audring pipe song.mp3 song.wav --bits 24

  # Measure byte ring throughput
  audring bench --bytes 1073741824 --capacity 65536
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return initConfig()
	},
}

// Command returns the root cobra command.
func Command() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(pipeCmd)
	rootCmd.AddCommand(benchCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() error {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	globalConfig = cfg

	return nil
}
