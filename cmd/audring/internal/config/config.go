// SPDX-License-Identifier: EPL-2.0

// Package config loads the audring CLI settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ik5/audring/stream"
)

var (
	ErrInvalidBlock    = errors.New("block frames must be positive and below the ring capacity")
	ErrInvalidBitDepth = errors.New("bit depth must be 16, 24 or 32")
	ErrInvalidBench    = errors.New("bench bytes and chunk must be positive")
	ErrInvalidRate     = errors.New("sample rate must not be negative")
)

// Config holds the settings shared by the CLI commands. Zero fields in a
// file keep their defaults.
type Config struct {
	Pipe  Pipe  `yaml:"pipe"`
	Bench Bench `yaml:"bench"`
}

// Pipe configures the decode, ring and WAV encode pipeline.
type Pipe struct {
	Capacity    uint32        `yaml:"capacity"`
	BlockFrames int           `yaml:"block_frames"`
	BitDepth    int           `yaml:"bit_depth"`
	IdleBackoff time.Duration `yaml:"idle_backoff"`
	// SampleRate resamples the input when positive.
	SampleRate int  `yaml:"sample_rate"`
	Mono       bool `yaml:"mono"`
}

// Bench configures the byte ring throughput benchmark.
type Bench struct {
	Bytes    uint64 `yaml:"bytes"`
	Capacity uint32 `yaml:"capacity"`
	Chunk    int    `yaml:"chunk"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Pipe: Pipe{
			Capacity:    stream.DefaultCapacity,
			BlockFrames: stream.DefaultBlockFrames,
			BitDepth:    16,
			IdleBackoff: stream.DefaultIdleBackoff,
		},
		Bench: Bench{
			Bytes:    256 << 20,
			Capacity: 64 << 10,
			Chunk:    4 << 10,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the values the ring buffers and the WAV writer would
// reject later.
func (c Config) Validate() error {
	if c.Pipe.BlockFrames <= 0 || uint64(c.Pipe.BlockFrames) >= uint64(c.Pipe.Capacity) {
		return fmt.Errorf("block %d, capacity %d: %w", c.Pipe.BlockFrames, c.Pipe.Capacity, ErrInvalidBlock)
	}

	switch c.Pipe.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%d: %w", c.Pipe.BitDepth, ErrInvalidBitDepth)
	}

	if c.Pipe.SampleRate < 0 {
		return fmt.Errorf("%d: %w", c.Pipe.SampleRate, ErrInvalidRate)
	}

	if c.Bench.Bytes == 0 || c.Bench.Chunk <= 0 {
		return ErrInvalidBench
	}

	return nil
}
