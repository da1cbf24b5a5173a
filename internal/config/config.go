package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"histogram-tool/internal/histogram"
	"histogram-tool/internal/logger"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DecoderStdlib = "stdlib"
	DecoderOpenCV = "opencv"
)

// Config holds the settings of one run. Threads == 0 means one worker per
// detected core.
type Config struct {
	Threads     int    `toml:"threads"`
	Buckets     int    `toml:"buckets"`
	OutputFile  string `toml:"output_file"`
	SelfTest    bool   `toml:"self_test"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	MetricsFile string `toml:"metrics_file"`
	Decoder     string `toml:"decoder"`
}

func Default() Config {
	return Config{
		Threads:   0,
		Buckets:   histogram.DefaultBucketCount,
		LogLevel:  "info",
		LogFormat: string(logger.FormatAuto),
		Decoder:   DecoderStdlib,
	}
}

// LoadFile overlays the keys present in the TOML file at path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: %s: unknown key %q", ErrInvalidConfig, path, undecoded[0].String())
	}
	return nil
}

func (c Config) Validate() error {
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must be a positive integer, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.Buckets <= 0 || c.Buckets > histogram.MaxBucketCount {
		return fmt.Errorf("%w: buckets must be in [1, %d], got %d", ErrInvalidConfig, histogram.MaxBucketCount, c.Buckets)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logger.ParseFormat(c.LogFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.Decoder {
	case DecoderStdlib, DecoderOpenCV:
	default:
		return fmt.Errorf("%w: unknown decoder %q", ErrInvalidConfig, c.Decoder)
	}
	return nil
}
