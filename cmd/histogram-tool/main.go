package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"histogram-tool/internal/config"
	"histogram-tool/internal/histogram"
	"histogram-tool/internal/logger"
	"histogram-tool/internal/opencv"
	"histogram-tool/internal/pipeline"
	"histogram-tool/internal/shutdown"
)

const (
	AppName    = "histogram-tool"
	AppVersion = "1.0.0"
)

// Exit codes. 1-3 match the original command line tool.
const (
	exitOK          = 0
	exitImageLoad   = 1
	exitOutputWrite = 2
	exitIllegalArgs = 3
	exitCancelled   = 4
	exitFailure     = 5
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(ctx, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "%s: %v\n", AppName, err)
	code := exitCode(err)
	if code == exitIllegalArgs {
		fmt.Fprintln(stderr, cmd.UsageString())
	}
	return code
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, config.ErrInvalidConfig):
		return exitIllegalArgs
	case errors.Is(err, pipeline.ErrImageLoad):
		return exitImageLoad
	case errors.Is(err, pipeline.ErrOutputWrite):
		return exitOutputWrite
	case errors.Is(err, histogram.ErrCancelled):
		return exitCancelled
	default:
		return exitFailure
	}
}

func newRootCommand(ctx context.Context, stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Default()
	var configFile string

	cmd := &cobra.Command{
		Use:           AppName + " [flags] <image>",
		Short:         "Compute red, green and blue histograms of an image",
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("%w: must specify input image file", config.ErrInvalidConfig)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			effective, err := resolveConfig(cmd, cfg, configFile)
			if err != nil {
				return err
			}
			return execute(ctx, effective, args[0], stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	})

	flags := cmd.Flags()
	flags.BoolVarP(&cfg.SelfTest, "self-test", "s", cfg.SelfTest, "Show self test results")
	flags.StringVarP(&cfg.OutputFile, "output-file", "o", cfg.OutputFile, "Write output to file (.zst to compress)")
	flags.IntVarP(&cfg.Threads, "num-threads", "t", cfg.Threads, "Use specified number of threads. Overrides automatic setting")
	flags.IntVar(&cfg.Buckets, "buckets", cfg.Buckets, "Buckets per channel histogram")
	flags.StringVar(&configFile, "config", "", "TOML configuration file")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (auto, console, json)")
	flags.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile")
	flags.StringVar(&cfg.Decoder, "decoder", cfg.Decoder, "Image decoder (stdlib, opencv)")

	return cmd
}

// resolveConfig applies defaults, then the config file, then explicitly set flags.
func resolveConfig(cmd *cobra.Command, fromFlags config.Config, configFile string) (config.Config, error) {
	if configFile == "" {
		return fromFlags, fromFlags.Validate()
	}

	cfg := config.Default()
	if err := cfg.LoadFile(configFile); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("self-test") {
		cfg.SelfTest = fromFlags.SelfTest
	}
	if flags.Changed("output-file") {
		cfg.OutputFile = fromFlags.OutputFile
	}
	if flags.Changed("num-threads") {
		cfg.Threads = fromFlags.Threads
	}
	if flags.Changed("buckets") {
		cfg.Buckets = fromFlags.Buckets
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fromFlags.LogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = fromFlags.LogFormat
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = fromFlags.MetricsFile
	}
	if flags.Changed("decoder") {
		cfg.Decoder = fromFlags.Decoder
	}
	return cfg, cfg.Validate()
}

func execute(ctx context.Context, cfg config.Config, imagePath string, stdout, stderr io.Writer) error {
	level, _ := logger.ParseLevel(cfg.LogLevel)
	format, _ := logger.ParseFormat(cfg.LogFormat)
	appLogger := logger.New(stderr, level, format)

	threads, detected := cfg.ResolveThreads()
	switch {
	case cfg.Threads > 0:
	case detected:
		appLogger.Info("Main", "Detected cores", map[string]interface{}{"cores": threads})
	default:
		appLogger.Warning("Main", "Couldn't detect number of cores. Using 1.", nil)
	}

	appLogger.Info("Main", "Application starting", map[string]interface{}{
		"version":    AppVersion,
		"go_version": runtime.Version(),
		"threads":    threads,
		"buckets":    cfg.Buckets,
		"decoder":    cfg.Decoder,
	})

	loader, err := newLoader(cfg.Decoder, appLogger)
	if err != nil {
		return err
	}

	metrics := pipeline.NewMetrics()
	tool, err := histogram.NewTool(threads,
		histogram.WithBucketCount(cfg.Buckets),
		histogram.WithLogger(appLogger),
		histogram.WithObserver(metrics),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	shutdownManager := shutdown.NewManager(ctx, appLogger)
	shutdownManager.Listen()
	defer shutdownManager.Shutdown()

	coordinator := pipeline.NewCoordinator(loader, tool, stdout, appLogger, metrics)
	_, err = coordinator.Run(shutdownManager.Context(), imagePath, pipeline.RunOptions{
		OutputFile:  cfg.OutputFile,
		SelfTest:    cfg.SelfTest,
		MetricsFile: cfg.MetricsFile,
	})
	return err
}

func newLoader(decoder string, log logger.Logger) (pipeline.ImageLoader, error) {
	if decoder != config.DecoderOpenCV {
		return pipeline.NewStdlibLoader(log), nil
	}
	l, err := opencv.NewLoader(log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return l, nil
}
