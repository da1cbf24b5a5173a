package pipeline

import (
	"context"
	"io"
	"time"

	"histogram-tool/internal/histogram"
	"histogram-tool/internal/models"
)

type RunOptions struct {
	// OutputFile receives the histograms; empty means standard output.
	OutputFile  string
	SelfTest    bool
	MetricsFile string
}

type Result struct {
	Image      *models.ImageData
	Histograms *models.ChannelHistograms
	Elapsed    time.Duration
	SelfTest   *SelfTestReport
}

// Coordinator runs load, compute, save and the optional self-test.
type Coordinator struct {
	loader    ImageLoader
	processor *histogramProcessor
	saver     *HistogramSaver
	metrics   *Metrics
	logger    Logger
	stdout    io.Writer
}

// NewCoordinator wires the pipeline stages. metrics may be nil.
func NewCoordinator(loader ImageLoader, tool *histogram.Tool, stdout io.Writer, logger Logger, metrics *Metrics) *Coordinator {
	return &Coordinator{
		loader:    loader,
		processor: &histogramProcessor{tool: tool, logger: logger},
		saver:     NewHistogramSaver(logger, stdout),
		metrics:   metrics,
		logger:    logger,
		stdout:    stdout,
	}
}

func (c *Coordinator) Run(ctx context.Context, imagePath string, opts RunOptions) (*Result, error) {
	img, err := c.loader.LoadFromPath(imagePath)
	if err != nil {
		c.logger.Error("Coordinator", err, map[string]interface{}{
			"path": imagePath,
		})
		return nil, err
	}

	hist, elapsed, err := c.processor.Process(ctx, img)
	c.writeMetrics(opts.MetricsFile)
	if err != nil {
		return nil, err
	}

	if err := c.saver.Save(opts.OutputFile, hist); err != nil {
		return nil, err
	}

	result := &Result{Image: img, Histograms: hist, Elapsed: elapsed}
	if opts.SelfTest {
		report := RunSelfTest(img, hist)
		result.SelfTest = &report
		if _, err := report.WriteTo(c.stdout); err != nil {
			return nil, err
		}
		if !report.Passed {
			c.logger.Warning("Coordinator", "self test failed", map[string]interface{}{
				"pixels": report.Pixels,
				"red":    report.Red,
				"green":  report.Green,
				"blue":   report.Blue,
			})
		}
	}

	return result, nil
}

func (c *Coordinator) writeMetrics(path string) {
	if c.metrics == nil || path == "" {
		return
	}
	if err := c.metrics.WriteToTextfile(path); err != nil {
		c.logger.Warning("Coordinator", "metrics not written", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}
