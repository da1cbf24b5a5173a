package pipeline

import (
	"context"
	"fmt"
	"time"

	"histogram-tool/internal/histogram"
	"histogram-tool/internal/models"
)

type histogramProcessor struct {
	tool   *histogram.Tool
	logger Logger
}

func (p *histogramProcessor) Process(ctx context.Context, img *models.ImageData) (*models.ChannelHistograms, time.Duration, error) {
	hist, err := models.NewChannelHistograms(p.tool.BucketCount())
	if err != nil {
		return nil, 0, err
	}

	p.logger.Debug("HistogramProcessor", "processing started", map[string]interface{}{
		"threads": p.tool.ThreadCount(),
		"size":    fmt.Sprintf("%dx%d", img.Width, img.Height),
	})

	start := time.Now()
	if err := p.tool.Compute(ctx, img.Source(), hist.Red, hist.Green, hist.Blue); err != nil {
		return nil, time.Since(start), fmt.Errorf("histogram computation failed: %w", err)
	}
	elapsed := time.Since(start)

	p.logger.Info("HistogramProcessor", "Time taken", map[string]interface{}{
		"elapsed_ms": elapsed.Milliseconds(),
		"threads":    p.tool.ThreadCount(),
	})
	return hist, elapsed, nil
}
