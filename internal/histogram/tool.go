package histogram

import (
	"context"
	"time"

	"github.com/zeebo/errs/v2"
	"golang.org/x/sync/errgroup"
)

const (
	component = "HistogramTool"

	// Workers poll for cancellation once per this many pixels.
	cancelCheckInterval = 1 << 16
)

// Tool computes red, green and blue histograms of a PixelSource by
// splitting its pixels across a fixed number of goroutines. A Tool holds no
// per-call state and may be shared.
type Tool struct {
	threadCount int
	bucketCount int
	logger      Logger
	observer    Observer
}

type Option func(*Tool)

func WithBucketCount(n int) Option {
	return func(t *Tool) { t.bucketCount = n }
}

func WithLogger(l Logger) Option {
	return func(t *Tool) {
		if l != nil {
			t.logger = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(t *Tool) {
		if o != nil {
			t.observer = o
		}
	}
}

// NewTool returns a Tool that runs threadCount workers per computation.
func NewTool(threadCount int, opts ...Option) (*Tool, error) {
	t := &Tool{
		threadCount: threadCount,
		bucketCount: DefaultBucketCount,
		logger:      nopLogger{},
		observer:    nopObserver{},
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.threadCount <= 0 {
		return nil, errs.Errorf("thread count must be positive, got %d: %w", t.threadCount, ErrInvalidArgument)
	}
	if t.bucketCount <= 0 {
		return nil, errs.Errorf("bucket count must be positive, got %d: %w", t.bucketCount, ErrInvalidArgument)
	}
	return t, nil
}

func (t *Tool) ThreadCount() int { return t.threadCount }

func (t *Tool) BucketCount() int { return t.bucketCount }

// channelSet is one worker's private red, green and blue histograms.
type channelSet struct {
	red, green, blue *Histogram
}

func (t *Tool) newChannelSet() (channelSet, error) {
	var set channelSet
	var err error
	if set.red, err = New(t.bucketCount); err != nil {
		return set, err
	}
	if set.green, err = New(t.bucketCount); err != nil {
		return set, err
	}
	set.blue, err = New(t.bucketCount)
	return set, err
}

// Compute fills red, green and blue with the channel histograms of src.
// The outputs are reset first and must have the tool's bucket count. Every
// worker has returned by the time Compute returns, including on error, in
// which case the outputs are left zeroed.
func (t *Tool) Compute(ctx context.Context, src PixelSource, red, green, blue *Histogram) (err error) {
	start := time.Now()
	numPixels := 0
	workers := 0
	defer func() {
		t.observer.ComputeDone(numPixels, workers, time.Since(start), err)
	}()

	for _, out := range []*Histogram{red, green, blue} {
		if out.BucketCount() != t.bucketCount {
			return errs.Errorf("output has %d buckets, tool uses %d: %w", out.BucketCount(), t.bucketCount, ErrSizeMismatch)
		}
	}
	red.Reset()
	green.Reset()
	blue.Reset()

	width, height := src.Width(), src.Height()
	if width < 0 || height < 0 {
		return errs.Errorf("image dimensions %dx%d: %w", width, height, ErrInvalidArgument)
	}
	numPixels = width * height

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errs.Errorf("before start (%v): %w", ctxErr, ErrCancelled)
	}

	parts, err := Plan(numPixels, t.threadCount)
	if err != nil {
		return err
	}
	workers = len(parts)

	t.logger.Debug(component, "computing histogram", map[string]interface{}{
		"width":   width,
		"height":  height,
		"pixels":  numPixels,
		"workers": workers,
		"buckets": t.bucketCount,
	})

	partials := make([]channelSet, len(parts))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range parts {
		g.Go(func() error {
			workerStart := time.Now()
			set, err := t.newChannelSet()
			if err != nil {
				return err
			}
			if err := scan(gctx, src, p, set); err != nil {
				return errs.Errorf("worker %d [%d..%d]: %w", i, p.First, p.Last, err)
			}
			partials[i] = set
			t.observer.PartitionDone(i, p, time.Since(workerStart))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.logger.Error(component, err, map[string]interface{}{
			"pixels":  numPixels,
			"workers": workers,
		})
		return err
	}

	for i, set := range partials {
		if err := mergeSet(red, green, blue, set); err != nil {
			red.Reset()
			green.Reset()
			blue.Reset()
			return errs.Errorf("merge worker %d: %w", i, err)
		}
	}

	t.logger.Debug(component, "histogram computed", map[string]interface{}{
		"pixels":     numPixels,
		"workers":    workers,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func scan(ctx context.Context, src PixelSource, p Partition, set channelSet) error {
	for i := p.First; i <= p.Last; i++ {
		if (i-p.First)%cancelCheckInterval == 0 {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return errs.Errorf("at pixel %d (%v): %w", i, ctxErr, ErrCancelled)
			}
		}

		r, g, b := src.PixelAt(i)
		if err := set.red.Increment(int(r)); err != nil {
			return err
		}
		if err := set.green.Increment(int(g)); err != nil {
			return err
		}
		if err := set.blue.Increment(int(b)); err != nil {
			return err
		}
	}
	return nil
}

func mergeSet(red, green, blue *Histogram, set channelSet) error {
	if err := red.Merge(set.red); err != nil {
		return err
	}
	if err := green.Merge(set.green); err != nil {
		return err
	}
	return blue.Merge(set.blue)
}
