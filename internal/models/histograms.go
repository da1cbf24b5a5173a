package models

import (
	"io"

	"histogram-tool/internal/histogram"
)

// ChannelHistograms holds the red, green and blue results of one image.
type ChannelHistograms struct {
	Red   *histogram.Histogram
	Green *histogram.Histogram
	Blue  *histogram.Histogram
}

func NewChannelHistograms(bucketCount int) (*ChannelHistograms, error) {
	red, err := histogram.New(bucketCount)
	if err != nil {
		return nil, err
	}
	green, err := histogram.New(bucketCount)
	if err != nil {
		return nil, err
	}
	blue, err := histogram.New(bucketCount)
	if err != nil {
		return nil, err
	}
	return &ChannelHistograms{Red: red, Green: green, Blue: blue}, nil
}

// Totals returns the red, green and blue sample counts.
func (c *ChannelHistograms) Totals() (red, green, blue uint64) {
	return c.Red.Total(), c.Green.Total(), c.Blue.Total()
}

// Consistent reports whether every channel counted exactly pixels samples.
func (c *ChannelHistograms) Consistent(pixels int) bool {
	r, g, b := c.Totals()
	return r == g && r == b && r == uint64(pixels)
}

// WriteTo writes the red, green and blue lines in that order.
func (c *ChannelHistograms) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, h := range []*histogram.Histogram{c.Red, c.Green, c.Blue} {
		n, err := h.WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
