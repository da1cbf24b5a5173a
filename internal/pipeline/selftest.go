package pipeline

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"histogram-tool/internal/models"
)

// SelfTestReport compares each channel's sample count with the image's
// pixel count.
type SelfTestReport struct {
	Red    uint64
	Green  uint64
	Blue   uint64
	Pixels int
	Passed bool
}

func RunSelfTest(img *models.ImageData, hist *models.ChannelHistograms) SelfTestReport {
	r, g, b := hist.Totals()
	return SelfTestReport{
		Red:    r,
		Green:  g,
		Blue:   b,
		Pixels: img.Pixels(),
		Passed: hist.Consistent(img.Pixels()),
	}
}

func (r SelfTestReport) WriteTo(w io.Writer) (int64, error) {
	verdict := "PASSED"
	if !r.Passed {
		verdict = "** FAILED **"
	}
	n, err := fmt.Fprintf(w, "   Red samples : %s\n Green samples : %s\n  Blue samples : %s\n  Image Pixels : %s\n%s\n",
		humanize.Comma(int64(r.Red)),
		humanize.Comma(int64(r.Green)),
		humanize.Comma(int64(r.Blue)),
		humanize.Comma(int64(r.Pixels)),
		verdict)
	return int64(n), err
}
