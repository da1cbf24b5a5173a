package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"histogram-tool/internal/models"
)

// HistogramSaver writes red, green and blue histograms as three
// comma-separated lines.
type HistogramSaver struct {
	logger Logger
	stdout io.Writer
}

func NewHistogramSaver(logger Logger, stdout io.Writer) *HistogramSaver {
	return &HistogramSaver{logger: logger, stdout: stdout}
}

// Save writes to path, or to standard output when path is empty.
func (s *HistogramSaver) Save(path string, hist *models.ChannelHistograms) error {
	if path == "" {
		return s.SaveToWriter(s.stdout, hist)
	}
	return s.SaveToPath(path, hist)
}

func (s *HistogramSaver) SaveToWriter(writer io.Writer, hist *models.ChannelHistograms) error {
	if hist == nil {
		return fmt.Errorf("%w: no histograms to save", ErrOutputWrite)
	}

	bw := bufio.NewWriter(writer)
	if _, err := hist.WriteTo(bw); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}

// SaveToPath creates path and writes the histograms to it. Paths ending in
// ".zst" are zstd-compressed.
func (s *HistogramSaver) SaveToPath(path string, hist *models.ChannelHistograms) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrOutputWrite, cerr)
		}
	}()

	compressed := strings.HasSuffix(strings.ToLower(path), ".zst")
	if !compressed {
		err = s.SaveToWriter(f, hist)
	} else {
		err = s.saveCompressed(f, hist)
	}
	if err != nil {
		s.logger.Error("HistogramSaver", err, map[string]interface{}{
			"path": path,
		})
		return err
	}

	s.logger.Info("HistogramSaver", "histograms saved", map[string]interface{}{
		"path":       path,
		"compressed": compressed,
	})
	return nil
}

func (s *HistogramSaver) saveCompressed(w io.Writer, hist *models.ChannelHistograms) error {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	if err := s.SaveToWriter(enc, hist); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputWrite, err)
	}
	return nil
}
