package pipeline

import (
	"bufio"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"histogram-tool/internal/models"
)

// StdlibLoader decodes with the image package registry: PNG, JPEG, GIF,
// BMP, TIFF and WebP.
type StdlibLoader struct {
	logger Logger
}

func NewStdlibLoader(logger Logger) *StdlibLoader {
	return &StdlibLoader{logger: logger}
}

func (l *StdlibLoader) LoadFromPath(path string) (*models.ImageData, error) {
	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path": path,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	data, err := l.LoadFromReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	data.Path = path
	data.FileSize = size
	return data, nil
}

func (l *StdlibLoader) LoadFromReader(reader io.Reader) (*models.ImageData, error) {
	start := time.Now()

	img, format, err := image.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %w", ErrImageLoad, err)
	}

	data, err := models.NewImageData(img, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImageLoad, err)
	}
	data.LoadTime = time.Since(start)

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":   data.Width,
		"height":  data.Height,
		"format":  format,
		"load_ms": data.LoadTime.Milliseconds(),
	})

	return data, nil
}
