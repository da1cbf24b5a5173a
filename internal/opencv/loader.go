//go:build opencv

package opencv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocv.io/x/gocv"

	"histogram-tool/internal/models"
	"histogram-tool/internal/pipeline"
)

// Available reports whether this binary was built with OpenCV support.
const Available = true

// Loader decodes images with OpenCV's imread. It satisfies
// pipeline.ImageLoader.
type Loader struct {
	logger pipeline.Logger
}

func NewLoader(logger pipeline.Logger) (*Loader, error) {
	logger.Debug("OpenCVLoader", "opencv decoder enabled", map[string]interface{}{
		"opencv_version": gocv.OpenCVVersion(),
	})
	return &Loader{logger: logger}, nil
}

func (l *Loader) LoadFromPath(path string) (*models.ImageData, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrImageLoad, err)
	}

	bgr := gocv.IMRead(path, gocv.IMReadColor)
	defer bgr.Close()
	if err := validateMat(bgr, path); err != nil {
		return nil, err
	}

	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(bgr, &rgba, gocv.ColorBGRToRGBA)
	if rgba.Empty() {
		return nil, fmt.Errorf("%w: %s: conversion to RGBA failed", pipeline.ErrImageLoad, path)
	}

	cols, rows := rgba.Cols(), rgba.Rows()
	data, err := models.NewImageDataFromPix(rgba.ToBytes(), cols*4, cols, rows, formatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pipeline.ErrImageLoad, path, err)
	}
	data.Path = path
	data.FileSize = info.Size()
	data.LoadTime = time.Since(start)

	l.logger.Info("OpenCVLoader", "image loaded successfully", map[string]interface{}{
		"width":   data.Width,
		"height":  data.Height,
		"format":  data.Format,
		"load_ms": data.LoadTime.Milliseconds(),
	})
	return data, nil
}

func validateMat(mat gocv.Mat, path string) error {
	if mat.Empty() {
		return fmt.Errorf("%w: %s: opencv could not decode the file", pipeline.ErrImageLoad, path)
	}
	if mat.Rows() <= 0 || mat.Cols() <= 0 {
		return fmt.Errorf("%w: %s: invalid dimensions %dx%d", pipeline.ErrImageLoad, path, mat.Cols(), mat.Rows())
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return fmt.Errorf("%w: %s: unsupported mat type %d", pipeline.ErrImageLoad, path, int(mat.Type()))
	}
	return nil
}

func formatFromPath(path string) string {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".tif", ".tiff":
		return "tiff"
	case "":
		return "unknown"
	default:
		return strings.TrimPrefix(ext, ".")
	}
}
