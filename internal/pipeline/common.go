package pipeline

import (
	"errors"

	"histogram-tool/internal/models"
)

var (
	ErrImageLoad   = errors.New("unable to load image")
	ErrOutputWrite = errors.New("unable to write histograms")
)

// Common interfaces used across pipeline components
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Info(component string, message string, fields map[string]interface{})
	Warning(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// ImageLoader decodes an image file into a pixel buffer.
type ImageLoader interface {
	LoadFromPath(path string) (*models.ImageData, error)
}
