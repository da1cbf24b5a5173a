package models

import (
	"fmt"
	"image"
	"time"

	"golang.org/x/image/draw"
)

// ImageData is a decoded image normalized to non-premultiplied 8-bit RGBA.
type ImageData struct {
	Path     string
	Format   string
	Width    int
	Height   int
	FileSize int64
	LoadTime time.Duration

	pix    []uint8
	stride int
}

// NewImageData copies img into an NRGBA buffer anchored at the origin.
// Images that are already NRGBA at the origin are used without copying.
func NewImageData(img image.Image, format string) (*ImageData, error) {
	if img == nil {
		return nil, fmt.Errorf("image is nil")
	}

	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}

	return NewImageDataFromPix(nrgba.Pix, nrgba.Stride, bounds.Dx(), bounds.Dy(), format)
}

// NewImageDataFromPix wraps an existing R,G,B,A interleaved buffer.
func NewImageDataFromPix(pix []uint8, stride, width, height int, format string) (*ImageData, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if width > 0 && height > 0 {
		if stride < width*4 {
			return nil, fmt.Errorf("stride %d too small for width %d", stride, width)
		}
		if need := (height-1)*stride + width*4; len(pix) < need {
			return nil, fmt.Errorf("pixel buffer holds %d bytes, %dx%d needs %d", len(pix), width, height, need)
		}
	}

	return &ImageData{
		Format: format,
		Width:  width,
		Height: height,
		pix:    pix,
		stride: stride,
	}, nil
}

// Pixels returns Width*Height.
func (d *ImageData) Pixels() int {
	return d.Width * d.Height
}

func (d *ImageData) PixelAt(index int) (r, g, b uint8) {
	y, x := index/d.Width, index%d.Width
	off := y*d.stride + x*4
	p := d.pix[off : off+3 : off+3]
	return p[0], p[1], p[2]
}

// Source exposes d as a histogram.PixelSource.
func (d *ImageData) Source() *PixelSource {
	return &PixelSource{data: d}
}

type PixelSource struct {
	data *ImageData
}

func (s *PixelSource) Width() int  { return s.data.Width }
func (s *PixelSource) Height() int { return s.data.Height }

func (s *PixelSource) PixelAt(index int) (uint8, uint8, uint8) {
	return s.data.PixelAt(index)
}
