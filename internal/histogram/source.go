package histogram

// PixelSource is a read-only decoded image. PixelAt must be safe to call
// from several goroutines at once for index in [0, Width()*Height()).
type PixelSource interface {
	Width() int
	Height() int
	PixelAt(index int) (r, g, b uint8)
}
