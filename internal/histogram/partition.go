package histogram

import "github.com/zeebo/errs/v2"

// Partition is an inclusive range of linear pixel indices. A partition
// with Last < First covers no pixels.
type Partition struct {
	First int
	Last  int
}

func (p Partition) Empty() bool {
	return p.Last < p.First
}

func (p Partition) Len() int {
	if p.Empty() {
		return 0
	}
	return p.Last - p.First + 1
}

// Plan splits [0, numPixels) into threadCount contiguous ranges of
// numPixels/threadCount pixels each. The last range absorbs the remainder.
// When there are more threads than pixels every range but the last is
// empty, and no range reaches outside [0, numPixels).
func Plan(numPixels, threadCount int) ([]Partition, error) {
	if threadCount <= 0 {
		return nil, errs.Errorf("thread count must be positive, got %d: %w", threadCount, ErrInvalidArgument)
	}
	if numPixels < 0 {
		return nil, errs.Errorf("pixel count must not be negative, got %d: %w", numPixels, ErrInvalidArgument)
	}

	blockSize := numPixels / threadCount
	parts := make([]Partition, threadCount)
	for i := range parts {
		first := i * blockSize
		last := first + blockSize - 1
		if i == threadCount-1 {
			last = numPixels - 1
		}
		if last >= numPixels {
			last = numPixels - 1
		}
		parts[i] = Partition{First: first, Last: last}
	}
	return parts, nil
}
