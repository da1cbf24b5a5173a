package histogram

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/zeebo/errs/v2"
)

const (
	// DefaultBucketCount gives one bucket per 8-bit channel value.
	DefaultBucketCount = 256

	// MaxBucketCount bounds a single allocation.
	MaxBucketCount = 1 << 24
)

// Histogram is a fixed-size array of counters. It is not safe for
// concurrent mutation; give each goroutine its own instance.
type Histogram struct {
	counts []uint32
}

// New creates a histogram with bucketCount zeroed buckets.
func New(bucketCount int) (*Histogram, error) {
	if bucketCount <= 0 {
		return nil, errs.Errorf("bucket count must be positive, got %d: %w", bucketCount, ErrInvalidArgument)
	}
	if bucketCount > MaxBucketCount {
		return nil, errs.Errorf("%d buckets requested, limit is %d: %w", bucketCount, MaxBucketCount, ErrAllocation)
	}

	return &Histogram{counts: make([]uint32, bucketCount)}, nil
}

// NewDefault creates a histogram with DefaultBucketCount buckets.
func NewDefault() *Histogram {
	return &Histogram{counts: make([]uint32, DefaultBucketCount)}
}

// Reset sets every counter to zero.
func (h *Histogram) Reset() {
	clear(h.counts)
}

func (h *Histogram) Increment(index int) error {
	if index < 0 || index >= len(h.counts) {
		return errs.Errorf("increment bucket %d of %d: %w", index, len(h.counts), ErrIndexOutOfRange)
	}
	h.counts[index]++
	return nil
}

// At returns the count stored in bucket index.
func (h *Histogram) At(index int) (uint32, error) {
	if index < 0 || index >= len(h.counts) {
		return 0, errs.Errorf("read bucket %d of %d: %w", index, len(h.counts), ErrIndexOutOfRange)
	}
	return h.counts[index], nil
}

// Total returns the sum of all counters.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h.counts {
		total += uint64(c)
	}
	return total
}

func (h *Histogram) BucketCount() int {
	return len(h.counts)
}

// Merge adds other's counts into h bucket by bucket.
func (h *Histogram) Merge(other *Histogram) error {
	if len(other.counts) != len(h.counts) {
		return errs.Errorf("merge %d buckets into %d: %w", len(other.counts), len(h.counts), ErrSizeMismatch)
	}
	for i, c := range other.counts {
		h.counts[i] += c
	}
	return nil
}

// Sum returns a new histogram holding a + b.
func Sum(a, b *Histogram) (*Histogram, error) {
	out := a.Clone()
	if err := out.Merge(b); err != nil {
		return nil, err
	}
	return out, nil
}

// Clone returns an independent deep copy.
func (h *Histogram) Clone() *Histogram {
	return &Histogram{counts: append([]uint32(nil), h.counts...)}
}

// CopyFrom replaces h's buckets with a copy of other's, resizing h if needed.
func (h *Histogram) CopyFrom(other *Histogram) {
	if h == other {
		return
	}
	if len(h.counts) != len(other.counts) {
		h.counts = make([]uint32, len(other.counts))
	}
	copy(h.counts, other.counts)
}

// Counts returns a copy of the bucket values in index order.
func (h *Histogram) Counts() []uint32 {
	return append([]uint32(nil), h.counts...)
}

func (h *Histogram) Equal(other *Histogram) bool {
	if len(h.counts) != len(other.counts) {
		return false
	}
	for i, c := range h.counts {
		if other.counts[i] != c {
			return false
		}
	}
	return true
}

// MarshalText renders the buckets as one comma-separated line ending in a newline.
func (h *Histogram) MarshalText() ([]byte, error) {
	buf := make([]byte, 0, len(h.counts)*4)
	for i, c := range h.counts {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(c), 10)
	}
	return append(buf, '\n'), nil
}

// UnmarshalText parses a line produced by MarshalText. Spaces after the
// separators are tolerated.
func (h *Histogram) UnmarshalText(text []byte) error {
	line := strings.TrimSpace(string(bytes.TrimRight(text, "\r\n")))
	if line == "" {
		return errs.Errorf("empty histogram line: %w", ErrInvalidArgument)
	}

	fields := strings.Split(line, ",")
	counts := make([]uint32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return errs.Errorf("bucket %d: %v: %w", i, err, ErrInvalidArgument)
		}
		counts[i] = uint32(v)
	}
	h.counts = counts
	return nil
}

// WriteTo writes the MarshalText form of h to w.
func (h *Histogram) WriteTo(w io.Writer) (int64, error) {
	line, _ := h.MarshalText()
	n, err := w.Write(line)
	return int64(n), err
}

func (h *Histogram) String() string {
	line, _ := h.MarshalText()
	return string(line)
}
