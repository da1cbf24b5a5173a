package histogram

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrIndexOutOfRange = errors.New("bucket index out of range")
	ErrAllocation      = errors.New("cannot allocate bucket storage")
	ErrCancelled       = errors.New("histogram computation cancelled")
)

// ErrSizeMismatch is returned when merging histograms with different
// bucket counts. It matches ErrInvalidArgument under errors.Is.
var ErrSizeMismatch = sizeMismatchError{}

type sizeMismatchError struct{}

func (sizeMismatchError) Error() string { return "histograms have different bucket counts" }

func (sizeMismatchError) Is(target error) bool { return target == ErrInvalidArgument }
