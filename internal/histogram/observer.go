package histogram

import "time"

// Logger is the subset of the application logger the tool writes to.
type Logger interface {
	Debug(component string, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Observer receives timing for each finished partition and for each
// Compute call. PartitionDone is called from worker goroutines.
type Observer interface {
	PartitionDone(worker int, p Partition, elapsed time.Duration)
	ComputeDone(pixels, workers int, elapsed time.Duration, err error)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Error(string, error, map[string]interface{})  {}

type nopObserver struct{}

func (nopObserver) PartitionDone(int, Partition, time.Duration) {}
func (nopObserver) ComputeDone(int, int, time.Duration, error)  {}
