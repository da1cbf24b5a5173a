package config

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// countCores is replaced in tests.
var countCores = func() (int, error) {
	return cpu.Counts(true)
}

// DetectCores returns the number of logical CPUs. ok is false when no
// count could be determined and 1 is returned.
func DetectCores() (n int, ok bool) {
	if n, err := countCores(); err == nil && n > 0 {
		return n, true
	}
	if n := runtime.NumCPU(); n > 0 {
		return n, true
	}
	return 1, false
}

// ResolveThreads returns c.Threads, or the detected core count when it is 0.
func (c Config) ResolveThreads() (threads int, detected bool) {
	if c.Threads > 0 {
		return c.Threads, false
	}
	n, ok := DetectCores()
	return n, ok
}
