package executor

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
)

// AvailableParallelism returns the number of logical CPUs.
func AvailableParallelism() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// ResolveWorkers maps the configured job count to a worker count; 0 means one
// worker per logical CPU.
func ResolveWorkers(jobs int) int {
	if jobs > 0 {
		return jobs
	}
	return AvailableParallelism()
}

// freeSpace reports the free bytes on the volume holding path.
func freeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
