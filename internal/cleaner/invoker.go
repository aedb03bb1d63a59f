package cleaner

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// Runner spawns an external command in a working directory.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) InvocationResult
}

// InvocationResult captures the result of running the build tool
type InvocationResult struct {
	Output   string        // Combined stdout and stderr
	ExitCode int           // Process exit status, -1 if it never ran
	Duration time.Duration // Wall time
	Error    error         // Spawn failure; nil when the process ran (even if it failed)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args in dir and waits for it to exit.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) InvocationResult {
	startTime := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()

	result := InvocationResult{
		Output:   string(output),
		Duration: time.Since(startTime),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Error = err
		}
	}

	return result
}
