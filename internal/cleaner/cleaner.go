// Package cleaner invokes the build tool's clean subcommand on a project
// directory and turns the exit status into a models.CleanResult.
package cleaner

import (
	"context"
	"fmt"
	"strings"

	"github.com/harrison/rclean/internal/models"
)

// CleanFailure describes a clean invocation that exited non-zero or could not
// be started.
type CleanFailure struct {
	Path     string
	ExitCode int
	Output   string // last non-empty output line
	Err      error  // spawn error
}

func (e *CleanFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to run clean in %s: %v", e.Path, e.Err)
	}
	if e.Output != "" {
		return fmt.Sprintf("clean exited with status %d: %s", e.ExitCode, e.Output)
	}
	return fmt.Sprintf("clean exited with status %d", e.ExitCode)
}

func (e *CleanFailure) Unwrap() error {
	return e.Err
}

// Cleaner runs the clean action for one project at a time. It holds no
// mutable state and is safe to share between workers.
type Cleaner struct {
	cfg    *models.RunConfig
	runner Runner
}

// New creates a Cleaner. A nil runner uses ExecRunner.
func New(cfg *models.RunConfig, runner Runner) *Cleaner {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Cleaner{cfg: cfg, runner: runner}
}

// BuildArgs returns the clean subcommand arguments for the configured mode.
func (c *Cleaner) BuildArgs() []string {
	args := []string{"clean"}
	if c.cfg.Release() {
		args = append(args, "--release")
	}
	if c.cfg.Doc() {
		args = append(args, "--doc")
	}
	return args
}

// Command renders the invocation for display.
func (c *Cleaner) Command() string {
	return c.cfg.Tool() + " " + strings.Join(c.BuildArgs(), " ")
}

// Clean runs the clean subcommand inside path. Failures are reported in the
// result, never returned, so one broken project cannot stop the run. In dry
// run nothing is spawned.
func (c *Cleaner) Clean(ctx context.Context, path string) models.CleanResult {
	if c.cfg.DryRun() {
		return models.CleanResult{Path: path, Skipped: true}
	}

	inv := c.runner.Run(ctx, path, c.cfg.Tool(), c.BuildArgs()...)

	result := models.CleanResult{
		Path:     path,
		Duration: inv.Duration,
	}
	if inv.Error == nil && inv.ExitCode == 0 {
		result.Success = true
		return result
	}

	failure := &CleanFailure{
		Path:     path,
		ExitCode: inv.ExitCode,
		Output:   lastLine(inv.Output),
		Err:      inv.Error,
	}
	result.Message = failure.Error()
	return result
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
