package models

import "time"

// Clean outcome labels used by reporters
const (
	StatusOK      = "OK"      // Clean tool exited zero
	StatusError   = "Error"   // Clean tool exited non-zero or failed to spawn
	StatusSkipped = "Skipped" // Dry run, or dispatch stopped before the clean started
)

// CleanResult is the outcome of one clean attempt. It is handed straight to
// the reporter and never stored.
type CleanResult struct {
	Path     string        // Project directory
	Success  bool          // True iff the tool exited with status zero
	Skipped  bool          // Nothing was spawned (dry run)
	Message  string        // Failure detail, empty on success
	Duration time.Duration // Wall time of the tool invocation
}

// Status returns the reporter label for the result.
func (r CleanResult) Status() string {
	switch {
	case r.Skipped:
		return StatusSkipped
	case r.Success:
		return StatusOK
	default:
		return StatusError
	}
}

// RunSummary aggregates a whole run
type RunSummary struct {
	RunID          string        // Unique id of this run
	Root           string        // Scanned root
	Candidates     int           // Directories that survived the traversal filter
	Selected       int           // Projects selected for cleaning
	Cleaned        int           // Clean actions that succeeded
	Failed         int           // Clean actions that failed
	Skipped        int           // Projects listed in dry run
	NotDispatched  int           // Projects found after an abort
	Warnings       int           // Traversal and listing errors
	ReclaimedBytes uint64        // Best-effort free space gained on the root's volume
	Duration       time.Duration // Total run time
	Aborted        bool          // Dispatch stopped by the user
}

// Record folds one result into the summary counters.
func (s *RunSummary) Record(r CleanResult) {
	switch r.Status() {
	case StatusSkipped:
		s.Skipped++
	case StatusOK:
		s.Cleaned++
	default:
		s.Failed++
	}
}
