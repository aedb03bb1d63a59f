// Package executor drives a run: it walks the root, hands each candidate to
// the selector and dispatches selected projects to a bounded worker pool.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/rclean/internal/models"
	"github.com/harrison/rclean/internal/selector"
	"github.com/harrison/rclean/internal/walker"
)

// Logger defines what the orchestrator reports to.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogResult(result models.CleanResult) error
	LogSummary(summary models.RunSummary)
}

// Orchestrator coordinates one clean run.
type Orchestrator struct {
	cfg           *models.RunConfig
	filter        *walker.Filter
	selector      *selector.Selector
	cleaner       Cleaner
	logger        Logger
	workers       int
	runID         string
	handleSignals bool
	freeSpace     func(path string) (uint64, error)
}

// NewOrchestrator wires the walker, selector and cleaner for cfg. The same
// filter prunes the walk and screens the selector's children.
func NewOrchestrator(cfg *models.RunConfig, filter *walker.Filter, cleaner Cleaner, logger Logger) *Orchestrator {
	if cleaner == nil {
		panic("cleaner cannot be nil")
	}
	if filter == nil {
		filter = walker.DefaultFilter()
	}
	return &Orchestrator{
		cfg:           cfg,
		filter:        filter,
		selector:      selector.New(cfg, filter),
		cleaner:       cleaner,
		logger:        logger,
		workers:       ResolveWorkers(cfg.Jobs()),
		runID:         uuid.NewString(),
		handleSignals: true,
		freeSpace:     freeSpace,
	}
}

// RunID returns the unique id of this run.
func (o *Orchestrator) RunID() string {
	return o.runID
}

// SetLogger replaces the logger. Loggers that need the run id are built
// after the orchestrator.
func (o *Orchestrator) SetLogger(logger Logger) {
	o.logger = logger
}

// Workers returns the worker count the run will use.
func (o *Orchestrator) Workers() int {
	return o.workers
}

// Run scans the root and cleans every selected project. Per-directory
// problems are reported, never returned. Cancelling ctx (or SIGINT/SIGTERM)
// stops new cleans while running ones finish; the summary is still returned
// along with an error wrapping ErrAborted.
func (o *Orchestrator) Run(ctx context.Context) (*models.RunSummary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if o.handleSignals {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		go func() {
			select {
			case <-sigChan:
				GracefulWarn(o.logger, "Received interrupt signal, waiting for running cleans to finish...")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	startTime := time.Now()
	summary := &models.RunSummary{RunID: o.runID, Root: o.cfg.Root()}
	var mu sync.Mutex

	freeBefore, spaceErr := o.freeSpace(o.cfg.Root())

	pool := NewPool(o.cleaner, o.workers, func(result models.CleanResult) {
		if o.logger != nil {
			// a failed write must not stop the run
			_ = o.logger.LogResult(result)
		}
		mu.Lock()
		summary.Record(result)
		mu.Unlock()
	})
	pool.Start(ctx)

	if o.cfg.DryRun() {
		GracefulInfo(o.logger, "Dry run: selected projects are listed, nothing is cleaned")
	}
	GracefulDebug(o.logger, fmt.Sprintf("Run %s: scanning %s with %d worker(s)", o.runID, o.cfg.Root(), o.workers))

	listingFailed := make(map[string]bool)
	notDispatched := 0

	for entry, err := range walker.Walk(o.cfg.Root(), o.filter) {
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			var terr *walker.TraversalError
			if errors.As(err, &terr) && listingFailed[terr.Path] {
				// already reported when the selector tried to list it
				continue
			}
			o.warn(summary, &mu, err.Error())
			continue
		}

		mu.Lock()
		summary.Candidates++
		mu.Unlock()

		projects, err := o.selector.Select(entry)
		if err != nil {
			listingFailed[entry.Path] = true
			o.warn(summary, &mu, err.Error())
			continue
		}

		for _, project := range projects {
			mu.Lock()
			summary.Selected++
			mu.Unlock()

			GracefulDebug(o.logger, "Selected "+project)
			if !pool.Submit(ctx, project) {
				notDispatched++
			}
		}
	}

	pool.Wait()

	mu.Lock()
	defer mu.Unlock()

	summary.NotDispatched = notDispatched + pool.Dropped()
	summary.Aborted = ctx.Err() != nil
	summary.Duration = time.Since(startTime)

	if spaceErr == nil && !o.cfg.DryRun() {
		if freeAfter, err := o.freeSpace(o.cfg.Root()); err == nil && freeAfter > freeBefore {
			summary.ReclaimedBytes = freeAfter - freeBefore
		}
	}

	if o.logger != nil {
		o.logger.LogSummary(*summary)
	}

	if summary.Aborted {
		return summary, fmt.Errorf("%w: %d project(s) not cleaned", ErrAborted, summary.NotDispatched)
	}
	return summary, nil
}

// ErrAborted is returned by Run when dispatch was stopped early.
var ErrAborted = errors.New("run aborted")

func (o *Orchestrator) warn(summary *models.RunSummary, mu *sync.Mutex, message string) {
	mu.Lock()
	summary.Warnings++
	mu.Unlock()
	GracefulWarn(o.logger, message)
}
