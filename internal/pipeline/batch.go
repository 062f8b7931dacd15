package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/command-schema/discover/internal/schema"
)

// adaptiveWorkerCap bounds concurrency once a batch grows past
// largeBatchThreshold commands, per §5: unbounded worker counts on a
// batch of thousands of commands starve the host's own scheduler, so
// the pool is capped even on machines with many cores.
const (
	largeBatchThreshold = 500
	adaptiveWorkerCap   = 8
)

// cancelGracePeriod is how long ExtractBatch waits, once every worker
// has returned from a cancelled batch, before it assembles the bundle.
const cancelGracePeriod = 200 * time.Millisecond

// BatchResult is the outcome of running ExtractBatch.
type BatchResult struct {
	Bundle  *schema.ReportBundle
	Schemas map[string]*schema.CommandSchema
	Err     error
}

// ExtractBatch runs ExtractLive for every command in commands across a
// worker pool of Options.Jobs workers (runtime.NumCPU() when Jobs is not
// positive), adaptively capped per §5 once
// the batch is large. Workers share e's Extractor fields (Policy,
// Cache, etc.) but each runs its own probe, so the pool is safe even
// though Extractor itself holds no mutable per-call state.
func (e *Extractor) ExtractBatch(ctx context.Context, commands []string, version string) *BatchResult {
	logger := e.Options.Logger

	workers := e.Options.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}
	if len(commands) > largeBatchThreshold && workers > adaptiveWorkerCap {
		workers = adaptiveWorkerCap
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.SetLimit(workers)

	var (
		mu       sync.Mutex
		reports  []schema.ExtractionReport
		failures []string
		errs     *multierror.Error
		schemas  = make(map[string]*schema.CommandSchema)
	)

	for _, command := range sortedCommandNames(commands) {
		command := command
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					errs = multierror.Append(errs, fmt.Errorf("%s: panic: %v", command, r))
					mu.Unlock()
				}
			}()
			s, report := e.ExtractLive(groupCtx, command)
			mu.Lock()
			defer mu.Unlock()
			if report != nil {
				reports = append(reports, *report)
				if !report.Success {
					failures = append(failures, command)
				}
			}
			if s != nil {
				schemas[command] = s
			}
			return nil
		})
	}

	waitErr := group.Wait()
	if waitErr != nil {
		errs = multierror.Append(errs, waitErr)
	}

	if groupCtx.Err() != nil && ctx.Err() != nil {
		// The parent context was cancelled. Every worker has returned by
		// now, and probe subprocesses were killed as soon as their
		// context ended, with no termination signal first; wait out the
		// grace period before the bundle is assembled from whatever landed.
		time.Sleep(cancelGracePeriod)
	}

	bundle := schema.NewReportBundle(version, time.Now().UTC().Format(time.RFC3339))
	bundle.Reports = reports
	bundle.Failures = failures
	bundle.Sort()

	logger.Info("batch extraction complete",
		zap.Int("commands", len(commands)),
		zap.Int("workers", workers),
		zap.Int("failures", len(failures)),
	)

	var err error
	if errs != nil {
		err = errs.ErrorOrNil()
	}

	return &BatchResult{Bundle: bundle, Schemas: schemas, Err: err}
}

// sortedCommandNames gives ExtractBatch a deterministic dispatch order
// regardless of how callers assembled the command list (allowlist file,
// --commands flag, PATH scan), so two runs over the same set submit work
// to the pool in the same order even though results still land
// concurrently.
func sortedCommandNames(commands []string) []string {
	out := append([]string{}, commands...)
	sort.Strings(out)
	return out
}
