package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner merges several targets in parallel. Targets share no state, so each
// runs in its own goroutine; the first failure cancels the remaining ones.
type Runner struct {
	merger     *Merger
	jobs       int
	onProgress func(ProgressEvent)
}

// NewRunner creates a Runner. jobs bounds the number of concurrent merges;
// zero or less means unbounded. onProgress is called from the merging
// goroutines and may be nil.
func NewRunner(merger *Merger, jobs int, onProgress func(ProgressEvent)) *Runner {
	return &Runner{
		merger:     merger,
		jobs:       jobs,
		onProgress: onProgress,
	}
}

// Run validates every target, then merges them. A validation failure aborts
// the run before any file is written. Reports are returned in target order;
// slots of targets that failed or were canceled are nil.
func (r *Runner) Run(ctx context.Context, targets []Target) ([]*Report, error) {
	for _, t := range targets {
		if _, err := Validate(t); err != nil {
			return nil, err
		}
	}

	reports := make([]*Report, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	if r.jobs > 0 {
		g.SetLimit(r.jobs)
	}

	for _, t := range targets {
		r.emit(ProgressEvent{Target: t.DisplayName(), Status: ProgressPending})
	}
	for i, t := range targets {
		g.Go(func() error {
			name := t.DisplayName()
			if err := gctx.Err(); err != nil {
				return err
			}
			r.emit(ProgressEvent{Target: name, Status: ProgressWorking})

			report, err := r.merger.Merge(gctx, t)
			if err != nil {
				r.emit(ProgressEvent{Target: name, Status: ProgressFailed, Message: err.Error()})
				return err
			}
			reports[i] = report
			r.emit(ProgressEvent{Target: name, Status: ProgressComplete, Message: FormatSummary(report)})
			return nil
		})
	}

	err := g.Wait()
	return reports, err
}

// emit sends a progress event if a callback is registered.
func (r *Runner) emit(ev ProgressEvent) {
	if r.onProgress != nil {
		r.onProgress(ev)
	}
}
