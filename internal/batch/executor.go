// Package batch runs many analysis requests against one dataset in parallel
package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"gothesis/domain/analysis"
	"gothesis/domain/core"
	"gothesis/domain/dataset"
	"gothesis/internal"
	"gothesis/internal/config"
	"gothesis/internal/engine"
)

// Job is one request in a batch file
type Job struct {
	Name      string   `yaml:"name" json:"name"`
	Kind      string   `yaml:"kind" json:"kind"`
	Variables []string `yaml:"variables" json:"variables"`
}

// Result pairs a job with its bundle or its error. Results keep the order of the jobs.
type Result struct {
	Job      Job              `json:"job"`
	RunID    core.RunID       `json:"run_id"`
	Bundle   *analysis.Bundle `json:"bundle,omitempty"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"duration_ns"`
}

// Executor fans jobs out over a bounded number of goroutines. Besides the goroutine
// limit, every job holds weight units of a shared semaphore while it runs.
type Executor struct {
	eng         *engine.Engine
	concurrency int
	capacity    int64
	sem         *semaphore.Weighted
	log         *internal.Logger
}

// NewExecutor creates an executor. Non-positive limits fall back to the defaults.
func NewExecutor(eng *engine.Engine, cfg config.BatchConfig, logger *internal.Logger) *Executor {
	def := config.Default().Batch
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = def.Capacity
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Executor{
		eng:         eng,
		concurrency: cfg.Concurrency,
		capacity:    cfg.Capacity,
		sem:         semaphore.NewWeighted(cfg.Capacity),
		log:         logger.With("batch"),
	}
}

// Weight is the semaphore cost of a job: its variable count, between 1 and capacity
func Weight(j Job, capacity int64) int64 {
	w := int64(len(j.Variables))
	if w < 1 {
		w = 1
	}
	if w > capacity {
		w = capacity
	}
	return w
}

// Run executes every job on its own snapshot of ds. A failing job records its error in
// its Result and does not stop the others. The returned error is non-nil only when ctx
// was cancelled.
func (x *Executor) Run(ctx context.Context, ds *dataset.Dataset, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.concurrency)

	x.log.Info("starting %d job(s) (concurrency %d, capacity %d)", len(jobs), x.concurrency, x.capacity)
	for i, job := range jobs {
		results[i] = Result{Job: job, RunID: core.NewRunID()}
		g.Go(func() error {
			results[i] = x.runOne(gctx, ds, results[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	x.log.Info("finished %d job(s), %d failed", len(jobs), failed)
	return results, ctx.Err()
}

func (x *Executor) runOne(ctx context.Context, ds *dataset.Dataset, r Result) Result {
	log := x.log.With(r.RunID.Short())
	w := Weight(r.Job, x.capacity)
	if err := x.sem.Acquire(ctx, w); err != nil {
		return r.fail(err)
	}
	defer x.sem.Release(w)

	log.Debug("job %q: %s on %v (weight %d)", r.Job.Name, r.Job.Kind, r.Job.Variables, w)
	start := time.Now()
	var snapshot *dataset.Dataset
	if ds != nil {
		snapshot = ds.Clone()
	}
	bundle, err := x.eng.WithLogger(log).RunNamed(ctx, snapshot, r.Job.Kind, r.Job.Variables)
	r.Duration = time.Since(start)
	if err != nil {
		log.Warn("job %q failed after %v: %v", r.Job.Name, r.Duration, err)
		return r.fail(err)
	}
	r.Bundle = bundle
	log.Debug("job %q done in %v", r.Job.Name, r.Duration)
	return r
}

func (r Result) fail(err error) Result {
	r.Err = err
	r.Error = err.Error()
	return r
}
