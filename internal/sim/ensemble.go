package sim

import (
	"context"
	"sync"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Job is one headless run of an ensemble. Engines and metrics must not be
// shared between jobs.
type Job struct {
	Engine  *Engine
	Config  RunConfig
	Metrics []dynamo.Metric
}

type Ensemble struct {
	jobs []Job
}

func NewEnsemble(jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs}
}

// Run executes every job on its own goroutine. Results keep the job order;
// the first error in that order is returned.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i, job := range e.jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()
			results[idx], errs[idx] = job.Engine.Run(ctx, job.Config, job.Metrics)
		}(i, job)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
