package sim

import (
	"context"
	"fmt"
	"sync"

	"github.com/san-kum/airtime/internal/scene"
)

// Job is one independent run of an Ensemble. Build must return a fresh scene
// that shares no bodies with any other job.
type Job struct {
	Name    string
	Build   func() (scene.Scene, error)
	Metrics func(scene.Scene) []Metric
	Config  Config
}

type Ensemble struct {
	jobs []Job
}

func NewEnsemble(jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs}
}

// Run executes every job on its own goroutine and returns the results in job
// order. The first error, if any, is returned after all jobs finish.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))
	errs := make([]error, len(e.jobs))

	var wg sync.WaitGroup
	for i, job := range e.jobs {
		wg.Add(1)
		go func(idx int, job Job) {
			defer wg.Done()

			sc, err := job.Build()
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
				return
			}
			sim := New(sc)
			if job.Metrics != nil {
				for _, m := range job.Metrics(sc) {
					sim.AddMetric(m)
				}
			}
			results[idx], err = sim.Run(ctx, job.Config)
			if err != nil {
				errs[idx] = fmt.Errorf("%s: %w", job.Name, err)
			}
		}(i, job)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
