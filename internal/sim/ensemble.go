package sim

import (
	"context"

	"github.com/san-kum/gravsim/internal/body"
	"golang.org/x/sync/errgroup"
)

// Job is one independent run. Each job needs its own System since the
// driving loop syncs bodies in place.
type Job struct {
	Name      string
	Simulator *Simulator
	System    *body.System
	Config    Config
}

// RunEnsemble runs jobs concurrently, at most limit at a time (no limit
// when limit <= 0). Results are aligned with jobs. Failures of individual
// runs are reported per job, never abort the others.
func RunEnsemble(ctx context.Context, jobs []Job, limit int) ([]*Result, []error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			results[i], errs[i] = job.Simulator.Run(ctx, job.System, job.Config)
			return nil
		})
	}
	_ = g.Wait()

	return results, errs
}
