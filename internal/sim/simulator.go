// Package sim drives a system forward in time and records its trajectory.
package sim

import (
	"context"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
)

type Config struct {
	TStart        float64
	Dt            float64
	Steps         int
	ValidateState bool
}

func (c Config) validate() error {
	if !(c.Dt > 0) {
		return dynamo.Invalid("dt", "must be positive, got %g", c.Dt)
	}
	if c.Steps <= 0 {
		return dynamo.Invalid("steps", "must be positive, got %d", c.Steps)
	}
	return nil
}

type Result struct {
	Trajectory *Trajectory
	Final      dynamo.State
	StepsTaken int
	Metrics    map[string]float64
}

type Simulator struct {
	deriv      dynamo.Derivative
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(deriv dynamo.Derivative, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		deriv:      deriv,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) Integrator() dynamo.Integrator { return s.integrator }

// Run advances sys for cfg.Steps fixed steps, syncing the bodies after each
// one. A failed step is wrapped in a SimulationError and contributes no
// trajectory entry; the result up to the last good step is still returned.
func (s *Simulator) Run(ctx context.Context, sys *body.System, cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	u := body.BodiesToVector(sys)
	result := &Result{
		Trajectory: NewTrajectory(sys.Len(), sys.Dim(), cfg.Steps+1),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := cfg.TStart
	s.record(result, 0, u, t)

	var runErr error
	for step := 1; step <= cfg.Steps; step++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		next, err := s.integrator.Step(s.deriv, t, u, cfg.Dt)
		if err == nil && cfg.ValidateState && !next.IsValid() {
			err = dynamo.ErrInvalidState
		}
		if err != nil {
			runErr = &dynamo.SimulationError{Step: step, Time: t, Wrapped: err}
			break
		}

		u = next
		t = cfg.TStart + float64(step)*cfg.Dt
		if err := sys.Sync(u); err != nil {
			runErr = err
			break
		}

		result.StepsTaken++
		s.record(result, step, u, t)
	}

	result.Final = u
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

func (s *Simulator) record(result *Result, step int, u dynamo.State, t float64) {
	result.Trajectory.Append(t, u)
	for _, m := range s.metrics {
		m.Observe(u, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, u, t)
	}
}
