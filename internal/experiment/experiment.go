// Package experiment assembles a runnable simulation from a configuration.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	field     *gravity.Field
	system    *body.System
	simulator *sim.Simulator
}

// New validates cfg and wires the field, integrator and default metrics.
// The experiment keeps its own copy of cfg.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	sys, err := cfg.System()
	if err != nil {
		return nil, err
	}

	field := gravity.NewField(cfg.Masses, cfg.G)
	field.Softening = cfg.Softening
	if cfg.Workers > 0 {
		field.Workers = cfg.Workers
	}

	integ, err := integrators.Lookup(cfg.Integrator, cfg.Dim())
	if err != nil {
		return nil, err
	}

	e := &Experiment{
		cfg:       cfg,
		field:     field,
		system:    sys,
		simulator: sim.New(field.Derivative(), integ),
	}
	for _, m := range DefaultMetrics(field) {
		e.simulator.AddMetric(m)
	}
	return e, nil
}

// DefaultMetrics are recorded for every run.
func DefaultMetrics(field *gravity.Field) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(field),
		metrics.NewEnergyDrift(field),
		metrics.NewMomentumDrift(field),
		metrics.NewAngularMomentumDrift(field),
		metrics.NewMinSeparation(len(field.Masses)),
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.system, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		TStart:        e.cfg.TStart,
		Dt:            e.cfg.Dt(),
		Steps:         e.cfg.Steps,
		ValidateState: true,
	}
}

func (e *Experiment) Config() *config.Config { return e.cfg }
func (e *Experiment) Field() *gravity.Field   { return e.field }
func (e *Experiment) System() *body.System    { return e.system }

func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Job adapts the experiment for sim.RunEnsemble.
func (e *Experiment) Job() sim.Job {
	return sim.Job{
		Name:      e.cfg.Name + "/" + e.cfg.Integrator,
		Simulator: e.simulator,
		System:    e.system,
		Config:    e.SimConfig(),
	}
}
