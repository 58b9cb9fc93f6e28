// Package automation runs scripted batches and randomized trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

// Scenario is a list of runs read from YAML.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`

	dir string
}

// ScenarioRun names a preset or a config file plus optional overrides.
type ScenarioRun struct {
	Preset     string  `yaml:"preset"`
	Config     string  `yaml:"config"`
	Integrator string  `yaml:"integrator"`
	Steps      int     `yaml:"steps"`
	TEnd       float64 `yaml:"t_end"`
	Softening  float64 `yaml:"softening"`
	Workers    int     `yaml:"workers"`
	SaveAs     string  `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file. Config paths inside it
// are relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	scenario.dir = filepath.Dir(path)

	return &scenario, nil
}

// Build resolves the run into a validated configuration.
func (r ScenarioRun) Build(dir string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case r.Config != "":
		path := r.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case r.Preset != "":
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", r.Preset)
		}
	default:
		return nil, dynamo.Invalid("preset", "run needs a preset or a config file")
	}

	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}
	if r.Steps > 0 {
		cfg.Steps = r.Steps
	}
	if r.TEnd != 0 {
		cfg.TEnd = r.TEnd
	}
	if r.Softening != 0 {
		cfg.Softening = r.Softening
	}
	if r.Workers > 0 {
		cfg.Workers = r.Workers
	}
	if r.SaveAs != "" {
		cfg.Name = r.SaveAs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Outcome is one executed scenario run. Err holds a halted simulation;
// RunID is empty when nothing was stored.
type Outcome struct {
	Name   string
	RunID  string
	Result *sim.Result
	Err    error
}

// RunScenario executes every run in order and stores it when st is not
// nil. A run halted by a collision is recorded and the batch continues;
// a run that cannot be built stops the batch.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log *slog.Logger) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		cfg, err := run.Build(scenario.dir)
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return outcomes, fmt.Errorf("run %d setup: %w", i+1, err)
		}

		log.Info("scenario run", "index", i+1, "of", len(scenario.Runs), "name", cfg.Name, "integrator", cfg.Integrator)
		result, runErr := exp.Run(ctx)
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			return outcomes, runErr
		}

		out := Outcome{Name: cfg.Name, Result: result, Err: runErr}
		if st != nil {
			out.RunID, err = st.Save(cfg, storage.NewMetadata(cfg, result, runErr), result.Trajectory)
			if err != nil {
				return outcomes, fmt.Errorf("run %d save: %w", i+1, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

// MonteCarloConfig perturbs the velocities of a base configuration.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Radius       float64
	Parallel     int
	Seed         int64
}

// MonteCarloResult holds the outcome of one perturbed trial.
type MonteCarloResult struct {
	TrialID     int
	Velocities  [][]float64
	Bounded     bool
	Collided    bool
	EnergyDrift float64
}

// RunMonteCarlo runs NumTrials perturbed copies of Base concurrently. A
// trial is bounded when no body ever left Radius.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, dynamo.Invalid("trials", "must be positive, got %d", cfg.NumTrials)
	}
	if !(cfg.Radius > 0) {
		return nil, dynamo.Invalid("radius", "must be positive, got %g", cfg.Radius)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	jobs := make([]sim.Job, cfg.NumTrials)
	trials := make([]*config.Config, cfg.NumTrials)

	for trial := range jobs {
		c := cfg.Base.Clone()
		for _, v := range c.Velocities {
			for k := range v {
				v[k] += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			}
		}

		exp, err := experiment.New(c)
		if err != nil {
			return nil, fmt.Errorf("trial %d: %w", trial, err)
		}
		exp.Simulator().AddMetric(metrics.NewEscape(len(c.Masses), cfg.Radius))

		trials[trial] = c
		jobs[trial] = exp.Job()
	}

	results, errs := sim.RunEnsemble(ctx, jobs, cfg.Parallel)

	out := make([]MonteCarloResult, cfg.NumTrials)
	for trial := range out {
		if errs[trial] != nil && !errors.Is(errs[trial], dynamo.ErrCollision) {
			return nil, fmt.Errorf("trial %d: %w", trial, errs[trial])
		}
		res := results[trial]
		out[trial] = MonteCarloResult{
			TrialID:     trial,
			Velocities:  trials[trial].Velocities,
			Bounded:     res.Metrics["bounded"] == 1.0,
			Collided:    errs[trial] != nil,
			EnergyDrift: res.Metrics["energy_drift"],
		}
	}
	return out, nil
}

// MonteCarloStats counts bounded, escaped and collided trials.
func MonteCarloStats(results []MonteCarloResult) (bounded, escaped, collided int) {
	for _, r := range results {
		switch {
		case r.Collided:
			collided++
		case r.Bounded:
			bounded++
		default:
			escaped++
		}
	}
	return
}
