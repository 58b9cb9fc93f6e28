package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultG is the gravitational constant in AU³ / (solar mass · year²).
	DefaultG          = 4 * math.Pi * math.Pi
	DefaultIntegrator = "rk4"
	DefaultSteps      = 1000
)

// Config holds the initial conditions and numerical parameters of one run.
type Config struct {
	Name       string      `yaml:"name" toml:"name"`
	TStart     float64     `yaml:"t_start" toml:"t_start"`
	TEnd       float64     `yaml:"t_end" toml:"t_end"`
	Steps      int         `yaml:"steps" toml:"steps"`
	G          float64     `yaml:"g" toml:"g"`
	Softening  float64     `yaml:"softening,omitempty" toml:"softening,omitempty"`
	Integrator string      `yaml:"integrator" toml:"integrator"`
	Workers    int         `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Seed       int64       `yaml:"seed,omitempty" toml:"seed,omitempty"`
	Masses     []float64   `yaml:"masses" toml:"masses"`
	Positions  [][]float64 `yaml:"positions" toml:"positions"`
	Velocities [][]float64 `yaml:"velocities" toml:"velocities"`
}

func DefaultConfig() *Config {
	return &Config{
		TEnd:       1.0,
		Steps:      DefaultSteps,
		G:          DefaultG,
		Integrator: DefaultIntegrator,
	}
}

// Load reads a YAML or TOML file, chosen by extension, over the defaults
// and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isTOML(path) {
		err = toml.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Name == "" {
		cfg.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	if isTOML(path) {
		data, err = toml.Marshal(cfg)
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Validate reports every violated invariant, joined.
func (c *Config) Validate() error {
	var errs []error
	n := len(c.Masses)

	if n == 0 {
		errs = append(errs, dynamo.Invalid("masses", "no bodies"))
	}
	if len(c.Positions) != n {
		errs = append(errs, dynamo.Invalid("positions", "%d entries for %d masses", len(c.Positions), n))
	}
	if len(c.Velocities) != n {
		errs = append(errs, dynamo.Invalid("velocities", "%d entries for %d masses", len(c.Velocities), n))
	}
	for i, m := range c.Masses {
		if !(m > 0) || math.IsInf(m, 0) {
			errs = append(errs, dynamo.Invalid("masses", "body %d: mass must be positive and finite, got %g", i, m))
		}
	}

	if len(c.Positions) > 0 {
		dim := len(c.Positions[0])
		if dim != 2 && dim != 3 {
			errs = append(errs, dynamo.Invalid("positions", "dimension must be 2 or 3, got %d", dim))
		}
		errs = append(errs, checkVectors("positions", c.Positions, dim)...)
		errs = append(errs, checkVectors("velocities", c.Velocities, dim)...)
	}

	if c.Steps <= 0 {
		errs = append(errs, dynamo.Invalid("steps", "must be positive, got %d", c.Steps))
	}
	if !(c.TEnd > c.TStart) {
		errs = append(errs, dynamo.Invalid("t_end", "must be after t_start (%g), got %g", c.TStart, c.TEnd))
	} else if c.Steps > 0 && !(c.Dt() > 0) {
		errs = append(errs, dynamo.Invalid("steps", "time step underflows for %d steps", c.Steps))
	}
	if !(c.G > 0) || math.IsInf(c.G, 0) {
		errs = append(errs, dynamo.Invalid("g", "must be positive and finite, got %g", c.G))
	}
	if !(c.Softening >= 0) || math.IsInf(c.Softening, 0) {
		errs = append(errs, dynamo.Invalid("softening", "must be non-negative and finite, got %g", c.Softening))
	}
	if c.Workers < 0 {
		errs = append(errs, dynamo.Invalid("workers", "must not be negative, got %d", c.Workers))
	}
	if !knownIntegrator(c.Integrator) {
		errs = append(errs, dynamo.Invalid("integrator", "unknown %q (available: %v)", c.Integrator, integrators.Names()))
	}

	return errors.Join(errs...)
}

func checkVectors(field string, vs [][]float64, dim int) []error {
	var errs []error
	for i, v := range vs {
		if len(v) != dim {
			errs = append(errs, dynamo.Invalid(field, "body %d has %d components, expected %d", i, len(v), dim))
			continue
		}
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				errs = append(errs, dynamo.Invalid(field, "body %d has a non-finite component", i))
				break
			}
		}
	}
	return errs
}

func knownIntegrator(name string) bool {
	for _, n := range integrators.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Dt is the fixed step (t_end - t_start) / steps.
func (c *Config) Dt() float64 {
	return (c.TEnd - c.TStart) / float64(c.Steps)
}

func (c *Config) Dim() int {
	if len(c.Positions) == 0 {
		return 0
	}
	return len(c.Positions[0])
}

// System builds the bodies described by c. The config must be valid.
func (c *Config) System() (*body.System, error) {
	bodies := make([]*body.Body, len(c.Masses))
	for i := range c.Masses {
		bodies[i] = body.New(c.Masses[i], c.Positions[i], c.Velocities[i])
	}
	return body.NewSystem(bodies)
}

// Clone returns a deep copy so presets can be tweaked without aliasing.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Masses = append([]float64(nil), c.Masses...)
	cp.Positions = cloneVectors(c.Positions)
	cp.Velocities = cloneVectors(c.Velocities)
	return &cp
}

func cloneVectors(vs [][]float64) [][]float64 {
	if vs == nil {
		return nil
	}
	out := make([][]float64, len(vs))
	for i, v := range vs {
		out[i] = append([]float64(nil), v...)
	}
	return out
}
