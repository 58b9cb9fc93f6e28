package config

import (
	"math"
	"math/rand"
	"sort"
)

// Presets are built on demand so callers always receive a private copy.
var Presets = map[string]func() *Config{
	"two_body": func() *Config {
		return &Config{
			Name: "two_body", TEnd: 10.0, Steps: 5000, G: DefaultG, Integrator: "rk4",
			Masses:     []float64{1.0, 1.0},
			Positions:  [][]float64{{0.0, 0.0}, {1.0, 1.0}},
			Velocities: [][]float64{{1.0, 10.0}, {-1.0, 1.0}},
		}
	},
	"earth_sun": func() *Config {
		return &Config{
			Name: "earth_sun", TEnd: 1.0, Steps: 365, G: DefaultG, Integrator: "rk4",
			Masses:     []float64{1.0, 3e-6},
			Positions:  [][]float64{{0.0, 0.0}, {1.0, 0.0}},
			Velocities: [][]float64{{0.0, 0.0}, {0.0, 2 * math.Pi}},
		}
	},
	"three_body": func() *Config {
		return &Config{
			Name: "three_body", TEnd: 20.0, Steps: 20000, G: DefaultG, Integrator: "rk4",
			Masses:     []float64{1.0, 1.0, 1.0},
			Positions:  [][]float64{{-1, 0}, {1, 0}, {0, 0.1}},
			Velocities: [][]float64{{0.5, 0.3}, {-0.5, 0.3}, {0.0, -0.6}},
		}
	},
	// binary starts two unit masses at periapsis of a parabolic orbit.
	"binary": func() *Config {
		return &Config{
			Name: "binary", TEnd: 10.0, Steps: 1000, G: 1.0, Integrator: "rk4",
			Masses:     []float64{1.0, 1.0},
			Positions:  [][]float64{{0, 0}, {1, 0}},
			Velocities: [][]float64{{0, 1}, {0, -1}},
		}
	},
	// circular_binary is the bound counterpart of binary, run for one period.
	"circular_binary": func() *Config {
		v := math.Sqrt(0.5)
		return &Config{
			Name: "circular_binary", TEnd: math.Pi * math.Sqrt(2), Steps: 1000, G: 1.0, Integrator: "rk4",
			Masses:     []float64{1.0, 1.0},
			Positions:  [][]float64{{0, 0}, {1, 0}},
			Velocities: [][]float64{{0, v}, {0, -v}},
		}
	},
	"figure_eight": func() *Config {
		return &Config{
			Name: "figure_eight", TEnd: 6.32591398, Steps: 2000, G: 1.0, Integrator: "rk4",
			Masses: []float64{1.0, 1.0, 1.0},
			Positions: [][]float64{
				{0.97000436, -0.24308753},
				{-0.97000436, 0.24308753},
				{0, 0},
			},
			Velocities: [][]float64{
				{0.466203685, 0.43236573},
				{0.466203685, 0.43236573},
				{-0.93240737, -0.86473146},
			},
		}
	},
	"inner_solar_system": innerSolarSystem,
	"three_body_orbits": func() *Config {
		return &Config{
			Name: "three_body_orbits", TEnd: 4.0, Steps: 2 * 365 * 4, G: DefaultG, Integrator: "rk4",
			Masses:    []float64{1.0, 1.0, 1.0},
			Positions: [][]float64{{-1, 0, 0}, {1, 0, 0}, {0, 0, 0}},
			Velocities: [][]float64{
				{2 * math.Pi * 0.464445, 2 * math.Pi * 0.39606, 0},
				{2 * math.Pi * 0.464445, 2 * math.Pi * 0.39606, 0},
				{-2 * math.Pi * 0.92889, -2 * math.Pi * 0.79212, 0},
			},
		}
	},
	"random": func() *Config { return RandomCluster(20, 1, 3) },
}

func innerSolarSystem() *Config {
	axes := []float64{0, 0.39, 0.723, 1.0, 1.524}
	masses := []float64{1.0, 1.65e-7, 2.45e-6, 3.00e-6, 3.23e-7}

	positions := make([][]float64, len(axes))
	velocities := make([][]float64, len(axes))
	for i, a := range axes {
		positions[i] = []float64{a, 0, 0}
		velocities[i] = []float64{0, 0, 0}
		if a > 0 {
			velocities[i][1] = 2 * math.Pi / math.Sqrt(a)
		}
	}

	return &Config{
		Name: "inner_solar_system", TEnd: 2.0, Steps: 365 * 2, G: DefaultG, Integrator: "rk4",
		Masses: masses, Positions: positions, Velocities: velocities,
	}
}

// earthMassG is G in AU³ / (Earth mass · year²).
var earthMassG = 6.674e-11 * (6e24 * math.Pow(365*24*60*60, 2)) / math.Pow(1.496e11, 3)

// RandomCluster scatters n bodies with masses between one Earth mass and
// one solar mass (in Earth masses) and uniform positions and velocities.
// The force law is softened since close encounters are likely.
func RandomCluster(n int, seed int64, dim int) *Config {
	rng := rand.New(rand.NewSource(seed))

	cfg := &Config{
		Name: "random", TEnd: 10.0, Steps: 500, G: earthMassG, Softening: 0.1,
		Integrator: "rk4", Seed: seed,
		Masses:     make([]float64, n),
		Positions:  make([][]float64, n),
		Velocities: make([][]float64, n),
	}
	for i := 0; i < n; i++ {
		cfg.Masses[i] = (6e24 + rng.Float64()*(2e30-6e24)) / 6e24
		cfg.Positions[i] = make([]float64, dim)
		cfg.Velocities[i] = make([]float64, dim)
		for k := 0; k < dim; k++ {
			cfg.Positions[i][k] = rng.Float64()*14 - 7
		}
		for k := 0; k < dim; k++ {
			cfg.Velocities[i][k] = rng.Float64()*10 - 5
		}
	}
	return cfg
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
