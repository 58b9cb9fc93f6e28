package dynamo

import (
	"math"
)

// State is the flat state vector. Per body it holds the position
// components followed by the velocity components, bodies concatenated
// in system order.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Sub panics with ErrDimensionMismatch unless both states have the same length.
func (s State) Sub(other State) State {
	if len(other) != len(s) {
		panic(ErrDimensionMismatch)
	}
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

// Derivative evaluates du/dt at (t, u). Extra physical parameters are
// captured by the closure, so any force law with this shape can drive
// the integrators.
type Derivative func(t float64, u State) (State, error)

type Integrator interface {
	Name() string
	Step(f Derivative, t float64, u State, dt float64) (State, error)
}

// Hamiltonian is implemented by dynamics that can report a conserved energy.
type Hamiltonian interface {
	Energy(u State) float64
}

type Metric interface {
	Name() string
	Observe(u State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, u State, t float64)
}
