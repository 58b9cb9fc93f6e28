package gravity

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Field is the gravitational dynamics of a fixed set of masses.
type Field struct {
	Masses    []float64
	G         float64
	Softening float64
	Workers   int
}

func NewField(masses []float64, G float64) *Field {
	return &Field{
		Masses:  append([]float64(nil), masses...),
		G:       G,
		Workers: 1,
	}
}

func (f *Field) options() Options {
	return Options{Softening: f.Softening, Workers: f.Workers}
}

func (f *Field) Accelerations(positions [][]float64) ([][]float64, error) {
	return ComputeAccelerationsWith(positions, f.Masses, f.G, f.options())
}

func (f *Field) DUDT(t float64, u dynamo.State) (dynamo.State, error) {
	return computeDUDT(u, f.Masses, f.G, f.options())
}

// Derivative returns f.DUDT as a dynamo.Derivative.
func (f *Field) Derivative() dynamo.Derivative {
	return f.DUDT
}

// Energy is the total kinetic plus Newtonian potential energy. The
// potential ignores softening, so it is only conserved for the exact law.
func (f *Field) Energy(u dynamo.State) float64 {
	n := len(f.Masses)
	positions, velocities, err := body.SplitState(u, n)
	if err != nil {
		return math.NaN()
	}

	ke, pe := 0.0, 0.0
	for i := 0; i < n; i++ {
		v := floats.Norm(velocities[i], 2)
		ke += 0.5 * f.Masses[i] * v * v

		for j := i + 1; j < n; j++ {
			r := floats.Distance(positions[j], positions[i], 2)
			pe -= f.G * f.Masses[i] * f.Masses[j] / r
		}
	}
	return ke + pe
}

// Momentum returns Σ m_i v_i.
func (f *Field) Momentum(u dynamo.State) []float64 {
	n := len(f.Masses)
	_, velocities, err := body.SplitState(u, n)
	if err != nil {
		return nil
	}
	p := make([]float64, len(velocities[0]))
	for i := 0; i < n; i++ {
		floats.AddScaled(p, f.Masses[i], velocities[i])
	}
	return p
}

// AngularMomentum returns Σ m_i r_i × v_i about the origin. In two
// dimensions the result has the single z component.
func (f *Field) AngularMomentum(u dynamo.State) []float64 {
	n := len(f.Masses)
	positions, velocities, err := body.SplitState(u, n)
	if err != nil {
		return nil
	}

	switch len(positions[0]) {
	case 2:
		L := 0.0
		for i := 0; i < n; i++ {
			r, v := positions[i], velocities[i]
			L += f.Masses[i] * (r[0]*v[1] - r[1]*v[0])
		}
		return []float64{L}
	case 3:
		L := make([]float64, 3)
		for i := 0; i < n; i++ {
			r, v, m := positions[i], velocities[i], f.Masses[i]
			L[0] += m * (r[1]*v[2] - r[2]*v[1])
			L[1] += m * (r[2]*v[0] - r[0]*v[2])
			L[2] += m * (r[0]*v[1] - r[1]*v[0])
		}
		return L
	}
	return nil
}

// MomentumScale is Σ m_i |v_i|, the natural yardstick for momentum drift
// when the total momentum itself is zero.
func (f *Field) MomentumScale(u dynamo.State) float64 {
	n := len(f.Masses)
	_, velocities, err := body.SplitState(u, n)
	if err != nil {
		return math.NaN()
	}
	s := 0.0
	for i := 0; i < n; i++ {
		s += f.Masses[i] * floats.Norm(velocities[i], 2)
	}
	return s
}
