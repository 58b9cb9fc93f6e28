// Package body holds the point-mass data model and the pack/unpack pair
// between bodies and the flat state vector consumed by the integrators.
package body

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Body is a point mass. Position and Velocity share the same dimension.
type Body struct {
	Mass     float64
	Position []float64
	Velocity []float64
}

func New(mass float64, position, velocity []float64) *Body {
	return &Body{
		Mass:     mass,
		Position: append([]float64(nil), position...),
		Velocity: append([]float64(nil), velocity...),
	}
}

func (b *Body) Dim() int { return len(b.Position) }

// Validate checks the invariants of a single body at index i.
func (b *Body) Validate(i int) error {
	if !(b.Mass > 0) {
		return dynamo.Invalid("masses", "body %d: mass must be positive, got %g", i, b.Mass)
	}
	if len(b.Position) != len(b.Velocity) {
		return dynamo.Invalid("velocities", "body %d: position has %d components, velocity has %d", i, len(b.Position), len(b.Velocity))
	}
	return nil
}

// System is an ordered collection of bodies. Order defines each body's
// index in the state vector and in every output.
type System struct {
	bodies []*Body
}

// NewSystem validates the bodies and returns them as a System.
func NewSystem(bodies []*Body) (*System, error) {
	if len(bodies) == 0 {
		return nil, dynamo.Invalid("masses", "system has no bodies")
	}
	dim := bodies[0].Dim()
	if dim == 0 {
		return nil, dynamo.Invalid("positions", "body 0 has no position components")
	}
	for i, b := range bodies {
		if err := b.Validate(i); err != nil {
			return nil, err
		}
		if b.Dim() != dim {
			return nil, dynamo.Invalid("positions", "body %d has dimension %d, body 0 has %d", i, b.Dim(), dim)
		}
	}
	return &System{bodies: bodies}, nil
}

func (s *System) Bodies() []*Body { return s.bodies }
func (s *System) Len() int        { return len(s.bodies) }
func (s *System) Dim() int        { return s.bodies[0].Dim() }

func (s *System) Masses() []float64 {
	m := make([]float64, len(s.bodies))
	for i, b := range s.bodies {
		m[i] = b.Mass
	}
	return m
}

func (s *System) Positions() [][]float64 {
	p := make([][]float64, len(s.bodies))
	for i, b := range s.bodies {
		p[i] = b.Position
	}
	return p
}

func (s *System) Velocities() [][]float64 {
	v := make([][]float64, len(s.bodies))
	for i, b := range s.bodies {
		v[i] = b.Velocity
	}
	return v
}

// Sync copies positions and velocities from u into the bodies in place.
func (s *System) Sync(u dynamo.State) error {
	dim := s.Dim()
	if len(u) != 2*dim*len(s.bodies) {
		return dynamo.ErrDimensionMismatch
	}
	for i, b := range s.bodies {
		off := 2 * dim * i
		copy(b.Position, u[off:off+dim])
		copy(b.Velocity, u[off+dim:off+2*dim])
	}
	return nil
}
