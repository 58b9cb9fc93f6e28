package body

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// BodiesToVector packs the system into a state vector laid out per body
// as [position..., velocity...].
func BodiesToVector(s *System) dynamo.State {
	dim := s.Dim()
	u := make(dynamo.State, 2*dim*s.Len())
	for i, b := range s.bodies {
		off := 2 * dim * i
		copy(u[off:off+dim], b.Position)
		copy(u[off+dim:off+2*dim], b.Velocity)
	}
	return u
}

// VectorToBodies unpacks u into fresh bodies carrying the given masses.
func VectorToBodies(u dynamo.State, masses []float64, dim int) ([]*Body, error) {
	if dim <= 0 {
		return nil, dynamo.Invalid("dim", "must be positive, got %d", dim)
	}
	if len(u) != 2*dim*len(masses) {
		return nil, dynamo.ErrDimensionMismatch
	}
	bodies := make([]*Body, len(masses))
	for i, m := range masses {
		off := 2 * dim * i
		bodies[i] = New(m, u[off:off+dim], u[off+dim:off+2*dim])
	}
	return bodies, nil
}

// SplitState views u as per-body position and velocity slices without copying.
func SplitState(u dynamo.State, n int) (positions, velocities [][]float64, err error) {
	if n <= 0 || len(u)%(2*n) != 0 {
		return nil, nil, dynamo.ErrDimensionMismatch
	}
	dim := len(u) / (2 * n)
	positions = make([][]float64, n)
	velocities = make([][]float64, n)
	for i := 0; i < n; i++ {
		off := 2 * dim * i
		positions[i] = u[off : off+dim : off+dim]
		velocities[i] = u[off+dim : off+2*dim : off+2*dim]
	}
	return positions, velocities, nil
}
