package gravity

import (
	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
)

// ComputeDUDT is the gravitational right-hand side: for each body the
// derivative of position is its velocity and the derivative of velocity
// is its acceleration. t is accepted for interface uniformity.
func ComputeDUDT(t float64, u dynamo.State, masses []float64, G float64) (dynamo.State, error) {
	return computeDUDT(u, masses, G, Options{})
}

func computeDUDT(u dynamo.State, masses []float64, G float64, opts Options) (dynamo.State, error) {
	n := len(masses)
	positions, velocities, err := body.SplitState(u, n)
	if err != nil {
		return nil, err
	}

	acc, err := ComputeAccelerationsWith(positions, masses, G, opts)
	if err != nil {
		return nil, err
	}

	dim := len(u) / (2 * n)
	dudt := make(dynamo.State, len(u))
	for i := 0; i < n; i++ {
		off := 2 * dim * i
		copy(dudt[off:off+dim], velocities[i])
		copy(dudt[off+dim:off+2*dim], acc[i])
	}
	return dudt, nil
}
