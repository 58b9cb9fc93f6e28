package gravity

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// ParallelThreshold is the body count from which Workers > 1 takes effect.
const ParallelThreshold = 32

// Options tunes the force evaluator. The zero value is the exact
// Newtonian law evaluated on one goroutine.
type Options struct {
	// Softening is added to d³. Zero disables it and enables collision detection.
	Softening float64
	// Workers bounds the goroutines used for N >= ParallelThreshold.
	Workers int
}

// ComputeAccelerations returns the gravitational acceleration on each body
// from every other body, aligned by index with positions.
func ComputeAccelerations(positions [][]float64, masses []float64, G float64) ([][]float64, error) {
	return ComputeAccelerationsWith(positions, masses, G, Options{})
}

// ComputeAccelerationsWith is ComputeAccelerations with explicit options.
func ComputeAccelerationsWith(positions [][]float64, masses []float64, G float64, opts Options) ([][]float64, error) {
	n := len(masses)
	if len(positions) != n {
		return nil, dynamo.Invalid("positions", "%d positions for %d masses", len(positions), n)
	}
	if n == 0 {
		return [][]float64{}, nil
	}
	dim := len(positions[0])
	for i := range positions {
		if len(positions[i]) != dim {
			return nil, dynamo.Invalid("positions", "body %d has dimension %d, body 0 has %d", i, len(positions[i]), dim)
		}
		if !(masses[i] > 0) {
			return nil, dynamo.Invalid("masses", "body %d: mass must be positive, got %g", i, masses[i])
		}
	}
	if opts.Softening < 0 {
		return nil, dynamo.Invalid("softening", "must not be negative, got %g", opts.Softening)
	}

	acc := make([][]float64, n)
	backing := make([]float64, n*dim)
	for i := range acc {
		acc[i] = backing[i*dim : (i+1)*dim : (i+1)*dim]
	}

	workers := opts.Workers
	if n < ParallelThreshold {
		workers = 1
	}

	err := dynamo.ParallelFor(n, workers, ParallelThreshold/4, func(start, end int) error {
		return accumulate(positions, masses, G, opts.Softening, acc, start, end)
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

// accumulate fills acc[start:end]. Each body sums over j in index order
// and only writes its own row, so chunking never changes the result.
func accumulate(pos [][]float64, masses []float64, G, eps float64, acc [][]float64, start, end int) error {
	n := len(masses)
	diff := make([]float64, len(pos[0]))

	for i := start; i < end; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			d := floats.Distance(pos[j], pos[i], 2)
			if d == 0 && eps == 0 {
				return &dynamo.CollisionError{I: i, J: j}
			}
			floats.SubTo(diff, pos[j], pos[i])

			if eps > 0 {
				f := G * masses[j] / (d*d*d + eps)
				if !math.IsInf(f, 0) {
					floats.AddScaled(acc[i], f, diff)
				}
				continue
			}

			// Unit direction times G m_j / d^2; d^3 underflows long before d^2.
			mag := G * masses[j] / d / d
			if math.IsInf(mag, 0) {
				continue
			}
			for k := range diff {
				acc[i][k] += mag * (diff[k] / d)
			}
		}
	}
	return nil
}
