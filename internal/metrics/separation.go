package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// MinSeparation records the closest approach of any pair of bodies.
type MinSeparation struct {
	name string
	n    int
	min  float64
}

func NewMinSeparation(bodies int) *MinSeparation {
	return &MinSeparation{
		name: "min_separation",
		n:    bodies,
		min:  math.Inf(1),
	}
}

func (s *MinSeparation) Name() string { return s.name }

func (s *MinSeparation) Observe(u dynamo.State, t float64) {
	positions, _, err := body.SplitState(u, s.n)
	if err != nil {
		return
	}
	for i := 0; i < s.n; i++ {
		for j := i + 1; j < s.n; j++ {
			s.min = math.Min(s.min, floats.Distance(positions[i], positions[j], 2))
		}
	}
}

func (s *MinSeparation) Value() float64 { return s.min }

func (s *MinSeparation) Reset() { s.min = math.Inf(1) }

// Escape reports the fraction of samples in which every body stayed
// within radius of the origin.
type Escape struct {
	name       string
	n          int
	radius     float64
	violations int
	samples    int
}

func NewEscape(bodies int, radius float64) *Escape {
	return &Escape{
		name:   "bounded",
		n:      bodies,
		radius: radius,
	}
}

func (e *Escape) Name() string { return e.name }

func (e *Escape) Observe(u dynamo.State, t float64) {
	positions, _, err := body.SplitState(u, e.n)
	if err != nil {
		return
	}
	e.samples++
	for _, p := range positions {
		if floats.Norm(p, 2) > e.radius {
			e.violations++
			break
		}
	}
}

func (e *Escape) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Escape) Reset() {
	e.violations = 0
	e.samples = 0
}
