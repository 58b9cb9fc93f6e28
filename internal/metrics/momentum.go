package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// MomentumSource is satisfied by gravity.Field.
type MomentumSource interface {
	Momentum(u dynamo.State) []float64
	MomentumScale(u dynamo.State) float64
	AngularMomentum(u dynamo.State) []float64
}

// MomentumDrift tracks max |P(t) - P0| relative to Σ m|v| at the start,
// since the total momentum of a system in its barycentric frame is zero.
type MomentumDrift struct {
	name     string
	src      MomentumSource
	initial  []float64
	scale    float64
	maxDrift float64
}

func NewMomentumDrift(src MomentumSource) *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift", src: src}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(u dynamo.State, t float64) {
	p := m.src.Momentum(u)
	if m.initial == nil {
		m.initial = p
		m.scale = m.src.MomentumScale(u)
		return
	}
	drift := floats.Distance(p, m.initial, 2)
	if m.scale > 0 {
		drift /= m.scale
	}
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = nil
	m.scale = 0
	m.maxDrift = 0
}

// AngularMomentumDrift tracks max |L(t) - L0| / |L0| about the origin.
type AngularMomentumDrift struct {
	name     string
	src      MomentumSource
	initial  []float64
	maxDrift float64
}

func NewAngularMomentumDrift(src MomentumSource) *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift", src: src}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(u dynamo.State, t float64) {
	l := a.src.AngularMomentum(u)
	if a.initial == nil {
		a.initial = l
		return
	}
	drift := floats.Distance(l, a.initial, 2)
	if n := floats.Norm(a.initial, 2); n > 0 {
		drift /= n
	}
	a.maxDrift = math.Max(a.maxDrift, drift)
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = nil
	a.maxDrift = 0
}
