// Package metrics observes conserved quantities along a run.
package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Energy reports the total energy of the last observed state.
type Energy struct {
	name    string
	ham     dynamo.Hamiltonian
	current float64
}

func NewEnergy(ham dynamo.Hamiltonian) *Energy {
	return &Energy{name: "energy", ham: ham}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(u dynamo.State, t float64) {
	e.current = e.ham.Energy(u)
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// EnergyDrift tracks max |E(t) - E0| / |E0| over the run. A system with
// zero total energy (a parabolic encounter) is measured in absolute terms.
type EnergyDrift struct {
	name          string
	ham           dynamo.Hamiltonian
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(ham dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		ham:  ham,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(u dynamo.State, t float64) {
	energy := e.ham.Energy(u)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
