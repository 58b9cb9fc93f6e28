package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Euler advances u by one explicit Euler step: u + dt·f(t, u).
func Euler(t float64, u dynamo.State, dt float64, f dynamo.Derivative) (dynamo.State, error) {
	if err := checkStep(dt); err != nil {
		return nil, err
	}

	du, err := eval(f, t, u)
	if err != nil {
		return nil, err
	}

	result := make(dynamo.State, len(u))
	floats.AddScaledTo(result, u, dt, du)
	return result, nil
}

type EulerStepper struct {
	Info
}

func NewEuler() *EulerStepper {
	return &EulerStepper{Info: Info{Label: "euler", Stages: 1, Order: 1}}
}

func (e *EulerStepper) Step(f dynamo.Derivative, t float64, u dynamo.State, dt float64) (dynamo.State, error) {
	return Euler(t, u, dt, f)
}
