package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 advances u by one classical fourth-order Runge-Kutta step.
func RK4(t float64, u dynamo.State, dt float64, f dynamo.Derivative) (dynamo.State, error) {
	if err := checkStep(dt); err != nil {
		return nil, err
	}

	n := len(u)
	s2 := make(dynamo.State, n)
	s3 := make(dynamo.State, n)
	s4 := make(dynamo.State, n)
	half := dt * 0.5

	k1, err := eval(f, t, u)
	if err != nil {
		return nil, err
	}

	floats.AddScaledTo(s2, u, half, k1)
	k2, err := eval(f, t+half, s2)
	if err != nil {
		return nil, err
	}

	floats.AddScaledTo(s3, u, half, k2)
	k3, err := eval(f, t+half, s3)
	if err != nil {
		return nil, err
	}

	floats.AddScaledTo(s4, u, dt, k3)
	k4, err := eval(f, t+dt, s4)
	if err != nil {
		return nil, err
	}

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = u[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result, nil
}

type RK4Stepper struct {
	Info
}

func NewRK4() *RK4Stepper {
	return &RK4Stepper{Info: Info{Label: "rk4", Stages: 4, Order: 4}}
}

func (r *RK4Stepper) Step(f dynamo.Derivative, t float64, u dynamo.State, dt float64) (dynamo.State, error) {
	return RK4(t, u, dt, f)
}
