package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following
// a second trajectory displaced by perturbation in the first component.
// The separation is renormalized to the initial distance after every
// step and λ = Σ ln(d_k/d0) / (steps·dt). A positive value indicates chaos.
func LyapunovExponent(
	f dynamo.Derivative,
	integ dynamo.Integrator,
	u0 dynamo.State,
	dt float64,
	steps int,
	perturbation float64,
) (float64, error) {
	if len(u0) == 0 || steps <= 0 {
		return 0, nil
	}
	if !(perturbation > 0) {
		return 0, dynamo.Invalid("perturbation", "must be positive, got %g", perturbation)
	}

	u := u0.Clone()
	up := u0.Clone()
	up[0] += perturbation
	d0 := perturbation

	sumLog := 0.0
	t := 0.0
	for k := 0; k < steps; k++ {
		var err error
		if u, err = integ.Step(f, t, u, dt); err != nil {
			return 0, err
		}
		if up, err = integ.Step(f, t, up, dt); err != nil {
			return 0, err
		}
		t += dt

		sep := up.Sub(u).Norm()
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range up {
			up[i] = u[i] + (up[i]-u[i])*scale
		}
	}

	return sumLog / (float64(steps) * dt), nil
}
