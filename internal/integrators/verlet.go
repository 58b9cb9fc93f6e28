package integrators

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Leapfrog is the kick-drift-kick velocity Verlet scheme for states laid
// out per body as [position(Dim)..., velocity(Dim)...]. Only the velocity
// half of the derivative is used, so f is evaluated twice per step.
type Leapfrog struct {
	Info
	Dim int
}

func NewLeapfrog(dim int) *Leapfrog {
	return &Leapfrog{Info: Info{Label: "leapfrog", Stages: 2, Order: 2}, Dim: dim}
}

func (l *Leapfrog) Step(f dynamo.Derivative, t float64, u dynamo.State, dt float64) (dynamo.State, error) {
	if err := checkStep(dt); err != nil {
		return nil, err
	}
	block := 2 * l.Dim
	if l.Dim <= 0 || len(u)%block != 0 {
		return nil, dynamo.ErrDimensionMismatch
	}

	du, err := eval(f, t, u)
	if err != nil {
		return nil, err
	}

	halfDt := 0.5 * dt
	result := make(dynamo.State, len(u))
	for off := 0; off < len(u); off += block {
		for k := 0; k < l.Dim; k++ {
			v := u[off+l.Dim+k] + du[off+l.Dim+k]*halfDt
			result[off+k] = u[off+k] + v*dt
			result[off+l.Dim+k] = v
		}
	}

	duNew, err := eval(f, t+dt, result)
	if err != nil {
		return nil, err
	}

	for off := 0; off < len(u); off += block {
		for k := 0; k < l.Dim; k++ {
			result[off+l.Dim+k] += duNew[off+l.Dim+k] * halfDt
		}
	}
	return result, nil
}
