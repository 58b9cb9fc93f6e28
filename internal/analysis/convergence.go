package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
	"gonum.org/v1/gonum/floats"
)

// Order is the outcome of a dt-halving study.
type Order struct {
	Steps  []int
	Finals []dynamo.State
	// Ratio is |u(dt) - u(dt/2)| / |u(dt/2) - u(dt/4)|.
	Ratio float64
	Order float64
}

// Integrate advances u0 by steps fixed steps of (tEnd-t0)/steps.
func Integrate(f dynamo.Derivative, integ dynamo.Integrator, u0 dynamo.State, t0, tEnd float64, steps int) (dynamo.State, error) {
	if steps <= 0 {
		return nil, dynamo.Invalid("steps", "must be positive, got %d", steps)
	}
	dt := (tEnd - t0) / float64(steps)
	u := u0
	for k := 0; k < steps; k++ {
		next, err := integ.Step(f, t0+float64(k)*dt, u, dt)
		if err != nil {
			return nil, &dynamo.SimulationError{Step: k + 1, Time: t0 + float64(k)*dt, Wrapped: err}
		}
		u = next
	}
	return u, nil
}

// EstimateOrder integrates over [t0, tEnd] with steps, 2·steps and 4·steps
// and compares the final states. The reference solution is not needed.
func EstimateOrder(f dynamo.Derivative, integ dynamo.Integrator, u0 dynamo.State, t0, tEnd float64, steps int) (*Order, error) {
	ord := &Order{}
	for _, n := range []int{steps, 2 * steps, 4 * steps} {
		u, err := Integrate(f, integ, u0, t0, tEnd, n)
		if err != nil {
			return nil, err
		}
		ord.Steps = append(ord.Steps, n)
		ord.Finals = append(ord.Finals, u)
	}

	coarse := floats.Distance(ord.Finals[0], ord.Finals[1], 2)
	fine := floats.Distance(ord.Finals[1], ord.Finals[2], 2)
	if fine == 0 {
		ord.Ratio = math.Inf(1)
	} else {
		ord.Ratio = coarse / fine
	}
	ord.Order = math.Log2(ord.Ratio)
	return ord, nil
}

// ReturnDistance is |x_i(t_end) - x_i(t_0)| for body i.
func ReturnDistance(tr *sim.Trajectory, i int) float64 {
	p := tr.Positions[i]
	if len(p) == 0 {
		return 0
	}
	return floats.Distance(p[0], p[len(p)-1], 2)
}
