package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// oscillator is x'' = -x laid out as one body in one dimension.
func oscillator(t float64, u dynamo.State) (dynamo.State, error) {
	return dynamo.State{u[1], -u[0]}, nil
}

func integrate(step func(float64, dynamo.State, float64, dynamo.Derivative) (dynamo.State, error), u dynamo.State, dt float64, steps int) (dynamo.State, error) {
	var err error
	for i := 0; i < steps; i++ {
		u, err = step(float64(i)*dt, u, dt, oscillator)
		if err != nil {
			return nil, err
		}
	}
	return u, nil
}

func oscillatorError(t *testing.T, step func(float64, dynamo.State, float64, dynamo.Derivative) (dynamo.State, error), dt float64, steps int) float64 {
	t.Helper()
	x, err := integrate(step, dynamo.State{1.0, 0.0}, dt, steps)
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}
	tEnd := float64(steps) * dt
	return math.Hypot(x[0]-math.Cos(tEnd), x[1]+math.Sin(tEnd))
}

func TestRK4Accuracy(t *testing.T) {
	dt := 0.01
	steps := 100

	x, err := integrate(RK4, dynamo.State{1.0, 0.0}, dt, steps)
	if err != nil {
		t.Fatalf("integrate: %v", err)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestConvergenceOrder(t *testing.T) {
	tests := []struct {
		name     string
		step     func(float64, dynamo.State, float64, dynamo.Derivative) (dynamo.State, error)
		dt       float64
		steps    int
		min, max float64
	}{
		{"euler", Euler, 0.01, 100, 1.8, 2.2},
		{"rk4", RK4, 0.1, 10, 12, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coarse := oscillatorError(t, tt.step, tt.dt, tt.steps)
			fine := oscillatorError(t, tt.step, tt.dt/2, tt.steps*2)
			ratio := coarse / fine
			if ratio < tt.min || ratio > tt.max {
				t.Errorf("error ratio %.3f outside [%.1f, %.1f] (coarse %.3e, fine %.3e)", ratio, tt.min, tt.max, coarse, fine)
			}
		})
	}
}

func TestEulerSingleStep(t *testing.T) {
	u := dynamo.State{1.0, 2.0}
	got, err := Euler(0, u, 0.5, oscillator)
	if err != nil {
		t.Fatalf("Euler: %v", err)
	}
	if got[0] != 2.0 || got[1] != 1.5 {
		t.Errorf("expected [2 1.5], got %v", got)
	}
}

func TestRK4DerivativeReturningInput(t *testing.T) {
	identity := func(t float64, u dynamo.State) (dynamo.State, error) { return u, nil }
	u := dynamo.State{1.0}
	h := 0.1

	got, err := RK4(0, u, h, identity)
	if err != nil {
		t.Fatalf("RK4: %v", err)
	}
	want := 1 + h + h*h/2 + h*h*h/6 + h*h*h*h/24
	if math.Abs(got[0]-want) > 1e-12 {
		t.Errorf("expected %.12f, got %.12f", want, got[0])
	}
	if u[0] != 1.0 {
		t.Errorf("input mutated: %v", u)
	}
}

func TestDeterminism(t *testing.T) {
	u := dynamo.State{0.3, -0.7}
	for _, name := range Names() {
		integ, err := Lookup(name, 1)
		if err != nil {
			t.Fatalf("Lookup(%s): %v", name, err)
		}
		a, err := integ.Step(oscillator, 0.1, u, 0.05)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		b, err := integ.Step(oscillator, 0.1, u, 0.05)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		for i := range a {
			if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
				t.Errorf("%s: component %d differs between identical calls: %v vs %v", name, i, a[i], b[i])
			}
		}
		if u[0] != 0.3 || u[1] != -0.7 {
			t.Errorf("%s modified its input: %v", name, u)
		}
	}
}

func TestPropagatesDerivativeError(t *testing.T) {
	collision := &dynamo.CollisionError{I: 0, J: 1}

	tests := []struct {
		name   string
		step   func(float64, dynamo.State, float64, dynamo.Derivative) (dynamo.State, error)
		failAt int
	}{
		{"euler", Euler, 1},
		{"rk4 first stage", RK4, 1},
		{"rk4 last stage", RK4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			failing := func(t float64, u dynamo.State) (dynamo.State, error) {
				calls++
				if calls == tt.failAt {
					return nil, collision
				}
				return dynamo.State{u[1], -u[0]}, nil
			}

			got, err := tt.step(0, dynamo.State{1, 0}, 0.1, failing)
			if err != collision {
				t.Errorf("expected the derivative's error unchanged, got %v", err)
			}
			if got != nil {
				t.Errorf("expected no state on failure, got %v", got)
			}
			if calls != tt.failAt {
				t.Errorf("expected evaluation to stop after %d calls, made %d", tt.failAt, calls)
			}
		})
	}
}

func TestInvalidStep(t *testing.T) {
	for _, dt := range []float64{0, -0.1, math.NaN()} {
		if _, err := RK4(0, dynamo.State{1, 0}, dt, oscillator); !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("RK4 dt=%v: expected ErrInvalidConfig, got %v", dt, err)
		}
		if _, err := Euler(0, dynamo.State{1, 0}, dt, oscillator); !errors.Is(err, dynamo.ErrInvalidConfig) {
			t.Errorf("Euler dt=%v: expected ErrInvalidConfig, got %v", dt, err)
		}
	}
}

func TestDimensionMismatch(t *testing.T) {
	short := func(t float64, u dynamo.State) (dynamo.State, error) {
		return dynamo.State{u[1]}, nil
	}
	if _, err := RK4(0, dynamo.State{1, 0}, 0.1, short); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestLeapfrogEnergy(t *testing.T) {
	integ := NewLeapfrog(1)
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	var err error
	for i := 0; i < 10000; i++ {
		x, err = integ.Step(oscillator, float64(i)*dt, x, dt)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	energy := 0.5 * (x[0]*x[0] + x[1]*x[1])
	if drift := math.Abs(energy - 0.5); drift > 1e-4 {
		t.Errorf("leapfrog energy drift too high: %e", drift)
	}
}

func TestLookup(t *testing.T) {
	integ, err := Lookup("rk4", 2)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if integ.Name() != "rk4" {
		t.Errorf("expected rk4, got %s", integ.Name())
	}
	if _, err := Lookup("rk45", 2); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
