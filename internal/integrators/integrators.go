// Package integrators provides fixed-step explicit time steppers.
//
// Every stepper is stateless: all state lives in the vector passed in,
// inputs are never modified and identical calls return bit-identical
// results. Errors from the derivative are returned unchanged.
package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Info describes a stepper.
type Info struct {
	Label  string
	Stages int
	Order  int
}

func (i Info) Name() string { return i.Label }

func checkStep(dt float64) error {
	if !(dt > 0) {
		return dynamo.Invalid("dt", "must be positive, got %g", dt)
	}
	return nil
}

func eval(f dynamo.Derivative, t float64, u dynamo.State) (dynamo.State, error) {
	du, err := f(t, u)
	if err != nil {
		return nil, err
	}
	if len(du) != len(u) {
		return nil, dynamo.ErrDimensionMismatch
	}
	return du, nil
}

var registry = map[string]func(dim int) dynamo.Integrator{
	"euler":    func(int) dynamo.Integrator { return NewEuler() },
	"rk4":      func(int) dynamo.Integrator { return NewRK4() },
	"leapfrog": func(dim int) dynamo.Integrator { return NewLeapfrog(dim) },
}

// Lookup returns the stepper registered under name. dim is the spatial
// dimension, needed by steppers that split positions from velocities.
func Lookup(name string, dim int) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(dim), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
