// Package dynamo provides the core primitives shared by the simulation packages.
//
// The package defines the fundamental types used to advance an N-body system:
//
//   - [State]: flat vector of positions and velocities
//   - [Derivative]: the system dynamics du/dt = f(t, u)
//   - [Integrator]: fixed-step time stepper
//   - [CollisionError], [ConfigError], [SimulationError]: the error taxonomy
//
// # Example
//
//	field := gravity.NewField(masses, config.DefaultG)
//	u, err := integrators.RK4(t, u, dt, field.Derivative())
//	var ce *dynamo.CollisionError
//	if errors.As(err, &ce) {
//	    // bodies ce.I and ce.J occupy the same position
//	}
//
// Nothing in this package holds mutable global state; physical constants
// travel with the values that need them.
package dynamo
