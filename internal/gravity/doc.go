// Package gravity evaluates pairwise Newtonian gravitation.
//
//   - [ComputeAccelerations]: net acceleration on every body, O(N²)
//   - [ComputeDUDT]: the state-vector derivative built on top of it
//   - [Field]: masses, G and options bundled as a [dynamo.Derivative]
//
// Coincident bodies fail with a [dynamo.CollisionError] unless a softening
// term is configured, in which case the cubic distance in the denominator
// becomes d³ + ε and no collision is ever reported.
//
//	field := gravity.NewField(masses, config.DefaultG)
//	field.Workers = runtime.NumCPU()
//	next, err := integrators.RK4(t, u, dt, field.Derivative())
package gravity
