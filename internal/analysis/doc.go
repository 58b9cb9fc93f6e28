// Package analysis characterizes integrated trajectories.
//
//   - [EstimateOrder]: observed convergence order from successive dt halvings
//   - [ReturnDistance]: how far a body is from its start at the end of a run
//   - [DominantPeriod]: period of the strongest oscillation in a coordinate
//   - [LyapunovExponent]: largest Lyapunov exponent by two-trajectory separation
//
// # Convergence
//
// For a method of order p the differences between runs at dt, dt/2 and dt/4
// shrink by 2^p, so the returned ratio is about 2 for Euler and 16 for RK4:
//
//	ord, err := analysis.EstimateOrder(f, integrators.NewRK4(), u0, 0, T, 100)
//	// ord.Ratio ≈ 16, ord.Order ≈ 4
package analysis
