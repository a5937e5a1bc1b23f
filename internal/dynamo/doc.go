// Package dynamo provides the integration primitives shared by the reactor
// model and the numerical solvers.
//
//   - [State]: vector representing the system state
//   - [System]: ODE right-hand side with an early-stop predicate
//   - [Integrator]: solver interface producing a [Trajectory]
//   - [Config]: integration domain, output grid and tolerances
//
// # Example
//
//	model := physics.NewAmmonia(200, catalyst.KMIR, bed)
//	traj, err := integrators.NewRK45().Integrate(ctx, model, 0, y0, dynamo.DefaultConfig())
//
// # Thread Safety
//
// A System is read-only during integration. RK45 keeps no state between
// calls; RK4 reuses scratch buffers, so give each goroutine its own.
package dynamo
