// Package dynamo provides the core primitives of the oscillator simulation.
//
// A damped harmonic oscillator obeys m·a = -k·y - c·v. The package defines:
//
//   - [State]: position, velocity and simulated time
//   - [Params]: mass, stiffness and damping with safe floors ([Params.Safe])
//     and user-facing bounds ([Params.Bounded])
//   - [Mode]: the explicit Idle | Running | Dragging control state
//   - [Stepper]: numerical integrator interface
//   - [Metric]: observer that folds a run into a single number
//
// # Numeric safety
//
// Degenerate parameters are clamped, never reported:
//
//	p := dynamo.Params{Mass: 0, Stiffness: -5}.Safe()
//	// p.Mass == dynamo.MinMass, p.Stiffness == dynamo.MinStiffness
//
// A [State] that is non-finite or beyond [DivergenceLimit] reports
// [State.Diverged]; steppers replace such states with [State.AtRest].
package dynamo
