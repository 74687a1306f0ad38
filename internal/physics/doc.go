// Package physics derives presentation quantities of the damped oscillator.
//
// Every value is recomputed from the current [dynamo.State] and
// [dynamo.Params]; nothing here is part of the simulation state:
//
//   - kinetic ½mv², potential ½ky² and total energy (never negative)
//   - undamped period 2π√(m/k), frequency and angular frequency
//   - phase t/T and its fractional part
//   - damping ratio ζ = c/(2√(km)) and the resulting [Regime]
//   - quality factor √(km)/c
//
// Parameters pass through [dynamo.Params.Safe] first, so degenerate inputs
// still yield finite values:
//
//	d := physics.Derive(state, dynamo.Params{Mass: 0, Stiffness: -5})
//	// d.Period is finite and positive
package physics
