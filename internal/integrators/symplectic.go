package integrators

import (
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
)

const (
	DefaultSubSteps = 8
	// DefaultMaxDelta caps a single call, so a stalled host cannot explode the integration.
	DefaultMaxDelta = 0.016
)

// SemiImplicit is symplectic Euler over a fixed number of sub-steps:
// velocity is updated from the current acceleration, then position from the new velocity.
type SemiImplicit struct {
	SubSteps int
	MaxDelta float64
}

func NewSemiImplicit() *SemiImplicit {
	return &SemiImplicit{SubSteps: DefaultSubSteps, MaxDelta: DefaultMaxDelta}
}

func (e *SemiImplicit) Name() string { return "symplectic" }

func (e *SemiImplicit) Step(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	x = sanitize(x)
	dt = ClampDelta(dt, e.MaxDelta)
	if dt == 0 {
		return x
	}

	p = p.Safe()
	n := subSteps(e.SubSteps)
	h := dt / float64(n)

	y, v := x.Position, x.Velocity
	for i := 0; i < n; i++ {
		a := (-p.Stiffness*y - p.Damping*v) / p.Mass
		v += a * h
		y += v * h
	}

	return settle(x, dynamo.State{Position: y, Velocity: v, Time: x.Time + dt}, dt)
}

// ClampDelta limits dt to [0, max]. Non-finite or negative deltas become zero.
func ClampDelta(dt, max float64) float64 {
	if math.IsNaN(dt) || dt <= 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	if math.IsInf(dt, 1) {
		return 0
	}
	return dt
}

func subSteps(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func sanitize(x dynamo.State) dynamo.State {
	if !x.Diverged() {
		return x
	}
	rest := x.AtRest()
	if !rest.IsValid() {
		return dynamo.State{}
	}
	return rest
}

// settle discards a diverged step and leaves the oscillator at rest instead.
func settle(prev, next dynamo.State, dt float64) dynamo.State {
	if next.Diverged() {
		return dynamo.State{Time: prev.Time + dt}
	}
	return next
}
