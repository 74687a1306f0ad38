package integrators

import "github.com/san-kum/springlab/internal/dynamo"

// Euler is the explicit scheme: position moves with the old velocity.
// It gains energy on every oscillation and is kept for comparison only.
type Euler struct {
	SubSteps int
	MaxDelta float64
}

func NewEuler() *Euler {
	return &Euler{SubSteps: DefaultSubSteps, MaxDelta: DefaultMaxDelta}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
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
		y += v * h
		v += a * h
	}

	return settle(x, dynamo.State{Position: y, Velocity: v, Time: x.Time + dt}, dt)
}
