package integrators

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Analytic advances the oscillator with harmonica's closed-form damped spring.
// It has no sub-steps and serves as the reference the numerical schemes are
// measured against.
type Analytic struct {
	MaxDelta float64
}

func NewAnalytic() *Analytic {
	return &Analytic{MaxDelta: DefaultMaxDelta}
}

func (a *Analytic) Name() string { return "analytic" }

func (a *Analytic) Step(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	x = sanitize(x)
	dt = ClampDelta(dt, a.MaxDelta)
	if dt == 0 {
		return x
	}

	p = p.Safe()
	omega := math.Sqrt(p.Stiffness / p.Mass)
	zeta := p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))

	spring := harmonica.NewSpring(dt, omega, zeta)
	y, v := spring.Update(x.Position, x.Velocity, 0)

	return settle(x, dynamo.State{Position: y, Velocity: v, Time: x.Time + dt}, dt)
}
