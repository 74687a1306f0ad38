package integrators

import "github.com/san-kum/springlab/internal/dynamo"

// Verlet is velocity Verlet. The damping force depends on velocity, so the
// end-of-step acceleration uses a predicted velocity.
type Verlet struct {
	SubSteps int
	MaxDelta float64
}

func NewVerlet() *Verlet {
	return &Verlet{SubSteps: DefaultSubSteps, MaxDelta: DefaultMaxDelta}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	x = sanitize(x)
	dt = ClampDelta(dt, v.MaxDelta)
	if dt == 0 {
		return x
	}

	p = p.Safe()
	n := subSteps(v.SubSteps)
	h := dt / float64(n)
	accel := func(y, vel float64) float64 {
		return (-p.Stiffness*y - p.Damping*vel) / p.Mass
	}

	y, vel := x.Position, x.Velocity
	a := accel(y, vel)
	for i := 0; i < n; i++ {
		y += vel*h + 0.5*a*h*h
		next := accel(y, vel+a*h)
		vel += 0.5 * (a + next) * h
		a = next
	}

	return settle(x, dynamo.State{Position: y, Velocity: vel, Time: x.Time + dt}, dt)
}
