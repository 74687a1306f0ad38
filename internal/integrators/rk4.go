package integrators

import "github.com/san-kum/springlab/internal/dynamo"

type RK4 struct {
	SubSteps int
	MaxDelta float64
}

func NewRK4() *RK4 {
	return &RK4{SubSteps: DefaultSubSteps, MaxDelta: DefaultMaxDelta}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) Step(x dynamo.State, p dynamo.Params, dt float64) dynamo.State {
	x = sanitize(x)
	dt = ClampDelta(dt, r.MaxDelta)
	if dt == 0 {
		return x
	}

	p = p.Safe()
	n := subSteps(r.SubSteps)
	h := dt / float64(n)

	accel := func(y, v float64) float64 {
		return (-p.Stiffness*y - p.Damping*v) / p.Mass
	}

	y, v := x.Position, x.Velocity
	for i := 0; i < n; i++ {
		k1y, k1v := v, accel(y, v)
		k2y, k2v := v+0.5*h*k1v, accel(y+0.5*h*k1y, v+0.5*h*k1v)
		k3y, k3v := v+0.5*h*k2v, accel(y+0.5*h*k2y, v+0.5*h*k2v)
		k4y, k4v := v+h*k3v, accel(y+h*k3y, v+h*k3v)

		h6 := h / 6.0
		y += h6 * (k1y + 2*k2y + 2*k3y + k4y)
		v += h6 * (k1v + 2*k2v + 2*k3v + k4v)
	}

	return settle(x, dynamo.State{Position: y, Velocity: v, Time: x.Time + dt}, dt)
}
