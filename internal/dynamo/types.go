package dynamo

import (
	"fmt"
	"math"
)

const (
	DefaultPosition  = 1.0
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5

	// MinMass and MinStiffness are the floors applied before any division.
	MinMass      = 0.01
	MinStiffness = 0.1

	MaxMass      = 50.0
	MaxStiffness = 500.0
	MaxDamping   = 50.0

	// DivergenceLimit bounds |position| and |velocity|; beyond it a state is unstable.
	DivergenceLimit = 1e6
)

// State is the oscillator's displacement, velocity and simulation clock.
type State struct {
	Position float64
	Velocity float64
	Time     float64
}

// DefaultState is the rest displacement the oscillator starts from.
func DefaultState() State {
	return State{Position: DefaultPosition}
}

func (s State) IsValid() bool {
	for _, v := range [...]float64{s.Position, s.Velocity, s.Time} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Diverged reports a state that is non-finite or has left the stable envelope.
func (s State) Diverged() bool {
	if !s.IsValid() {
		return true
	}
	return math.Abs(s.Position) > DivergenceLimit || math.Abs(s.Velocity) > DivergenceLimit
}

// AtRest returns the equilibrium state at the same simulated time.
func (s State) AtRest() State {
	return State{Time: s.Time}
}

func (s State) String() string {
	return fmt.Sprintf("y=%.4f v=%.4f t=%.3f", s.Position, s.Velocity, s.Time)
}

// Params are the physical constants of the oscillator.
type Params struct {
	Mass      float64 `json:"mass" yaml:"mass"`
	Stiffness float64 `json:"stiffness" yaml:"stiffness"`
	Damping   float64 `json:"damping" yaml:"damping"`
}

func DefaultParams() Params {
	return Params{
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

// Safe floors mass and stiffness and zeroes negative or non-finite damping.
// Integrators and derived quantities only ever see safe parameters.
func (p Params) Safe() Params {
	return Params{
		Mass:      floor(p.Mass, MinMass),
		Stiffness: floor(p.Stiffness, MinStiffness),
		Damping:   floor(p.Damping, 0),
	}
}

// Bounded clamps every parameter into the range a user is allowed to set.
func (p Params) Bounded() Params {
	s := p.Safe()
	return Params{
		Mass:      math.Min(s.Mass, MaxMass),
		Stiffness: math.Min(s.Stiffness, MaxStiffness),
		Damping:   math.Min(s.Damping, MaxDamping),
	}
}

func floor(v, min float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

// Mode is the oscillator's control state. Exactly one of integration or
// direct position writes is allowed at a time.
type Mode int

const (
	Idle Mode = iota
	Running
	Dragging
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Stepper advances a state by dt seconds of wall-clock time.
type Stepper interface {
	Name() string
	Step(x State, p Params, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, p Params)
	Value() float64
	Reset()
}

// Sample is one recorded point of the position history.
type Sample struct {
	T float64 `json:"t"`
	Y float64 `json:"y"`
}
