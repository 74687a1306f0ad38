package physics

import (
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
)

// criticalBand is how close the damping ratio must be to 1 to count as critical.
const criticalBand = 1e-3

type Regime int

const (
	Underdamped Regime = iota
	CriticallyDamped
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case CriticallyDamped:
		return "critical"
	case Overdamped:
		return "overdamped"
	default:
		return "underdamped"
	}
}

// Derived holds the presentation quantities recomputed from state and parameters
// every tick. None of them is stored in the simulation state.
type Derived struct {
	Kinetic          float64 `json:"ke"`
	Potential        float64 `json:"pe"`
	Total            float64 `json:"te"`
	Period           float64 `json:"period"`
	Frequency        float64 `json:"frequency"`
	AngularFrequency float64 `json:"omega"`
	Phase            float64 `json:"phase"`
	ReducedPhase     float64 `json:"reduced_phase"`
	DampingRatio     float64 `json:"zeta"`
	Quality          float64 `json:"q"`
	Regime           Regime  `json:"regime"`
}

func Derive(x dynamo.State, p dynamo.Params) Derived {
	p = p.Safe()
	ke := Kinetic(x, p)
	pe := Potential(x, p)
	period := Period(p)

	d := Derived{
		Kinetic:          ke,
		Potential:        pe,
		Total:            ke + pe,
		Period:           period,
		AngularFrequency: AngularFrequency(p),
		DampingRatio:     DampingRatio(p),
		Quality:          Quality(p),
	}
	if period > 0 {
		d.Frequency = 1 / period
		d.Phase = x.Time / period
		d.ReducedPhase = d.Phase - math.Floor(d.Phase)
	}
	d.Regime = ClassifyDamping(d.DampingRatio)
	return d
}

func Kinetic(x dynamo.State, p dynamo.Params) float64 {
	return 0.5 * p.Safe().Mass * x.Velocity * x.Velocity
}

func Potential(x dynamo.State, p dynamo.Params) float64 {
	return 0.5 * p.Safe().Stiffness * x.Position * x.Position
}

func Energy(x dynamo.State, p dynamo.Params) float64 {
	return Kinetic(x, p) + Potential(x, p)
}

// Period is the undamped period 2π√(m/k).
func Period(p dynamo.Params) float64 {
	p = p.Safe()
	return 2 * math.Pi * math.Sqrt(p.Mass/p.Stiffness)
}

func AngularFrequency(p dynamo.Params) float64 {
	p = p.Safe()
	return math.Sqrt(p.Stiffness / p.Mass)
}

// DampingRatio is ζ = c / (2√(km)).
func DampingRatio(p dynamo.Params) float64 {
	p = p.Safe()
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))
}

// Quality is the quality factor √(km)/c. Zero stands for an undamped
// oscillator, whose Q is unbounded.
func Quality(p dynamo.Params) float64 {
	p = p.Safe()
	if p.Damping == 0 {
		return 0
	}
	return math.Sqrt(p.Stiffness*p.Mass) / p.Damping
}

// CriticalDamping returns the damping coefficient that makes ζ = 1.
func CriticalDamping(mass, stiffness float64) float64 {
	p := dynamo.Params{Mass: mass, Stiffness: stiffness}.Safe()
	return 2 * math.Sqrt(p.Stiffness*p.Mass)
}

func ClassifyDamping(zeta float64) Regime {
	switch {
	case math.Abs(zeta-1) < criticalBand:
		return CriticallyDamped
	case zeta > 1:
		return Overdamped
	default:
		return Underdamped
	}
}
