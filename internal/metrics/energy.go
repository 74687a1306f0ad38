package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/physics"
)

// Energy is the mean total energy over all observations.
type Energy struct {
	name    string
	samples int
	total   float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, p dynamo.Params) {
	e.total += physics.Energy(x, p)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *Energy) Reset() {
	e.total = 0
	e.samples = 0
}

// EnergyDrift is the largest relative departure from the first observed energy.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, p dynamo.Params) {
	energy := physics.Energy(x, p)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyGrowth counts observations whose energy rose by more than Tolerance
// (relative) over the previous one. A passive oscillator should score zero.
type EnergyGrowth struct {
	Tolerance float64
	name      string
	last      float64
	seen      bool
	count     int
}

func NewEnergyGrowth(tolerance float64) *EnergyGrowth {
	return &EnergyGrowth{name: "energy_growth", Tolerance: tolerance}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(x dynamo.State, p dynamo.Params) {
	energy := physics.Energy(x, p)
	if e.seen && energy > e.last*(1+e.Tolerance)+1e-12 {
		e.count++
	}
	e.last = energy
	e.seen = true
}

func (e *EnergyGrowth) Value() float64 { return float64(e.count) }

func (e *EnergyGrowth) Reset() {
	e.last = 0
	e.seen = false
	e.count = 0
}
