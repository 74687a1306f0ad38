package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/springlab/internal/dynamo"
)

func TestReferenceAccuracy(t *testing.T) {
	p := dynamo.Params{Mass: 1, Stiffness: 1, Damping: 0}
	dt := 0.01
	steps := 100

	tests := []struct {
		stepper dynamo.Stepper
		tol     float64
	}{
		{NewRK4(), 1e-8},
		{NewAnalytic(), 1e-8},
		{NewSemiImplicit(), 2e-3},
		{NewVerlet(), 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.stepper.Name(), func(t *testing.T) {
			x := dynamo.State{Position: 1}
			for i := 0; i < steps; i++ {
				x = tt.stepper.Step(x, p, dt)
			}

			expectedY := math.Cos(float64(steps) * dt)
			expectedV := -math.Sin(float64(steps) * dt)

			if math.Abs(x.Position-expectedY) > tt.tol {
				t.Errorf("position error too large: got %.8f, expected %.8f", x.Position, expectedY)
			}
			if math.Abs(x.Velocity-expectedV) > tt.tol {
				t.Errorf("velocity error too large: got %.8f, expected %.8f", x.Velocity, expectedV)
			}
		})
	}
}

func TestAnalytic_MatchesDampedSolution(t *testing.T) {
	// m=1, k=1, c=0.2: zeta=0.1, omega_d=sqrt(1-0.01)
	p := dynamo.Params{Mass: 1, Stiffness: 1, Damping: 0.2}
	integ := NewAnalytic()
	x := dynamo.State{Position: 1}

	dt := 0.01
	for i := 0; i < 300; i++ {
		x = integ.Step(x, p, dt)
	}

	tt := 3.0
	zeta := 0.1
	wd := math.Sqrt(1 - zeta*zeta)
	want := math.Exp(-zeta*tt) * (math.Cos(wd*tt) + zeta/wd*math.Sin(wd*tt))

	if math.Abs(x.Position-want) > 1e-6 {
		t.Errorf("position at t=3: got %.8f, want %.8f", x.Position, want)
	}
}

func TestClampDelta(t *testing.T) {
	tests := []struct {
		dt, max, want float64
	}{
		{0.01, 0.016, 0.01},
		{0.5, 0.016, 0.016},
		{-0.1, 0.016, 0},
		{math.NaN(), 0.016, 0},
		{math.Inf(1), 0.016, 0.016},
		{math.Inf(1), 0, 0},
		{3, 0, 3},
	}

	for _, tt := range tests {
		if got := ClampDelta(tt.dt, tt.max); got != tt.want {
			t.Errorf("ClampDelta(%v, %v) = %v, want %v", tt.dt, tt.max, got, tt.want)
		}
	}
}
