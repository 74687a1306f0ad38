package metrics

import (
	"math"

	"github.com/san-kum/springlab/internal/dynamo"
)

// Stability is the fraction of observations with |y| within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, _ dynamo.Params) {
	s.samples++
	if math.Abs(x.Position) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Amplitude is the largest |y| observed.
type Amplitude struct {
	max float64
}

func NewAmplitude() *Amplitude { return &Amplitude{} }

func (a *Amplitude) Name() string { return "amplitude" }

func (a *Amplitude) Observe(x dynamo.State, _ dynamo.Params) {
	a.max = math.Max(a.max, math.Abs(x.Position))
}

func (a *Amplitude) Value() float64 { return a.max }
func (a *Amplitude) Reset()         { a.max = 0 }

// Settling reports the simulated time after which |y| stayed within
// threshold. It is -1 while the last observation is still outside.
type Settling struct {
	threshold float64
	lastOut   float64
	outside   bool
	samples   int
}

func NewSettling(threshold float64) *Settling {
	return &Settling{threshold: threshold}
}

func (s *Settling) Name() string { return "settling_time" }

func (s *Settling) Observe(x dynamo.State, _ dynamo.Params) {
	s.samples++
	s.outside = math.Abs(x.Position) > s.threshold
	if s.outside {
		s.lastOut = x.Time
	}
}

func (s *Settling) Value() float64 {
	if s.outside {
		return -1
	}
	return s.lastOut
}

func (s *Settling) Reset() {
	s.lastOut = 0
	s.outside = false
	s.samples = 0
}
