package history

import "github.com/san-kum/springlab/internal/dynamo"

// DefaultInterval is the minimum simulated time between two samples.
const DefaultInterval = 0.05

// Sampler records positions into a Buffer at most once per Interval of
// simulated time. Wall-clock pauses therefore do not change sample density.
type Sampler struct {
	Interval float64
	buf      *Buffer
	last     float64
}

func NewSampler(interval float64, capacity int) *Sampler {
	if interval < 0 {
		interval = 0
	}
	return &Sampler{Interval: interval, buf: NewBuffer(capacity)}
}

// Observe records (t, y) if the interval has elapsed and reports whether it did.
func (s *Sampler) Observe(t, y float64) bool {
	if t-s.last < s.Interval {
		return false
	}
	s.buf.Push(dynamo.Sample{T: t, Y: y})
	s.last = t
	return true
}

func (s *Sampler) Buffer() *Buffer { return s.buf }

func (s *Sampler) Samples() []dynamo.Sample { return s.buf.Samples() }

func (s *Sampler) Len() int { return s.buf.Len() }

func (s *Sampler) Reset() {
	s.buf.Reset()
	s.last = 0
}
