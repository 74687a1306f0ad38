package analysis

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/springlab/internal/dynamo"
)

// ZeroCrossings returns the linearly interpolated times at which the
// position rises through zero.
func ZeroCrossings(samples []dynamo.Sample) []float64 {
	var out []float64
	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		if a.Y < 0 && b.Y >= 0 {
			f := -a.Y / (b.Y - a.Y)
			out = append(out, a.T+f*(b.T-a.T))
		}
	}
	return out
}

// Periods returns the intervals between successive upward crossings.
func Periods(samples []dynamo.Sample) []float64 {
	ups := ZeroCrossings(samples)
	if len(ups) < 2 {
		return nil
	}
	out := make([]float64, len(ups)-1)
	for i := range out {
		out[i] = ups[i+1] - ups[i]
	}
	return out
}

// MeanPeriod averages Periods. It fails when fewer than two crossings exist.
func MeanPeriod(samples []dynamo.Sample) (float64, error) {
	ps := Periods(samples)
	if len(ps) == 0 {
		return 0, errors.Wrap(dynamo.ErrEmptyHistory, "need two upward zero crossings")
	}
	return floats.Sum(ps) / float64(len(ps)), nil
}
