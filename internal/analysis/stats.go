package analysis

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/springlab/internal/dynamo"
)

func positions(samples []dynamo.Sample) []float64 {
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Y
	}
	return ys
}

// Amplitude is half the peak-to-peak excursion of the recorded positions.
func Amplitude(samples []dynamo.Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, dynamo.ErrEmptyHistory
	}
	ys := positions(samples)
	return (floats.Max(ys) - floats.Min(ys)) / 2, nil
}

// Peaks returns the local maxima of the position with positive value.
func Peaks(samples []dynamo.Sample) []dynamo.Sample {
	var out []dynamo.Sample
	for i := 1; i+1 < len(samples); i++ {
		prev, cur, next := samples[i-1].Y, samples[i].Y, samples[i+1].Y
		if cur > 0 && cur >= prev && cur > next {
			out = append(out, samples[i])
		}
	}
	return out
}

// Envelope estimates the exponential decay rate λ of y ∝ e^(-λt) from the
// log ratio of successive positive peaks. A viscous oscillator gives
// λ ≈ c/(2m).
func Envelope(samples []dynamo.Sample) (float64, error) {
	peaks := Peaks(samples)
	if len(peaks) < 2 {
		return 0, errors.Wrap(dynamo.ErrEmptyHistory, "need two peaks")
	}

	rates := make([]float64, 0, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		a, b := peaks[i-1], peaks[i]
		if dt := b.T - a.T; dt > 0 {
			rates = append(rates, math.Log(a.Y/b.Y)/dt)
		}
	}
	if len(rates) == 0 {
		return 0, errors.Wrap(dynamo.ErrEmptyHistory, "peaks share a timestamp")
	}
	return floats.Sum(rates) / float64(len(rates)), nil
}

// Summary collects the analysis of one history.
type Summary struct {
	Samples     int     `json:"samples"`
	Amplitude   float64 `json:"amplitude"`
	MeanPeriod  float64 `json:"mean_period,omitempty"`
	Frequency   float64 `json:"frequency,omitempty"`
	DecayRate   float64 `json:"decay_rate,omitempty"`
	Crossings   int     `json:"crossings"`
	RMSPosition float64 `json:"rms_position"`
}

// Summarize runs every analysis that the history supports. Only an empty
// history is an error; measurements that need more data are left zero.
func Summarize(samples []dynamo.Sample) (Summary, error) {
	amp, err := Amplitude(samples)
	if err != nil {
		return Summary{}, err
	}
	ys := positions(samples)
	s := Summary{
		Samples:     len(samples),
		Amplitude:   amp,
		Crossings:   len(ZeroCrossings(samples)),
		RMSPosition: floats.Norm(ys, 2) / math.Sqrt(float64(len(ys))),
	}
	if p, err := MeanPeriod(samples); err == nil {
		s.MeanPeriod = p
	}
	if f, err := DominantFrequency(samples); err == nil {
		s.Frequency = f
	}
	if r, err := Envelope(samples); err == nil {
		s.DecayRate = r
	}
	return s, nil
}
