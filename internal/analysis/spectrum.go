package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/pkg/errors"

	"github.com/san-kum/springlab/internal/dynamo"
)

const minSpectrumSamples = 8

// PowerSpectrum returns the magnitude of the first half of the real FFT of data.
func PowerSpectrum(data []float64) []float64 {
	coeffs := fft.FFTReal(data)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// Resample linearly interpolates samples onto a uniform grid of n points
// spanning the recorded time range. It returns the grid spacing.
func Resample(samples []dynamo.Sample, n int) ([]float64, float64) {
	if len(samples) < 2 || n < 2 {
		return nil, 0
	}
	t0, t1 := samples[0].T, samples[len(samples)-1].T
	dt := (t1 - t0) / float64(n-1)
	out := make([]float64, n)
	j := 0
	for i := range out {
		t := t0 + float64(i)*dt
		for j < len(samples)-2 && samples[j+1].T < t {
			j++
		}
		a, b := samples[j], samples[j+1]
		if b.T == a.T {
			out[i] = b.Y
			continue
		}
		f := (t - a.T) / (b.T - a.T)
		out[i] = a.Y + f*(b.Y-a.Y)
	}
	return out, dt
}

// DominantFrequency estimates the strongest oscillation frequency in Hz.
// The signal is resampled uniformly, mean-centred and zero-padded to a power
// of two; the peak bin is refined by parabolic interpolation.
func DominantFrequency(samples []dynamo.Sample) (float64, error) {
	if len(samples) < minSpectrumSamples {
		return 0, errors.Wrapf(dynamo.ErrEmptyHistory, "have %d samples, need %d", len(samples), minSpectrumSamples)
	}
	ys, dt := Resample(samples, len(samples))
	if dt <= 0 {
		return 0, errors.Wrap(dynamo.ErrEmptyHistory, "samples span no time")
	}

	mean := 0.0
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	n := nextPow2(len(ys) * 4)
	padded := make([]float64, n)
	for i, y := range ys {
		padded[i] = y - mean
	}

	ps := PowerSpectrum(padded)
	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	if ps[peak] == 0 {
		return 0, nil
	}

	bin := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return bin / (float64(n) * dt), nil
}

func nextPow2(n int) int {
	return 1 << uint(math.Ceil(math.Log2(float64(n))))
}
