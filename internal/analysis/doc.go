// Package analysis measures recorded oscillator histories.
//
//   - [ZeroCrossings] and [Periods]: upward zero crossings and the intervals between them
//   - [DominantFrequency]: spectral peak of the resampled position signal
//   - [Amplitude] and [Envelope]: peak size and exponential decay rate
//   - [PhasePortrait]: (y, v) trajectory with an ASCII renderer
//
// A damped oscillator should show an envelope rate close to c/(2m):
//
//	rate, err := analysis.Envelope(samples)
//	if err == nil && rate > 0 {
//	    // decaying
//	}
package analysis
