package history

import "testing"

func TestSampler_RespectsInterval(t *testing.T) {
	// binary-exact steps keep the interval arithmetic free of rounding
	const dt, interval = 1.0 / 64, 1.0 / 16
	s := NewSampler(interval, 100)

	recorded := 0
	for i := 1; i <= 64; i++ {
		if s.Observe(float64(i)*dt, 1) {
			recorded++
		}
	}

	if recorded != 16 {
		t.Errorf("expected 16 samples over 1s at 62.5ms, got %d", recorded)
	}

	samples := s.Samples()
	for i := 1; i < len(samples); i++ {
		if gap := samples[i].T - samples[i-1].T; gap < interval {
			t.Errorf("samples %d and %d only %.4fs apart", i-1, i, gap)
		}
	}
}

func TestSampler_FirstSampleNeedsInterval(t *testing.T) {
	s := NewSampler(0.05, 10)
	if s.Observe(0, 1) {
		t.Error("t=0 should not be sampled")
	}
	if s.Observe(0.049, 1) {
		t.Error("t=0.049 should not be sampled")
	}
	if !s.Observe(0.05, 1) {
		t.Error("t=0.05 should be sampled")
	}
}

func TestSampler_Reset(t *testing.T) {
	s := NewSampler(0.05, 10)
	s.Observe(1, 1)
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("expected empty history, got %d", s.Len())
	}
	if !s.Observe(0.05, 1) {
		t.Error("interval should restart from zero after reset")
	}
}
