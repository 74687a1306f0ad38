package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/springlab/internal/dynamo"
)

var omega = math.Sqrt(10)

// decaying samples y = e^(-λt)·cos(ωt) every 0.05 s for 20 s.
func decaying(lambda float64) []dynamo.Sample {
	out := make([]dynamo.Sample, 400)
	for i := range out {
		t := float64(i) * 0.05
		out[i] = dynamo.Sample{T: t, Y: math.Exp(-lambda*t) * math.Cos(omega*t)}
	}
	return out
}

func TestPeriods(t *testing.T) {
	want := 2 * math.Pi / omega
	for _, lambda := range []float64{0, 0.25} {
		ps := Periods(decaying(lambda))
		if len(ps) < 8 {
			t.Fatalf("λ=%v: only %d periods", lambda, len(ps))
		}
		for i, p := range ps {
			if math.Abs(p-want) > 1e-3 {
				t.Errorf("λ=%v: period %d = %f, want %f", lambda, i, p, want)
			}
		}
	}
}

func TestMeanPeriod_TooShort(t *testing.T) {
	_, err := MeanPeriod(decaying(0)[:10])
	if !errors.Is(err, dynamo.ErrEmptyHistory) {
		t.Errorf("err = %v, want ErrEmptyHistory", err)
	}
}

func TestDominantFrequency(t *testing.T) {
	got, err := DominantFrequency(decaying(0))
	if err != nil {
		t.Fatal(err)
	}
	want := omega / (2 * math.Pi)
	if math.Abs(got-want)/want > 0.02 {
		t.Errorf("frequency = %f Hz, want %f Hz", got, want)
	}

	if _, err := DominantFrequency(decaying(0)[:4]); !errors.Is(err, dynamo.ErrEmptyHistory) {
		t.Errorf("short history err = %v", err)
	}
}

func TestAmplitude(t *testing.T) {
	got, err := Amplitude(decaying(0))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-1) > 0.01 {
		t.Errorf("amplitude = %f, want ~1", got)
	}
	if _, err := Amplitude(nil); !errors.Is(err, dynamo.ErrEmptyHistory) {
		t.Errorf("empty err = %v", err)
	}
}

func TestEnvelope(t *testing.T) {
	tests := []struct {
		lambda float64
	}{
		{0},
		{0.25},
		{0.5},
	}
	for _, tt := range tests {
		got, err := Envelope(decaying(tt.lambda))
		if err != nil {
			t.Fatalf("λ=%v: %v", tt.lambda, err)
		}
		if math.Abs(got-tt.lambda) > 0.02 {
			t.Errorf("decay rate = %f, want %f", got, tt.lambda)
		}
	}
}

func TestResample_Uniform(t *testing.T) {
	in := []dynamo.Sample{{T: 0, Y: 0}, {T: 1, Y: 1}, {T: 3, Y: -1}}
	ys, dt := Resample(in, 4)
	if dt != 1 {
		t.Fatalf("dt = %f, want 1", dt)
	}
	want := []float64{0, 1, 0, -1}
	for i := range want {
		if math.Abs(ys[i]-want[i]) > 1e-12 {
			t.Errorf("ys[%d] = %f, want %f", i, ys[i], want[i])
		}
	}
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(decaying(0.25))
	if err != nil {
		t.Fatal(err)
	}
	if s.Samples != 400 || s.Crossings < 8 {
		t.Errorf("summary = %+v", s)
	}
	if s.MeanPeriod == 0 || s.Frequency == 0 || s.DecayRate == 0 {
		t.Errorf("summary left measurements empty: %+v", s)
	}

	short, err := Summarize(decaying(0)[:3])
	if err != nil {
		t.Fatal(err)
	}
	if short.MeanPeriod != 0 || short.Frequency != 0 {
		t.Errorf("short summary = %+v", short)
	}
}

func TestPhasePortraitToASCII(t *testing.T) {
	states := make([]dynamo.State, 200)
	for i := range states {
		tt := float64(i) * 0.02
		states[i] = dynamo.State{Position: math.Cos(omega * tt), Velocity: -omega * math.Sin(omega*tt), Time: tt}
	}
	out := PhasePortraitToASCII(NewPhasePortrait(states), 40, 12)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 12 {
		t.Fatalf("got %d lines, want 12", len(lines))
	}
	if !strings.Contains(out, "•") || !strings.Contains(out, "│") {
		t.Errorf("portrait missing points or axis:\n%s", out)
	}
	if PhasePortraitToASCII(nil, 40, 12) != "" {
		t.Error("nil portrait should render empty")
	}
}
