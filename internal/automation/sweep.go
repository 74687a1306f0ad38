package automation

import (
	"context"
	"math"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/springlab/internal/analysis"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/physics"
	"github.com/san-kum/springlab/internal/sim"
)

// ParameterSweep varies one physical parameter over [Min, Max] in Steps
// evenly spaced values, starting every run from the configured state.
type ParameterSweep struct {
	Param     string
	Min, Max  float64
	Steps     int
	Threshold float64
}

// SweepResult holds results from a parameter sweep. Settling is -1 when the
// mass never stayed inside the threshold; Period is 0 when fewer than two
// upward crossings were recorded.
type SweepResult struct {
	Value     float64
	Regime    physics.Regime
	Settling  float64
	Period    float64
	Predicted float64
	Amplitude float64
	Final     dynamo.State
}

func (s *ParameterSweep) values() ([]float64, error) {
	if s.Steps < 1 {
		return nil, errors.Wrapf(dynamo.ErrInvalidConfig, "sweep needs at least one step, got %d", s.Steps)
	}
	if s.Max < s.Min {
		return nil, errors.Wrapf(dynamo.ErrInvalidConfig, "sweep range [%g, %g] is empty", s.Min, s.Max)
	}
	if s.Steps == 1 {
		return []float64{s.Min}, nil
	}
	return floats.Span(make([]float64, s.Steps), s.Min, s.Max), nil
}

// RunSweep runs every value of the sweep concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, base *config.Config, logger *log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if base == nil {
		base = config.DefaultConfig()
	}
	vals, err := sweep.values()
	if err != nil {
		return nil, err
	}
	threshold := sweep.Threshold
	if threshold <= 0 {
		threshold = 0.01
	}

	jobs := make([]sim.Job, len(vals))
	params := make([]dynamo.Params, len(vals))
	for i, v := range vals {
		cfg := *base
		if err := cfg.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		params[i] = cfg.Params
		engine, err := cfg.NewEngine()
		if err != nil {
			return nil, err
		}
		jobs[i] = sim.Job{
			Engine:  engine,
			Config:  sim.RunConfig{Frame: cfg.FrameInterval(), Duration: cfg.Run.Duration},
			Metrics: []dynamo.Metric{metrics.NewSettling(threshold), metrics.NewAmplitude()},
		}
	}

	logger.Debugf("sweeping %s over %d values", sweep.Param, len(vals))
	results, err := sim.NewEnsemble(jobs...).Run(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(vals))
	for i, res := range results {
		p := params[i]
		r := SweepResult{
			Value:     vals[i],
			Regime:    physics.ClassifyDamping(physics.DampingRatio(p)),
			Settling:  res.Metrics["settling_time"],
			Amplitude: res.Metrics["amplitude"],
			Predicted: physics.Period(p),
			Final:     res.States[len(res.States)-1],
		}
		if period, err := analysis.MeanPeriod(res.History); err == nil && !math.IsNaN(period) {
			r.Period = period
		}
		out[i] = r
		logger.Debugf("sweep %d/%d: %s=%.4f settle=%.2fs", i+1, len(vals), sweep.Param, vals[i], r.Settling)
	}
	return out, nil
}
