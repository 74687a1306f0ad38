package sim

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/physics"
)

// RunConfig drives an engine headlessly with evenly spaced synthetic frames.
type RunConfig struct {
	Frame    time.Duration
	Duration float64
	// Epoch is the timestamp of the first frame. Zero means a fixed origin.
	Epoch time.Time
}

// Observer sees every frame of a headless run.
type Observer interface {
	OnFrame(x dynamo.State, p dynamo.Params)
}

type Result struct {
	States      []dynamo.State
	History     []dynamo.Sample
	Params      dynamo.Params
	Metrics     map[string]float64
	Frames      int
	EnergyDrift float64
}

var runEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func (c RunConfig) validate() error {
	if c.Frame <= 0 {
		return errors.Wrapf(dynamo.ErrInvalidConfig, "frame interval must be positive, got %s", c.Frame)
	}
	if c.Duration <= 0 || math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) {
		return errors.Wrapf(dynamo.ErrInvalidConfig, "duration must be positive, got %f", c.Duration)
	}
	return nil
}

// Run starts the engine and feeds it frames until cfg.Duration of wall time
// has been simulated. Metrics are reset first and observe every frame.
func (e *Engine) Run(ctx context.Context, cfg RunConfig, metrics []dynamo.Metric, observers ...Observer) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	epoch := cfg.Epoch
	if epoch.IsZero() {
		epoch = runEpoch
	}

	frames := int(math.Round(cfg.Duration / cfg.Frame.Seconds()))
	result := &Result{
		States:  make([]dynamo.State, 0, frames+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range metrics {
		m.Reset()
	}

	e.Resync()
	e.Start()
	e.Tick(epoch)

	initial := physics.Energy(e.state, e.params)
	result.States = append(result.States, e.state)

	for i := 1; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		e.Tick(epoch.Add(time.Duration(i) * cfg.Frame))
		for _, m := range metrics {
			m.Observe(e.state, e.params)
		}
		for _, o := range observers {
			o.OnFrame(e.state, e.params)
		}
		result.States = append(result.States, e.state)
		result.Frames++
	}

	if initial != 0 {
		result.EnergyDrift = math.Abs(physics.Energy(e.state, e.params)-initial) / math.Abs(initial)
	}
	for _, m := range metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.History = e.History()
	result.Params = e.params
	return result, nil
}
