package experiment

import (
	"context"

	"github.com/labstack/gommon/log"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/sim"
)

// Experiment is one headless run of the oscillator described by a config.
type Experiment struct {
	cfg       *config.Config
	log       *log.Logger
	metrics   []dynamo.Metric
	observers []sim.Observer
	engine    *sim.Engine
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Experiment{cfg: cfg, log: logger}
}

// Setup builds the engine. Without explicit metrics the default set is used.
func (e *Experiment) Setup(metrics ...dynamo.Metric) error {
	engine, err := e.cfg.NewEngine()
	if err != nil {
		return err
	}
	if len(metrics) == 0 {
		metrics = NewRegistry().DefaultMetrics()
	}
	e.engine = engine
	e.metrics = metrics
	return nil
}

func (e *Experiment) AddObserver(o sim.Observer) {
	e.observers = append(e.observers, o)
}

// RunConfig is the synthetic frame schedule of the experiment.
func (e *Experiment) RunConfig() sim.RunConfig {
	return sim.RunConfig{Frame: e.cfg.FrameInterval(), Duration: e.cfg.Run.Duration}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.engine == nil {
		if err := e.Setup(); err != nil {
			return nil, err
		}
	}
	rc := e.RunConfig()
	e.log.Debugf("running %s for %.2fs at %s per frame", e.engine.Stepper().Name(), rc.Duration, rc.Frame)

	res, err := e.engine.Run(ctx, rc, e.metrics, e.observers...)
	if err != nil {
		return res, err
	}
	e.log.Debugf("run finished: %d frames, %d samples, drift %.3g", res.Frames, len(res.History), res.EnergyDrift)
	return res, nil
}

// Engine is nil until Setup or Run has been called.
func (e *Experiment) Engine() *sim.Engine { return e.engine }

func (e *Experiment) Config() *config.Config { return e.cfg }
