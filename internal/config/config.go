package config

import (
	"math"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/history"
	"github.com/san-kum/springlab/internal/integrators"
	"github.com/san-kum/springlab/internal/interact"
	"github.com/san-kum/springlab/internal/sim"
)

const (
	DefaultDuration  = 20.0
	DefaultFrameRate = sim.DefaultFrameRate
)

type Config struct {
	Params dynamo.Params `yaml:"params"`
	Init   InitConfig    `yaml:"init"`
	Engine EngineConfig  `yaml:"engine"`
	Run    RunConfig     `yaml:"run"`
}

type InitConfig struct {
	Position float64 `yaml:"position"`
	Velocity float64 `yaml:"velocity"`
}

type EngineConfig struct {
	SubSteps        int           `yaml:"sub_steps"`
	MaxFrameDelta   time.Duration `yaml:"max_frame_delta"`
	SampleInterval  float64       `yaml:"sample_interval"`
	HistoryCap      int           `yaml:"history_cap"`
	DragThrottle    time.Duration `yaml:"drag_throttle"`
	DragSmoothing   float64       `yaml:"drag_smoothing"`
	PublishInterval time.Duration `yaml:"publish_interval"`
	FrameRate       int           `yaml:"frame_rate"`
}

type RunConfig struct {
	Duration   float64 `yaml:"duration"`
	Integrator string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Params: dynamo.DefaultParams(),
		Init:   InitConfig{Position: dynamo.DefaultPosition},
		Engine: EngineConfig{
			SubSteps:        integrators.DefaultSubSteps,
			MaxFrameDelta:   16 * time.Millisecond,
			SampleInterval:  history.DefaultInterval,
			HistoryCap:      history.DefaultCapacity,
			DragThrottle:    interact.DefaultThrottle,
			DragSmoothing:   interact.DefaultSmoothing,
			PublishInterval: sim.DefaultPublishInterval,
			FrameRate:       DefaultFrameRate,
		},
		Run: RunConfig{
			Duration:   DefaultDuration,
			Integrator: integrators.Default,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

// Validate rejects settings the engine cannot run with. Physical parameters
// are clamped by the engine and never rejected here.
func (c *Config) Validate() error {
	e := c.Engine
	switch {
	case e.SubSteps <= 0:
		return invalid("sub_steps must be positive, got %d", e.SubSteps)
	case e.MaxFrameDelta <= 0:
		return invalid("max_frame_delta must be positive, got %s", e.MaxFrameDelta)
	case e.SampleInterval < 0 || math.IsNaN(e.SampleInterval):
		return invalid("sample_interval must not be negative, got %f", e.SampleInterval)
	case e.HistoryCap <= 0:
		return invalid("history_cap must be positive, got %d", e.HistoryCap)
	case e.DragThrottle < 0:
		return invalid("drag_throttle must not be negative, got %s", e.DragThrottle)
	case e.DragSmoothing < 0 || e.DragSmoothing > 1 || math.IsNaN(e.DragSmoothing):
		return invalid("drag_smoothing must be within [0, 1], got %f", e.DragSmoothing)
	case e.PublishInterval < 0:
		return invalid("publish_interval must not be negative, got %s", e.PublishInterval)
	case e.FrameRate <= 0:
		return invalid("frame_rate must be positive, got %d", e.FrameRate)
	case c.Run.Duration <= 0 || math.IsNaN(c.Run.Duration) || math.IsInf(c.Run.Duration, 0):
		return invalid("run duration must be positive, got %f", c.Run.Duration)
	case math.IsNaN(c.Init.Position) || math.IsInf(c.Init.Position, 0) ||
		math.IsNaN(c.Init.Velocity) || math.IsInf(c.Init.Velocity, 0):
		return invalid("initial state must be finite")
	}
	if _, err := integrators.Lookup(c.Run.Integrator); err != nil {
		return err
	}
	return nil
}

// SetParam sets one physical parameter by name. The value is bounded to
// the range the engine accepts.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "mass":
		c.Params.Mass = v
	case "stiffness":
		c.Params.Stiffness = v
	case "damping":
		c.Params.Damping = v
	default:
		return invalid("unknown parameter %q", name)
	}
	c.Params = c.Params.Bounded()
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(dynamo.ErrInvalidConfig, format, args...)
}

func (c *Config) InitState() dynamo.State {
	return dynamo.State{Position: c.Init.Position, Velocity: c.Init.Velocity}
}

// FrameInterval is the spacing of frames at the configured frame rate.
func (c *Config) FrameInterval() time.Duration {
	if c.Engine.FrameRate <= 0 {
		return time.Second / DefaultFrameRate
	}
	return time.Second / time.Duration(c.Engine.FrameRate)
}

func (c *Config) Settings() sim.Settings {
	return sim.Settings{
		MaxFrameDelta:   c.Engine.MaxFrameDelta,
		SampleInterval:  c.Engine.SampleInterval,
		HistoryCap:      c.Engine.HistoryCap,
		DragThrottle:    c.Engine.DragThrottle,
		DragSmoothing:   c.Engine.DragSmoothing,
		PublishInterval: c.Engine.PublishInterval,
		Initial:         c.InitState(),
	}
}

func (c *Config) Stepper() (dynamo.Stepper, error) {
	return integrators.New(c.Run.Integrator, c.Engine.SubSteps, c.Engine.MaxFrameDelta.Seconds())
}

// NewEngine validates the configuration and builds an engine from it.
func (c *Config) NewEngine() (*sim.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	stepper, err := c.Stepper()
	if err != nil {
		return nil, err
	}
	return sim.New(stepper, c.Params, c.Settings()), nil
}
