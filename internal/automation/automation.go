package automation

import (
	"context"
	"math"
	"os"
	"sort"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/physics"
	"github.com/san-kum/springlab/internal/sim"
)

// Scenario is a scripted session: user actions replayed at fixed simulated
// wall times against a headless engine.
type Scenario struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Preset      string   `yaml:"preset,omitempty"`
	Integrator  string   `yaml:"integrator,omitempty"`
	Duration    float64  `yaml:"duration"`
	Actions     []Action `yaml:"actions"`
}

// Action is one step of a scenario. Position is used by move; the
// parameter fields by set, where unset fields keep their value.
type Action struct {
	At        float64  `yaml:"at"`
	Do        string   `yaml:"do"`
	Position  *float64 `yaml:"position,omitempty"`
	Mass      *float64 `yaml:"mass,omitempty"`
	Stiffness *float64 `yaml:"stiffness,omitempty"`
	Damping   *float64 `yaml:"damping,omitempty"`
}

const (
	ActStart   = "start"
	ActStop    = "stop"
	ActToggle  = "toggle"
	ActReset   = "reset"
	ActGrab    = "grab"
	ActMove    = "move"
	ActRelease = "release"
	ActSet     = "set"
)

var scenarioEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, "parse scenario %s", path)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (s *Scenario) Validate() error {
	if s.Duration <= 0 || math.IsNaN(s.Duration) {
		return errors.Wrapf(dynamo.ErrInvalidConfig, "scenario %q: duration must be positive", s.Name)
	}
	for i, a := range s.Actions {
		if a.At < 0 || math.IsNaN(a.At) {
			return errors.Wrapf(dynamo.ErrInvalidConfig, "action %d: negative time %f", i+1, a.At)
		}
		switch a.Do {
		case ActStart, ActStop, ActToggle, ActReset, ActGrab, ActRelease:
		case ActMove:
			if a.Position == nil {
				return errors.Wrapf(dynamo.ErrInvalidConfig, "action %d: move needs a position", i+1)
			}
		case ActSet:
			if a.Mass == nil && a.Stiffness == nil && a.Damping == nil {
				return errors.Wrapf(dynamo.ErrInvalidConfig, "action %d: set changes nothing", i+1)
			}
		default:
			return errors.Wrapf(dynamo.ErrInvalidConfig, "action %d: unknown action %q", i+1, a.Do)
		}
	}
	return nil
}

// Config resolves the scenario's preset and integrator over base.
func (s *Scenario) Config(base *config.Config) (*config.Config, error) {
	if base == nil {
		base = config.DefaultConfig()
	}
	cfg := *base
	if s.Preset != "" {
		p := config.GetPreset(s.Preset)
		if p == nil {
			return nil, errors.Wrapf(dynamo.ErrInvalidConfig, "unknown preset %q", s.Preset)
		}
		cfg.Params = p.Params
	}
	if s.Integrator != "" {
		cfg.Run.Integrator = s.Integrator
	}
	cfg.Run.Duration = s.Duration
	return &cfg, nil
}

type ScenarioResult struct {
	Name    string
	Result  *sim.Result
	Modes   []dynamo.Mode
	Applied int
}

// RunScenario replays the scenario frame by frame. Actions due at or before
// a frame's time are applied, in order, before that frame is ticked; pointer
// actions carry the frame's timestamp.
func RunScenario(ctx context.Context, sc *Scenario, base *config.Config, logger *log.Logger) (*ScenarioResult, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	cfg, err := sc.Config(base)
	if err != nil {
		return nil, err
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return nil, err
	}

	actions := append([]Action(nil), sc.Actions...)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].At < actions[j].At })

	frame := cfg.FrameInterval()
	frames := int(math.Round(sc.Duration / frame.Seconds()))
	out := &ScenarioResult{
		Name: sc.Name,
		Result: &sim.Result{
			States:  make([]dynamo.State, 0, frames+1),
			Metrics: make(map[string]float64),
		},
		Modes: make([]dynamo.Mode, 0, frames+1),
	}

	initial := physics.Energy(engine.State(), engine.Params())
	next := 0
	for i := 0; i <= frames; i++ {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		now := scenarioEpoch.Add(time.Duration(i) * frame)
		t := float64(i) * frame.Seconds()
		for next < len(actions) && actions[next].At <= t+1e-9 {
			apply(engine, actions[next], now)
			logger.Debugf("t=%.3f %s -> %s", t, actions[next].Do, engine.Mode())
			next++
			out.Applied++
		}

		engine.Tick(now)
		out.Result.States = append(out.Result.States, engine.State())
		out.Modes = append(out.Modes, engine.Mode())
		if i > 0 {
			out.Result.Frames++
		}
	}

	res := out.Result
	res.History = engine.History()
	res.Params = engine.Params()
	if initial != 0 {
		res.EnergyDrift = math.Abs(physics.Energy(engine.State(), engine.Params())-initial) / math.Abs(initial)
	}
	final := engine.State()
	res.Metrics["final_position"] = final.Position
	res.Metrics["final_velocity"] = final.Velocity
	res.Metrics["final_energy"] = physics.Energy(final, res.Params)

	if next < len(actions) {
		logger.Warnf("%d actions scheduled after the end of scenario %q", len(actions)-next, sc.Name)
	}
	return out, nil
}

func apply(e *sim.Engine, a Action, now time.Time) {
	switch a.Do {
	case ActStart:
		e.Start()
	case ActStop:
		e.Stop()
	case ActToggle:
		e.Toggle()
	case ActReset:
		e.Reset()
	case ActGrab:
		e.BeginDrag(now)
	case ActMove:
		e.DragTo(*a.Position, now)
	case ActRelease:
		e.EndDrag()
	case ActSet:
		p := e.Params()
		if a.Mass != nil {
			p.Mass = *a.Mass
		}
		if a.Stiffness != nil {
			p.Stiffness = *a.Stiffness
		}
		if a.Damping != nil {
			p.Damping = *a.Damping
		}
		e.SetParams(p)
	}
}
