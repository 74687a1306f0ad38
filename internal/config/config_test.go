package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/springlab/internal/dynamo"
	"github.com/san-kum/springlab/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Params != dynamo.DefaultParams() {
		t.Errorf("params = %+v", cfg.Params)
	}
	if cfg.Init.Position != dynamo.DefaultPosition {
		t.Errorf("init position = %f", cfg.Init.Position)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if cfg.FrameInterval() != time.Second/120 {
		t.Errorf("frame interval = %s", cfg.FrameInterval())
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spring.yaml")
	data := []byte(`
params:
  mass: 2
  stiffness: 20
  damping: 0
engine:
  drag_throttle: 20ms
run:
  integrator: rk4
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.Mass != 2 || cfg.Params.Stiffness != 20 || cfg.Params.Damping != 0 {
		t.Errorf("params = %+v", cfg.Params)
	}
	if cfg.Engine.DragThrottle != 20*time.Millisecond {
		t.Errorf("drag throttle = %s", cfg.Engine.DragThrottle)
	}
	if cfg.Engine.HistoryCap != 500 || cfg.Run.Duration != DefaultDuration {
		t.Errorf("defaults lost: %+v %+v", cfg.Engine, cfg.Run)
	}
	if cfg.Run.Integrator != "rk4" {
		t.Errorf("integrator = %q", cfg.Run.Integrator)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := GetPreset("stiff")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("params: [1, 2"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sub-steps", func(c *Config) { c.Engine.SubSteps = 0 }},
		{"zero frame clamp", func(c *Config) { c.Engine.MaxFrameDelta = 0 }},
		{"zero history", func(c *Config) { c.Engine.HistoryCap = 0 }},
		{"smoothing above one", func(c *Config) { c.Engine.DragSmoothing = 1.5 }},
		{"zero frame rate", func(c *Config) { c.Engine.FrameRate = 0 }},
		{"negative duration", func(c *Config) { c.Run.Duration = -1 }},
		{"nan position", func(c *Config) { c.Init.Position = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Run.Integrator = "leapfrog"
	if err := cfg.Validate(); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("Validate() = %v, want ErrUnknownIntegrator", err)
	}
}

func TestValidate_ParamsAreClampedNotRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params = dynamo.Params{Mass: 0, Stiffness: -3, Damping: 1000}
	e, err := cfg.NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	p := e.Params()
	if p.Mass != dynamo.MinMass || p.Stiffness != dynamo.MinStiffness || p.Damping != dynamo.MaxDamping {
		t.Errorf("clamped params = %+v", p)
	}
}

func TestNewEngine_UsesConfiguredStepper(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Integrator = "analytic"
	cfg.Init = InitConfig{Position: 0.5, Velocity: 1}

	e, err := cfg.NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	if e.Stepper().Name() != "analytic" {
		t.Errorf("stepper = %s", e.Stepper().Name())
	}
	if got := e.State(); got.Position != 0.5 || got.Velocity != 1 {
		t.Errorf("initial state = %v", got)
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetParam("stiffness", 25); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetParam("mass", 0); err != nil {
		t.Fatal(err)
	}
	if cfg.Params.Stiffness != 25 || cfg.Params.Mass != dynamo.MinMass {
		t.Errorf("params = %+v", cfg.Params)
	}
	if err := cfg.SetParam("length", 1); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("SetParam(length) = %v, want ErrInvalidConfig", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("critical")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if got := physics.ClassifyDamping(physics.DampingRatio(cfg.Params)); got != physics.CriticallyDamped {
		t.Errorf("critical preset regime = %s", got)
	}

	cfg.Params.Mass = 99
	if Presets["critical"].Params.Mass == 99 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("got %d presets, want %d", len(names), len(Presets))
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
