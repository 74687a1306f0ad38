package config

import (
	"math"
	"sort"
)

func preset(mass, stiffness, damping float64) *Config {
	cfg := DefaultConfig()
	cfg.Params.Mass = mass
	cfg.Params.Stiffness = stiffness
	cfg.Params.Damping = damping
	return cfg
}

var Presets = map[string]*Config{
	"undamped":   preset(1, 10, 0),
	"light":      preset(1, 10, 0.5),
	"critical":   preset(1, 10, 2*math.Sqrt(10)),
	"overdamped": preset(1, 10, 15),
	"stiff":      preset(1, 200, 1),
	"heavy":      preset(10, 10, 1),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
