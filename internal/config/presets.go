package config

import "sort"

// Presets tweak the drift feel on top of the defaults.
var Presets = map[string]func(*Config){
	"calm": func(c *Config) {
		c.Drift.PhaseStep = 0.003
		c.Drift.Amplitude = 30
		c.Drift.JitterStrength = 0.0002
		c.Drift.SwayAmplitude = 0.0001
		c.Balloon.FrictionAir = 0.1
	},
	"breezy": func(c *Config) {
		c.Drift.PhaseStep = 0.008
		c.Drift.SwayAmplitude = 0.0006
		c.Drift.JitterStrength = 0.0008
		c.Squiggle.AmplitudeK = 0.6
	},
	"lively": func(c *Config) {
		c.Drift.PhaseStep = 0.012
		c.Drift.Amplitude = 80
		c.Drift.Gain = 0.00008
		c.Drift.JitterStrength = 0.0015
		c.Balloon.Restitution = 0.8
		c.Balloon.FrictionAir = 0.05
		c.Tail.Stiffness = 0.5
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply layers the named preset over an existing config.
func (c *Config) Apply(name string) bool {
	apply, ok := Presets[name]
	if !ok {
		return false
	}
	apply(c)
	return true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
