package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth         = 800.0
	DefaultHeight        = 600.0
	DefaultControlHeight = 60.0
	DefaultDt            = 1000.0 / 60.0
	DefaultGravity       = 0.4
	DefaultSegments      = 15
)

var ErrInvalidConfig = errors.New("config: invalid value")

type Config struct {
	Integrator string         `yaml:"integrator"`
	Seed       int64          `yaml:"seed"`
	Field      FieldConfig    `yaml:"field"`
	Physics    PhysicsConfig  `yaml:"physics"`
	Balloon    BalloonConfig  `yaml:"balloon"`
	Tail       TailConfig     `yaml:"tail"`
	Drift      DriftConfig    `yaml:"drift"`
	Squiggle   SquiggleConfig `yaml:"squiggle"`
	Panel      PanelConfig    `yaml:"panel"`
	Storage    StorageConfig  `yaml:"storage"`
}

type FieldConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	ControlHeight   float64 `yaml:"control_height"`
	ControlGap      float64 `yaml:"control_gap"`
	WallThickness   float64 `yaml:"wall_thickness"`
	TopMargin       float64 `yaml:"top_margin"`
	BottomMargin    float64 `yaml:"bottom_margin"`
	ReclampOnResize bool    `yaml:"reclamp_on_resize"`
}

// ControlOffset is the top of the playable area: the control strip's bottom
// edge plus the gap below it.
func (f FieldConfig) ControlOffset() float64 {
	return f.ControlHeight + f.ControlGap
}

type PhysicsConfig struct {
	Gravity              float64 `yaml:"gravity"`
	GravityScale         float64 `yaml:"gravity_scale"`
	Dt                   float64 `yaml:"dt"`
	ConstraintIterations int     `yaml:"constraint_iterations"`
	CollisionIterations  int     `yaml:"collision_iterations"`
}

type BalloonConfig struct {
	MinSize     float64 `yaml:"min_size"`
	MaxSize     float64 `yaml:"max_size"`
	Density     float64 `yaml:"density"`
	Restitution float64 `yaml:"restitution"`
	FrictionAir float64 `yaml:"friction_air"`
}

type TailConfig struct {
	Segments    int     `yaml:"segments"`
	Spacing     float64 `yaml:"spacing"`
	Radius      float64 `yaml:"radius"`
	Density     float64 `yaml:"density"`
	Stiffness   float64 `yaml:"stiffness"`
	FrictionAir float64 `yaml:"friction_air"`
	Restitution float64 `yaml:"restitution"`
}

type DriftConfig struct {
	PhaseStep      float64 `yaml:"phase_step"`
	Amplitude      float64 `yaml:"amplitude"`
	Gain           float64 `yaml:"gain"`
	Buoyancy       float64 `yaml:"buoyancy"`
	SwayAmplitude  float64 `yaml:"sway_amplitude"`
	SwayFrequency  float64 `yaml:"sway_frequency"`
	JitterStrength float64 `yaml:"jitter"`
}

type SquiggleConfig struct {
	Frequency  float64 `yaml:"frequency"`
	IndexPhase float64 `yaml:"index_phase"`
	AmplitudeK float64 `yaml:"amplitude_per_segment"`
	Disabled   bool    `yaml:"disabled"`
}

type PanelConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Gap    float64 `yaml:"gap"`
	Inset  float64 `yaml:"inset"`
}

type StorageConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
	Key  string `yaml:"key"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "verlet",
		Field: FieldConfig{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			ControlHeight: DefaultControlHeight,
			ControlGap:    10,
			WallThickness: 50,
			TopMargin:     20,
			BottomMargin:  50,
		},
		Physics: PhysicsConfig{
			Gravity:              DefaultGravity,
			GravityScale:         0.001,
			Dt:                   DefaultDt,
			ConstraintIterations: 2,
			CollisionIterations:  2,
		},
		Balloon: BalloonConfig{
			MinSize:     30,
			MaxSize:     50,
			Density:     0.001,
			Restitution: 0.6,
			FrictionAir: 0.08,
		},
		Tail: TailConfig{
			Segments:    DefaultSegments,
			Spacing:     8,
			Radius:      0.5,
			Density:     0.001,
			Stiffness:   0.7,
			FrictionAir: 0.12,
			Restitution: 0.4,
		},
		Drift: DriftConfig{
			PhaseStep:      0.005,
			Amplitude:      50,
			Gain:           0.00005,
			Buoyancy:       0.0042,
			SwayAmplitude:  0.0002,
			SwayFrequency:  0.5,
			JitterStrength: 0.0005,
		},
		Squiggle: SquiggleConfig{
			Frequency:  3,
			IndexPhase: 0.5,
			AmplitudeK: 0.4,
		},
		Panel: PanelConfig{
			Width:  220,
			Height: 140,
			Gap:    15,
			Inset:  10,
		},
		Storage: StorageConfig{
			File: "skyfloat.json",
			Key:  "balloons",
		},
	}
}

// Load reads a yaml file over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.Overlay(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Overlay reads a yaml file over c, keeping every value the file leaves out.
func (c *Config) Overlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Field.Width <= 0 || c.Field.Height <= 0:
		return fmt.Errorf("%w: field must be positive, got %vx%v", ErrInvalidConfig, c.Field.Width, c.Field.Height)
	case c.Physics.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive", ErrInvalidConfig)
	case c.Balloon.MinSize <= 0 || c.Balloon.MaxSize < c.Balloon.MinSize:
		return fmt.Errorf("%w: balloon size range [%v, %v]", ErrInvalidConfig, c.Balloon.MinSize, c.Balloon.MaxSize)
	case c.Tail.Segments < 1:
		return fmt.Errorf("%w: tail needs at least one segment", ErrInvalidConfig)
	case c.Tail.Stiffness <= 0 || c.Tail.Stiffness > 1:
		return fmt.Errorf("%w: tail stiffness %v outside (0, 1]", ErrInvalidConfig, c.Tail.Stiffness)
	case c.Storage.Key == "":
		return fmt.Errorf("%w: storage key is empty", ErrInvalidConfig)
	}
	return nil
}
