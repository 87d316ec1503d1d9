package control

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/rng"
)

type Drift struct {
	PhaseStep     float64
	Amplitude     float64
	Gain          float64
	Buoyancy      float64
	SwayAmplitude float64
	SwayFrequency float64
	Jitter        float64

	src rng.Source
}

func NewDrift(cfg config.DriftConfig, src rng.Source) *Drift {
	return &Drift{
		PhaseStep:     cfg.PhaseStep,
		Amplitude:     cfg.Amplitude,
		Gain:          cfg.Gain,
		Buoyancy:      cfg.Buoyancy,
		SwayAmplitude: cfg.SwayAmplitude,
		SwayFrequency: cfg.SwayFrequency,
		Jitter:        cfg.JitterStrength,
		src:           src,
	}
}

// Apply advances the phase of every free balloon and applies its force.
// Balloons for which held returns true are skipped and record a zero force.
func (d *Drift) Apply(balloons []*balloon.Balloon, held func(balloon.ID) bool) {
	for _, b := range balloons {
		if held != nil && held(b.ID) {
			b.LastForce = r2.Vec{}
			continue
		}
		b.DriftPhase += d.PhaseStep
		f := d.Force(b)
		b.Body.ApplyForce(f)
		b.LastForce = f
	}
}

// Target is the instantaneous height b is pulled toward. The stored
// TargetY is never modified.
func (d *Drift) Target(b *balloon.Balloon) float64 {
	return b.TargetY + d.Amplitude*math.Sin(b.DriftPhase)
}

// Force computes the drift force for b at its current phase without
// applying it. Each call draws one jitter sample.
func (d *Drift) Force(b *balloon.Balloon) r2.Vec {
	dy := d.Target(b) - b.Body.Position.Y
	vertical := dy * d.Gain
	buoyant := -d.Buoyancy * b.Body.Mass
	sway := d.SwayAmplitude * math.Sin(b.DriftPhase*d.SwayFrequency)
	jitter := rng.Centered(d.src, d.Jitter)
	return r2.Vec{X: sway + jitter, Y: buoyant + vertical}
}

// GetParams returns tunable parameters for live adjustment
func (d *Drift) GetParams() map[string]float64 {
	return map[string]float64{
		"PhaseStep": d.PhaseStep,
		"Amplitude": d.Amplitude,
		"Gain":      d.Gain,
		"Buoyancy":  d.Buoyancy,
		"Sway":      d.SwayAmplitude,
		"Jitter":    d.Jitter,
	}
}

// SetParam adjusts a drift parameter
func (d *Drift) SetParam(name string, value float64) {
	switch name {
	case "PhaseStep":
		d.PhaseStep = value
	case "Amplitude":
		d.Amplitude = value
	case "Gain":
		d.Gain = value
	case "Buoyancy":
		d.Buoyancy = value
	case "Sway":
		d.SwayAmplitude = value
	case "Jitter":
		d.Jitter = value
	}
}
