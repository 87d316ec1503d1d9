// Package metrics summarizes how the field behaves over a run.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/dynamo"
)

// Metric accumulates one number over the steps it observes.
type Metric interface {
	Name() string
	Observe(balloons []*balloon.Balloon)
	Value() float64
	Reset()
}

// Bounds decides whether a point is inside the field. *field.Field
// satisfies it, so containment follows resizes.
type Bounds interface {
	Contains(p r2.Vec) bool
}

// Defaults returns the metrics the run command reports.
func Defaults(bounds Bounds) []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewHeightError(),
		NewForceEffort(),
		NewContainment(bounds),
	}
}

// Recorder feeds metrics from a world's step notifications.
type Recorder struct {
	Metrics  []Metric
	Balloons func() []*balloon.Balloon
}

// OnStep implements dynamo.Observer.
func (r *Recorder) OnStep(_ *dynamo.World, _ int) {
	bs := r.Balloons()
	for _, m := range r.Metrics {
		m.Observe(bs)
	}
}

// KineticEnergy is the mean total translational energy of free balloons,
// with velocity measured in units per step.
type KineticEnergy struct {
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy { return &KineticEnergy{} }

func (k *KineticEnergy) Name() string { return "kinetic_energy" }

func (k *KineticEnergy) Observe(balloons []*balloon.Balloon) {
	e := 0.0
	for _, b := range balloons {
		if b.Body.IsStatic() {
			continue
		}
		v := b.Body.Velocity()
		e += 0.5 * b.Body.Mass * r2.Norm2(v)
	}
	k.total += e
	k.samples++
}

func (k *KineticEnergy) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *KineticEnergy) Reset() {
	k.total = 0
	k.samples = 0
}

// HeightError is the mean distance between a balloon and its stored target.
type HeightError struct {
	total   float64
	samples int
}

func NewHeightError() *HeightError { return &HeightError{} }

func (h *HeightError) Name() string { return "height_error" }

func (h *HeightError) Observe(balloons []*balloon.Balloon) {
	for _, b := range balloons {
		h.total += math.Abs(b.Body.Position.Y - b.TargetY)
		h.samples++
	}
}

func (h *HeightError) Value() float64 {
	if h.samples == 0 {
		return 0
	}
	return h.total / float64(h.samples)
}

func (h *HeightError) Reset() {
	h.total = 0
	h.samples = 0
}

// ForceEffort is the mean magnitude of the drift force per balloon-step.
type ForceEffort struct {
	total   float64
	samples int
}

func NewForceEffort() *ForceEffort { return &ForceEffort{} }

func (f *ForceEffort) Name() string { return "force_effort" }

func (f *ForceEffort) Observe(balloons []*balloon.Balloon) {
	for _, b := range balloons {
		f.total += r2.Norm(b.LastForce)
		f.samples++
	}
}

func (f *ForceEffort) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.total / float64(f.samples)
}

func (f *ForceEffort) Reset() {
	f.total = 0
	f.samples = 0
}

// Containment is the share of steps on which every balloon center was
// inside the field.
type Containment struct {
	bounds     Bounds
	violations int
	samples    int
}

func NewContainment(bounds Bounds) *Containment {
	return &Containment{bounds: bounds}
}

func (c *Containment) Name() string { return "containment" }

func (c *Containment) Observe(balloons []*balloon.Balloon) {
	c.samples++
	for _, b := range balloons {
		if !c.bounds.Contains(b.Body.Position) {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
