package dynamo

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Integrator advances a single dynamic body by dt milliseconds using the
// forces accumulated on it.
type Integrator interface {
	Integrate(b *Body, dt float64)
}

// Observer is notified after every completed step.
type Observer interface {
	OnStep(w *World, step int)
}

type WorldConfig struct {
	Gravity              r2.Vec
	GravityScale         float64
	Dt                   float64
	ConstraintIterations int
	CollisionIterations  int
}

func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Gravity:              r2.Vec{X: 0, Y: 1},
		GravityScale:         0.001,
		Dt:                   1000.0 / 60.0,
		ConstraintIterations: 2,
		CollisionIterations:  2,
	}
}

// Composite groups bodies and constraints that live and die together.
type Composite struct {
	Label       string
	Bodies      []*Body
	Constraints []*Constraint
}

type World struct {
	cfg         WorldConfig
	integrator  Integrator
	bodies      []*Body
	constraints []*Constraint
	index       map[uint64]*Body
	observers   []Observer
	steps       int
}

func NewWorld(cfg WorldConfig, integrator Integrator) *World {
	if cfg.ConstraintIterations < 1 {
		cfg.ConstraintIterations = 1
	}
	if cfg.CollisionIterations < 1 {
		cfg.CollisionIterations = 1
	}
	return &World{
		cfg:        cfg,
		integrator: integrator,
		index:      make(map[uint64]*Body),
	}
}

func (w *World) Config() WorldConfig        { return w.cfg }
func (w *World) Steps() int                 { return w.steps }
func (w *World) AddObserver(o Observer)     { w.observers = append(w.observers, o) }
func (w *World) Bodies() []*Body            { return w.bodies }
func (w *World) Constraints() []*Constraint { return w.constraints }

func (w *World) Contains(b *Body) bool {
	_, ok := w.index[b.ID]
	return ok
}

// Add inserts loose bodies; bodies already present are skipped.
func (w *World) Add(bodies ...*Body) {
	for _, b := range bodies {
		if w.Contains(b) {
			continue
		}
		w.bodies = append(w.bodies, b)
		w.index[b.ID] = b
	}
}

// Remove deletes loose bodies and any constraint touching them.
func (w *World) Remove(bodies ...*Body) {
	drop := make(map[uint64]bool, len(bodies))
	for _, b := range bodies {
		drop[b.ID] = true
		delete(w.index, b.ID)
	}
	w.bodies = filterBodies(w.bodies, drop)
	w.constraints = filterConstraints(w.constraints, drop)
}

// AddComposite inserts every body and constraint of c, or nothing when any
// of its bodies is already present or has no extent.
func (w *World) AddComposite(c *Composite) error {
	for _, b := range c.Bodies {
		if !b.validShape() {
			return &CompositeError{Label: c.Label, BodyID: b.ID, Wrapped: ErrInvalidShape}
		}
		if w.Contains(b) {
			return &CompositeError{Label: c.Label, BodyID: b.ID, Wrapped: ErrDuplicateBody}
		}
	}
	w.Add(c.Bodies...)
	w.constraints = append(w.constraints, c.Constraints...)
	return nil
}

// RemoveComposite removes every body and constraint of c, or nothing when
// any of its bodies is missing.
func (w *World) RemoveComposite(c *Composite) error {
	for _, b := range c.Bodies {
		if !w.Contains(b) {
			return &CompositeError{Label: c.Label, BodyID: b.ID, Wrapped: ErrUnknownBody}
		}
	}
	w.Remove(c.Bodies...)
	return nil
}

// Step advances the world once: gravity, integration, constraints,
// collisions, then force clearing.
func (w *World) Step() {
	dt := w.cfg.Dt
	g := r2.Scale(w.cfg.GravityScale, w.cfg.Gravity)

	for _, b := range w.bodies {
		if b.static {
			continue
		}
		b.Force = r2.Add(b.Force, r2.Scale(b.Mass, g))
		w.integrator.Integrate(b, dt)
	}

	for i := 0; i < w.cfg.ConstraintIterations; i++ {
		for _, c := range w.constraints {
			c.solve()
		}
	}

	for i := 0; i < w.cfg.CollisionIterations; i++ {
		w.collide()
	}

	for _, b := range w.bodies {
		b.Force = r2.Vec{}
		b.Torque = 0
	}

	w.steps++
	for _, o := range w.observers {
		o.OnStep(w, w.steps)
	}
}

func (w *World) collide() {
	n := len(w.bodies)
	for i := 0; i < n; i++ {
		a := w.bodies[i]
		for j := i + 1; j < n; j++ {
			b := w.bodies[j]
			if a.static && b.static {
				continue
			}
			if !CanCollide(a.Filter, b.Filter) {
				continue
			}
			if k, ok := detect(a, b); ok {
				k.resolve()
			}
		}
	}
}

func filterBodies(bodies []*Body, drop map[uint64]bool) []*Body {
	kept := bodies[:0]
	for _, b := range bodies {
		if !drop[b.ID] {
			kept = append(kept, b)
		}
	}
	for i := len(kept); i < len(bodies); i++ {
		bodies[i] = nil
	}
	return kept
}

func filterConstraints(cs []*Constraint, drop map[uint64]bool) []*Constraint {
	kept := cs[:0]
	for _, c := range cs {
		if !drop[c.BodyA.ID] && !drop[c.BodyB.ID] {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(cs); i++ {
		cs[i] = nil
	}
	return kept
}
