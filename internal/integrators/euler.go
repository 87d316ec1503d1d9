package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/dynamo"
)

// Euler is semi-implicit Euler: the force updates velocity first, then air
// friction damps the whole velocity, then position follows.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Integrate(b *dynamo.Body, dt float64) {
	if dt <= 0 {
		return
	}
	keep := 1 - b.FrictionAir

	vel := r2.Scale(1/dt, r2.Sub(b.Position, b.PositionPrev))
	vel = r2.Add(vel, r2.Scale(b.InvMass*dt, b.Force))
	vel = r2.Scale(keep, vel)
	b.PositionPrev = b.Position
	b.Position = r2.Add(b.Position, r2.Scale(dt, vel))

	angVel := ((b.Angle-b.AnglePrev)/dt + b.Torque*b.InvInertia*dt) * keep
	b.AnglePrev = b.Angle
	b.Angle += angVel * dt
}
