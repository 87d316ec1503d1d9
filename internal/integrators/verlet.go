package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/dynamo"
)

// Verlet is position Verlet with multiplicative air friction. Velocity is
// never stored; it is the distance travelled over the previous step.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Integrate(b *dynamo.Body, dt float64) {
	dt2 := dt * dt
	keep := 1 - b.FrictionAir

	vel := r2.Add(
		r2.Scale(keep, r2.Sub(b.Position, b.PositionPrev)),
		r2.Scale(b.InvMass*dt2, b.Force),
	)
	b.PositionPrev = b.Position
	b.Position = r2.Add(b.Position, vel)

	angVel := (b.Angle-b.AnglePrev)*keep + b.Torque*b.InvInertia*dt2
	b.AnglePrev = b.Angle
	b.Angle += angVel
}
