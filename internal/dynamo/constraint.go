package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Constraint keeps two anchor points at a fixed distance. PointA and PointB
// are in body space and rotate with their bodies. Stiffness below 1 lets the
// link stretch a little each step, giving a supple thread.
type Constraint struct {
	BodyA     *Body
	BodyB     *Body
	PointA    r2.Vec
	PointB    r2.Vec
	Length    float64
	Stiffness float64
}

// NewConstraint links a to b. A negative length uses the current distance
// between the anchors.
func NewConstraint(a, b *Body, pointA r2.Vec, length, stiffness float64) *Constraint {
	c := &Constraint{
		BodyA:     a,
		BodyB:     b,
		PointA:    pointA,
		Length:    length,
		Stiffness: stiffness,
	}
	if length < 0 {
		pa, pb := c.Anchors()
		c.Length = r2.Norm(r2.Sub(pb, pa))
	}
	return c
}

// Anchors returns both anchor points in world space.
func (c *Constraint) Anchors() (r2.Vec, r2.Vec) {
	return c.BodyA.LocalToWorld(c.PointA), c.BodyB.LocalToWorld(c.PointB)
}

// CurrentLength is the distance between the anchors right now.
func (c *Constraint) CurrentLength() float64 {
	pa, pb := c.Anchors()
	return r2.Norm(r2.Sub(pb, pa))
}

func (c *Constraint) solve() {
	a, b := c.BodyA, c.BodyB
	rA := r2.Rotate(c.PointA, a.Angle, r2.Vec{})
	rB := r2.Rotate(c.PointB, b.Angle, r2.Vec{})
	pa := r2.Add(a.Position, rA)
	pb := r2.Add(b.Position, rB)

	delta := r2.Sub(pb, pa)
	dist := r2.Norm(delta)
	if dist < 1e-9 {
		return
	}
	n := r2.Scale(1/dist, delta)
	stretch := dist - c.Length

	crossA := r2.Cross(rA, n)
	crossB := r2.Cross(rB, n)
	wA := a.InvMass + a.InvInertia*crossA*crossA
	wB := b.InvMass + b.InvInertia*crossB*crossB
	if wA+wB == 0 || math.IsNaN(wA+wB) {
		return
	}

	impulse := r2.Scale(stretch*c.Stiffness/(wA+wB), n)

	a.Position = r2.Add(a.Position, r2.Scale(a.InvMass, impulse))
	a.Angle += r2.Cross(rA, impulse) * a.InvInertia
	b.Position = r2.Sub(b.Position, r2.Scale(b.InvMass, impulse))
	b.Angle -= r2.Cross(rB, impulse) * b.InvInertia
}
