package dynamo

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
)

// Collision categories used by the balloon field.
const (
	CategoryWall    uint32 = 0x0001
	CategoryBalloon uint32 = 0x0002
	CategoryTail    uint32 = 0x0004

	MaskAll uint32 = 0xFFFFFFFF
)

var bodyIDs atomic.Uint64

type Shape uint8

const (
	ShapeCircle Shape = iota
	ShapeRectangle
)

// Filter decides which bodies may touch. Two bodies collide only when each
// mask accepts the other's category.
type Filter struct {
	Category uint32
	Mask     uint32
}

// DefaultFilter collides with everything.
func DefaultFilter() Filter {
	return Filter{Category: 0x0001, Mask: MaskAll}
}

// CanCollide reports whether the two filters accept each other.
func CanCollide(a, b Filter) bool {
	return a.Mask&b.Category != 0 && b.Mask&a.Category != 0
}

type BodyOptions struct {
	Label           string
	Density         float64
	Restitution     float64
	FrictionAir     float64
	Filter          *Filter
	Static          bool
	InfiniteInertia bool
}

type massProps struct {
	mass, invMass       float64
	inertia, invInertia float64
}

// Body is a rigid body integrated with position Verlet: velocity is the
// difference between Position and PositionPrev over one step.
type Body struct {
	ID     uint64
	Label  string
	Shape  Shape
	Radius float64
	Width  float64
	Height float64

	Position     r2.Vec
	PositionPrev r2.Vec
	Angle        float64
	AnglePrev    float64
	Force        r2.Vec
	Torque       float64

	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64

	Restitution float64
	FrictionAir float64
	Filter      Filter

	static bool
	saved  massProps
}

// NewCircle builds a circular body centered on (x, y).
func NewCircle(x, y, radius float64, opts BodyOptions) *Body {
	b := newBody(x, y, opts)
	b.Shape = ShapeCircle
	b.Radius = radius
	mass := opts.Density * math.Pi * radius * radius
	b.setMass(mass, 0.5*mass*radius*radius, opts.InfiniteInertia)
	if opts.Static {
		b.SetStatic(true)
	}
	return b
}

// NewRectangle builds an axis-aligned rectangle centered on (x, y).
func NewRectangle(x, y, width, height float64, opts BodyOptions) *Body {
	b := newBody(x, y, opts)
	b.Shape = ShapeRectangle
	b.Width = width
	b.Height = height
	mass := opts.Density * width * height
	b.setMass(mass, mass*(width*width+height*height)/12, opts.InfiniteInertia)
	if opts.Static {
		b.SetStatic(true)
	}
	return b
}

func (b *Body) validShape() bool {
	if b.Shape == ShapeRectangle {
		return b.Width > 0 && b.Height > 0
	}
	return b.Radius > 0
}

func newBody(x, y float64, opts BodyOptions) *Body {
	filter := DefaultFilter()
	if opts.Filter != nil {
		filter = *opts.Filter
	}
	pos := r2.Vec{X: x, Y: y}
	return &Body{
		ID:           bodyIDs.Add(1),
		Label:        opts.Label,
		Position:     pos,
		PositionPrev: pos,
		Restitution:  opts.Restitution,
		FrictionAir:  opts.FrictionAir,
		Filter:       filter,
	}
}

func (b *Body) setMass(mass, inertia float64, infiniteInertia bool) {
	b.Mass = mass
	b.InvMass = 0
	if mass > 0 {
		b.InvMass = 1 / mass
	}
	b.Inertia = inertia
	b.InvInertia = 0
	if infiniteInertia {
		b.Inertia = math.Inf(1)
	} else if inertia > 0 {
		b.InvInertia = 1 / inertia
	}
}

func (b *Body) IsStatic() bool { return b.static }

// SetStatic freezes or releases the body. A frozen body has infinite mass and
// no velocity; releasing it restores the mass it had before and restarts it
// from rest.
func (b *Body) SetStatic(static bool) {
	if static == b.static {
		return
	}
	if static {
		b.saved = massProps{b.Mass, b.InvMass, b.Inertia, b.InvInertia}
		b.Mass, b.InvMass = math.Inf(1), 0
		b.Inertia, b.InvInertia = math.Inf(1), 0
	} else {
		b.Mass, b.InvMass = b.saved.mass, b.saved.invMass
		b.Inertia, b.InvInertia = b.saved.inertia, b.saved.invInertia
	}
	b.static = static
	b.PositionPrev = b.Position
	b.AnglePrev = b.Angle
	b.Force = r2.Vec{}
	b.Torque = 0
}

// SetPosition moves the body without changing its velocity.
func (b *Body) SetPosition(p r2.Vec) {
	delta := r2.Sub(p, b.Position)
	b.Position = p
	b.PositionPrev = r2.Add(b.PositionPrev, delta)
}

// SetAngle rotates the body without changing its angular velocity. Static
// bodies are left with zero angular velocity.
func (b *Body) SetAngle(angle float64) {
	delta := angle - b.Angle
	b.Angle = angle
	b.AnglePrev += delta
	if b.static {
		b.AnglePrev = angle
	}
}

// ApplyForce accumulates a force at the body's center for the next step.
func (b *Body) ApplyForce(f r2.Vec) {
	if b.static {
		return
	}
	b.Force = r2.Add(b.Force, f)
}

// Velocity is the displacement over the last step.
func (b *Body) Velocity() r2.Vec {
	return r2.Sub(b.Position, b.PositionPrev)
}

func (b *Body) AngularVelocity() float64 {
	return b.Angle - b.AnglePrev
}

// LocalToWorld maps a point in body space to world space.
func (b *Body) LocalToWorld(p r2.Vec) r2.Vec {
	return r2.Add(b.Position, r2.Rotate(p, b.Angle, r2.Vec{}))
}

func (b *Body) translate(d r2.Vec) {
	b.Position = r2.Add(b.Position, d)
	b.PositionPrev = r2.Add(b.PositionPrev, d)
}

// Bounds returns the axis-aligned extent of the body.
func (b *Body) Bounds() (min, max r2.Vec) {
	switch b.Shape {
	case ShapeRectangle:
		half := r2.Vec{X: b.Width / 2, Y: b.Height / 2}
		return r2.Sub(b.Position, half), r2.Add(b.Position, half)
	default:
		r := r2.Vec{X: b.Radius, Y: b.Radius}
		return r2.Sub(b.Position, r), r2.Add(b.Position, r)
	}
}

// Contains reports whether p lies inside the body's shape.
func (b *Body) Contains(p r2.Vec) bool {
	if b.Shape == ShapeCircle {
		return r2.Norm2(r2.Sub(p, b.Position)) <= b.Radius*b.Radius
	}
	min, max := b.Bounds()
	return p.X >= min.X && p.X <= max.X && p.Y >= min.Y && p.Y <= max.Y
}
