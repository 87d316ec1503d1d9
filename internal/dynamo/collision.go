package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// contact describes an overlap; Normal points from A to B.
type contact struct {
	a, b   *Body
	normal r2.Vec
	depth  float64
}

func detect(a, b *Body) (contact, bool) {
	switch {
	case a.Shape == ShapeCircle && b.Shape == ShapeCircle:
		return circleCircle(a, b)
	case a.Shape == ShapeCircle && b.Shape == ShapeRectangle:
		return circleRect(a, b)
	case a.Shape == ShapeRectangle && b.Shape == ShapeCircle:
		c, ok := circleRect(b, a)
		if !ok {
			return c, false
		}
		return contact{a: a, b: b, normal: r2.Scale(-1, c.normal), depth: c.depth}, true
	}
	return contact{}, false
}

func circleCircle(a, b *Body) (contact, bool) {
	delta := r2.Sub(b.Position, a.Position)
	dist2 := r2.Norm2(delta)
	radii := a.Radius + b.Radius
	if dist2 >= radii*radii {
		return contact{}, false
	}
	dist := math.Sqrt(dist2)
	normal := r2.Vec{X: 0, Y: 1}
	if dist > 1e-9 {
		normal = r2.Scale(1/dist, delta)
	}
	return contact{a: a, b: b, normal: normal, depth: radii - dist}, true
}

// circleRect treats the rectangle as axis aligned; walls never rotate.
func circleRect(c, r *Body) (contact, bool) {
	min, max := r.Bounds()
	closest := r2.Vec{
		X: math.Max(min.X, math.Min(c.Position.X, max.X)),
		Y: math.Max(min.Y, math.Min(c.Position.Y, max.Y)),
	}
	delta := r2.Sub(closest, c.Position)
	dist2 := r2.Norm2(delta)

	if dist2 > 1e-18 {
		if dist2 >= c.Radius*c.Radius {
			return contact{}, false
		}
		dist := math.Sqrt(dist2)
		return contact{a: c, b: r, normal: r2.Scale(1/dist, delta), depth: c.Radius - dist}, true
	}

	// Center inside the rectangle: push out through the nearest face.
	left := c.Position.X - min.X
	right := max.X - c.Position.X
	top := c.Position.Y - min.Y
	bottom := max.Y - c.Position.Y
	best := left
	normal := r2.Vec{X: 1}
	if right < best {
		best, normal = right, r2.Vec{X: -1}
	}
	if top < best {
		best, normal = top, r2.Vec{Y: 1}
	}
	if bottom < best {
		best, normal = bottom, r2.Vec{Y: -1}
	}
	return contact{a: c, b: r, normal: normal, depth: best + c.Radius}, true
}

func (k contact) resolve() {
	a, b := k.a, k.b
	total := a.InvMass + b.InvMass
	if total == 0 {
		return
	}

	corr := r2.Scale(k.depth/total, k.normal)
	a.translate(r2.Scale(-a.InvMass, corr))
	b.translate(r2.Scale(b.InvMass, corr))

	va, vb := a.Velocity(), b.Velocity()
	rel := r2.Dot(r2.Sub(vb, va), k.normal)
	if rel >= 0 {
		return
	}
	e := math.Max(a.Restitution, b.Restitution)
	j := -(1 + e) * rel / total
	va = r2.Sub(va, r2.Scale(j*a.InvMass, k.normal))
	vb = r2.Add(vb, r2.Scale(j*b.InvMass, k.normal))
	a.PositionPrev = r2.Sub(a.Position, va)
	b.PositionPrev = r2.Sub(b.Position, vb)
}
