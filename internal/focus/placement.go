package focus

import "gonum.org/v1/gonum/spatial/r2"

type Side uint8

const (
	SideRight Side = iota
	SideLeft
)

func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Placement is the panel's top-left corner in field coordinates.
type Placement struct {
	Left float64
	Top  float64
	Side Side
}

// Place puts the panel to the right of the balloon, vertically centered,
// flipping to the left when it would overflow the right edge. The flip is
// decided on the unclamped position. Clamping runs afterwards, far edge
// first, so the top-left corner always stays inside the field.
func Place(center r2.Vec, radius float64, l Layout) Placement {
	p := Placement{
		Left: center.X + radius + l.Gap,
		Top:  center.Y - l.Panel.Y/2,
		Side: SideRight,
	}
	if p.Left+l.Panel.X > l.Field.X {
		p.Left = center.X - radius - l.Panel.X - l.Gap
		p.Side = SideLeft
	}

	if p.Left+l.Panel.X > l.Field.X {
		p.Left = l.Field.X - l.Panel.X - l.Inset
	}
	if p.Left < 0 {
		p.Left = l.Inset
	}
	if p.Top+l.Panel.Y > l.Field.Y {
		p.Top = l.Field.Y - l.Panel.Y - l.Inset
	}
	if p.Top < 0 {
		p.Top = l.Inset
	}
	return p
}
