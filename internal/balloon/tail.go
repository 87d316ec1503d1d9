package balloon

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/dynamo"
)

// Tail is an ordered chain of point segments; Constraints[i] ties segment i
// to segment i-1, or to the balloon for i == 0.
type Tail struct {
	Segments    []*dynamo.Body
	Constraints []*dynamo.Constraint
}

var tailFilter = dynamo.Filter{Category: dynamo.CategoryTail, Mask: 0}

// BuildTail hangs a chain below anchor. The first link attaches at the bottom
// of the anchor circle rather than its center.
func BuildTail(anchor *dynamo.Body, size float64, cfg config.TailConfig) *Tail {
	t := &Tail{
		Segments:    make([]*dynamo.Body, 0, cfg.Segments),
		Constraints: make([]*dynamo.Constraint, 0, cfg.Segments),
	}
	x, y := anchor.Position.X, anchor.Position.Y
	prev := anchor
	for i := 0; i < cfg.Segments; i++ {
		seg := dynamo.NewCircle(x, y+size+float64(i)*cfg.Spacing, cfg.Radius, dynamo.BodyOptions{
			Label:       "tail",
			Density:     cfg.Density,
			FrictionAir: cfg.FrictionAir,
			Restitution: cfg.Restitution,
			Filter:      &tailFilter,
		})
		var point r2.Vec
		if i == 0 {
			point = r2.Vec{Y: size}
		}
		t.Segments = append(t.Segments, seg)
		t.Constraints = append(t.Constraints, dynamo.NewConstraint(prev, seg, point, cfg.Spacing, cfg.Stiffness))
		prev = seg
	}
	return t
}

func (t *Tail) Len() int { return len(t.Segments) }
