// Package balloon builds the entities of the field: a circular body, the
// tail chain hanging from it, and the task record they represent.
package balloon

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/dynamo"
)

type ID uint64

// Balloon is one task. It owns its body and tail exclusively.
type Balloon struct {
	ID       ID
	Text     string
	Category Category
	Color    string
	Size     float64
	TargetY  float64

	// DriftPhase drives bob, sway and squiggle. Not persisted.
	DriftPhase float64

	// LastForce is the force the drift controller applied on the latest
	// step; zero while held.
	LastForce r2.Vec

	Body *dynamo.Body
	Tail *Tail

	composite *dynamo.Composite
}

// Snapshot is the persisted part of a balloon.
type Snapshot struct {
	Text     string
	Category Category
	Color    string
	Size     float64
	TargetY  float64
}

func (b *Balloon) Snapshot() Snapshot {
	return Snapshot{
		Text:     b.Text,
		Category: b.Category,
		Color:    b.Color,
		Size:     b.Size,
		TargetY:  b.TargetY,
	}
}

// Composite groups the body, tail segments and tail constraints so the world
// adds and removes them together.
func (b *Balloon) Composite() *dynamo.Composite {
	if b.composite == nil {
		bodies := make([]*dynamo.Body, 0, 1+len(b.Tail.Segments))
		bodies = append(bodies, b.Body)
		bodies = append(bodies, b.Tail.Segments...)
		b.composite = &dynamo.Composite{
			Label:       fmt.Sprintf("balloon-%d", b.ID),
			Bodies:      bodies,
			Constraints: b.Tail.Constraints,
		}
	}
	return b.composite
}

func (b *Balloon) Position() r2.Vec { return b.Body.Position }
func (b *Balloon) Angle() float64   { return b.Body.Angle }

// Knot is the world position where the tail attaches, the bottom of the
// circle in the balloon's own frame.
func (b *Balloon) Knot() r2.Vec {
	return b.Body.LocalToWorld(r2.Vec{Y: b.Size})
}

// Contains reports whether p falls on the balloon's circle.
func (b *Balloon) Contains(p r2.Vec) bool {
	return b.Body.Contains(p)
}
