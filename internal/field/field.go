// Package field owns the playable area: the four static walls that keep
// balloons on screen and the vertical band their target heights live in.
package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/dynamo"
)

var ErrInvalidDimensions = errors.New("field: dimensions must be positive and finite")

// Wall indices into Walls().
const (
	Floor = iota
	Ceiling
	Left
	Right
)

var wallFilter = dynamo.Filter{Category: dynamo.CategoryWall, Mask: dynamo.MaskAll}

type Field struct {
	width         float64
	height        float64
	controlOffset float64
	thickness     float64
	topMargin     float64
	bottomMargin  float64

	walls [4]*dynamo.Body
}

// New builds the walls for a width x height field whose top strip, down to
// controlOffset, is reserved for controls.
func New(cfg config.FieldConfig) (*Field, error) {
	f := &Field{
		thickness:    cfg.WallThickness,
		topMargin:    cfg.TopMargin,
		bottomMargin: cfg.BottomMargin,
	}
	if f.thickness <= 0 {
		f.thickness = 50
	}
	if !valid(cfg.Width, cfg.Height) {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, cfg.Width, cfg.Height)
	}
	names := [4]string{"floor", "ceiling", "left", "right"}
	for i := range f.walls {
		f.walls[i] = dynamo.NewRectangle(0, 0, 1, 1, dynamo.BodyOptions{
			Label:  names[i],
			Static: true,
			Filter: &wallFilter,
		})
	}
	f.place(cfg.Width, cfg.Height, cfg.ControlOffset())
	return f, nil
}

func valid(width, height float64) bool {
	return width > 0 && height > 0 && !math.IsInf(width, 0) && !math.IsInf(height, 0)
}

// Rebuild moves the existing walls to a new geometry. Invalid dimensions
// leave the previous geometry in place.
func (f *Field) Rebuild(width, height, controlOffset float64) error {
	if !valid(width, height) || math.IsNaN(controlOffset) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, width, height)
	}
	f.place(width, height, controlOffset)
	return nil
}

func (f *Field) place(width, height, controlOffset float64) {
	f.width, f.height, f.controlOffset = width, height, controlOffset
	t := f.thickness

	f.setWall(Floor, r2.Vec{X: width / 2, Y: height + t/2}, width, t)
	f.setWall(Ceiling, r2.Vec{X: width / 2, Y: controlOffset - t/2}, width, t)
	f.setWall(Left, r2.Vec{X: -t / 2, Y: height / 2}, t, height)
	f.setWall(Right, r2.Vec{X: width + t/2, Y: height / 2}, t, height)
}

func (f *Field) setWall(i int, center r2.Vec, w, h float64) {
	b := f.walls[i]
	b.Width, b.Height = w, h
	b.SetPosition(center)
	b.PositionPrev = center
}

func (f *Field) Walls() []*dynamo.Body { return f.walls[:] }

func (f *Field) Width() float64         { return f.width }
func (f *Field) Height() float64        { return f.height }
func (f *Field) ControlOffset() float64 { return f.controlOffset }

// Band returns the range a balloon of the given radius may target:
// below the control strip by size+topMargin, above the floor by
// size+bottomMargin.
func (f *Field) Band(size float64) (lo, hi float64) {
	return f.controlOffset + size + f.topMargin, f.height - size - f.bottomMargin
}

// InBand reports whether y lies strictly inside the band for size.
func (f *Field) InBand(y, size float64) bool {
	lo, hi := f.Band(size)
	return y > lo && y < hi
}

// EdgeInset is how far Clamp keeps a target from either edge of the band.
const EdgeInset = 1.0

// Clamp pulls y strictly inside the band for size, at least EdgeInset from
// each edge (less when the band is narrower than two insets). When the field
// is too short for any band, the midpoint of the degenerate range is
// returned.
func (f *Field) Clamp(y, size float64) float64 {
	lo, hi := f.Band(size)
	if hi <= lo {
		return (lo + hi) / 2
	}
	inset := math.Min(EdgeInset, (hi-lo)/4)
	return math.Max(lo+inset, math.Min(hi-inset, y))
}

// Contains reports whether p is inside the visible field.
func (f *Field) Contains(p r2.Vec) bool {
	return p.X >= 0 && p.X <= f.width && p.Y >= 0 && p.Y <= f.height
}
