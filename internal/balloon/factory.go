package balloon

import (
	"math"
	"strings"

	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/dynamo"
	"github.com/san-kum/skyfloat/internal/field"
	"github.com/san-kum/skyfloat/internal/rng"
)

var balloonFilter = dynamo.Filter{
	Category: dynamo.CategoryBalloon,
	Mask:     dynamo.CategoryWall | dynamo.CategoryBalloon,
}

// Factory creates balloons. Every random choice is drawn from one source,
// in a fixed order: size, spawn x, color, target height, drift phase.
type Factory struct {
	balloon config.BalloonConfig
	tail    config.TailConfig
	field   *field.Field
	src     rng.Source
	nextID  ID
}

func NewFactory(cfg *config.Config, f *field.Field, src rng.Source) *Factory {
	return &Factory{
		balloon: cfg.Balloon,
		tail:    cfg.Tail,
		field:   f,
		src:     src,
	}
}

// SetField points the factory at a different field, e.g. after a resize.
func (fa *Factory) SetField(f *field.Field) { fa.field = f }

// New builds a fresh balloon entering from the floor. It does not add
// anything to a world.
func (fa *Factory) New(text string, category Category) *Balloon {
	size := rng.Uniform(fa.src, fa.balloon.MinSize, fa.balloon.MaxSize)
	x := fa.spawnX(size)
	palette := category.Palette()
	color := palette[rng.Index(fa.src, len(palette))]
	lo, hi := fa.field.Band(size)
	targetY := fa.field.Clamp(rng.Open(fa.src, lo, hi), size)
	return fa.build(x, Snapshot{
		Text:     text,
		Category: category,
		Color:    color,
		Size:     size,
		TargetY:  targetY,
	})
}

// Restore rebuilds a balloon from a snapshot, reusing its size, color and
// target height verbatim. Position and drift phase are fresh.
func (fa *Factory) Restore(s Snapshot) (*Balloon, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return fa.build(fa.spawnX(s.Size), s), nil
}

func (fa *Factory) spawnX(size float64) float64 {
	return fa.src.Float64()*(fa.field.Width()-2*size) + size
}

func (fa *Factory) build(x float64, s Snapshot) *Balloon {
	y := fa.field.Height()
	body := dynamo.NewCircle(x, y, s.Size, dynamo.BodyOptions{
		Label:           "balloon",
		Density:         fa.balloon.Density,
		Restitution:     fa.balloon.Restitution,
		FrictionAir:     fa.balloon.FrictionAir,
		Filter:          &balloonFilter,
		InfiniteInertia: s.Category.Weighted(),
	})
	fa.nextID++
	return &Balloon{
		ID:         fa.nextID,
		Text:       s.Text,
		Category:   s.Category,
		Color:      s.Color,
		Size:       s.Size,
		TargetY:    s.TargetY,
		DriftPhase: fa.src.Float64() * 2 * math.Pi,
		Body:       body,
		Tail:       BuildTail(body, s.Size, fa.tail),
	}
}

// Validate checks the fields a restore cannot invent.
func (s Snapshot) Validate() error {
	switch {
	case strings.TrimSpace(s.Text) == "":
		return &RestoreError{Index: -1, Field: "text", Err: ErrMissingField}
	case s.Color == "":
		return &RestoreError{Index: -1, Field: "color", Err: ErrMissingField}
	case !(s.Size > 0) || math.IsInf(s.Size, 0):
		return &RestoreError{Index: -1, Field: "size", Err: ErrMissingField}
	case math.IsNaN(s.TargetY) || math.IsInf(s.TargetY, 0):
		return &RestoreError{Index: -1, Field: "targetY", Err: ErrMissingField}
	case int(s.Category) >= len(categoryNames):
		return &RestoreError{Index: -1, Field: "category", Err: ErrUnknownCategory}
	}
	return nil
}
