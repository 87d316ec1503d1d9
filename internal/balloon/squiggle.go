package balloon

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/config"
)

// Squiggle is the lateral offset drawn on segment i. It only affects how the
// tail is drawn; the physics never sees it.
func Squiggle(phase float64, i int, cfg config.SquiggleConfig) float64 {
	if cfg.Disabled {
		return 0
	}
	fi := float64(i)
	return math.Sin(phase*cfg.Frequency+fi*cfg.IndexPhase) * (fi * cfg.AmplitudeK)
}

// TailPath returns the points a renderer strokes: the knot followed by every
// segment with its squiggle applied.
func TailPath(b *Balloon, cfg config.SquiggleConfig) []r2.Vec {
	path := make([]r2.Vec, 0, 1+b.Tail.Len())
	path = append(path, b.Knot())
	for i, seg := range b.Tail.Segments {
		p := seg.Position
		p.X += Squiggle(b.DriftPhase, i, cfg)
		path = append(path, p)
	}
	return path
}
