package balloon

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Outline returns a closed polygon for drawing a balloon of the given shape,
// rotated by angle around center. The physics body is always the circle of
// radius size; the outline is a little taller, like a real balloon.
func Outline(shape Shape, center r2.Vec, size, angle float64, segments int) []r2.Vec {
	if segments < 8 {
		segments = 8
	}
	pts := make([]r2.Vec, 0, segments)
	switch shape {
	case ShapeHeart:
		k := size / 15
		for i := 0; i < segments; i++ {
			t := 2 * math.Pi * float64(i) / float64(segments)
			s := math.Sin(t)
			x := 16 * s * s * s
			y := 13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)
			pts = append(pts, r2.Vec{X: x * k, Y: -y*k - 0.2*size})
		}
	case ShapeTag:
		w, h, c := 0.85*size, 1.1*size, 0.45*size
		pts = append(pts,
			r2.Vec{X: -w + c, Y: -h},
			r2.Vec{X: w - c, Y: -h},
			r2.Vec{X: w, Y: -h + c},
			r2.Vec{X: w, Y: h},
			r2.Vec{X: -w, Y: h},
			r2.Vec{X: -w, Y: -h + c},
		)
	default:
		for i := 0; i < segments; i++ {
			t := 2 * math.Pi * float64(i) / float64(segments)
			pts = append(pts, r2.Vec{X: size * math.Cos(t), Y: 1.2 * size * math.Sin(t)})
		}
	}
	for i, p := range pts {
		pts[i] = r2.Add(center, r2.Rotate(p, angle, r2.Vec{}))
	}
	return pts
}

// RGBA parses a #RRGGBB color. Anything else falls back to mid grey.
func RGBA(hex string) color.RGBA {
	c, err := ParseHex(hex)
	if err != nil {
		return color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xFF}
	}
	return c
}

func ParseHex(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("balloon: bad color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("balloon: bad color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}
