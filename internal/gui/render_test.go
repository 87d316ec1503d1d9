package gui

import (
	"image/color"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
)

func TestFanWinding(t *testing.T) {
	center := r2.Vec{X: 100, Y: 100}
	for _, shape := range []balloon.Shape{balloon.ShapeRound, balloon.ShapeTag, balloon.ShapeHeart} {
		outline := balloon.Outline(shape, center, 40, 0.3, outlineSteps)
		pts := fan(center, outline)

		if len(pts) != len(outline)+2 {
			t.Fatalf("%v: expected %d fan points, got %d", shape, len(outline)+2, len(pts))
		}
		if pts[0] != center {
			t.Errorf("%v: fan must start at the center", shape)
		}
		if pts[1] != pts[len(pts)-1] {
			t.Errorf("%v: fan not closed", shape)
		}
		if a := area(pts[1 : len(pts)-1]); a >= 0 {
			t.Errorf("%v: expected negative winding, got area %v", shape, a)
		}
	}
}

func TestFanReversesPositiveOutline(t *testing.T) {
	square := []r2.Vec{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}
	if area(square) <= 0 {
		t.Fatalf("fixture should wind positive, got %v", area(square))
	}
	pts := fan(r2.Vec{X: 5, Y: 5}, square)
	if pts[1] != square[3] {
		t.Errorf("expected reversed outline starting at %v, got %v", square[3], pts[1])
	}
}

func TestFade(t *testing.T) {
	c := color.RGBA{R: 10, G: 20, B: 30, A: 200}
	if got := fade(c, 0.5); got.A != 100 || got.R != 10 {
		t.Errorf("expected half alpha, got %v", got)
	}
	if got := fade(c, -1); got.A != 0 {
		t.Errorf("expected clamp to 0, got %v", got.A)
	}
	if got := fade(c, 2); got.A != 200 {
		t.Errorf("expected clamp to 1, got %v", got.A)
	}
}

func TestParamRangesCoverDrift(t *testing.T) {
	for _, k := range []string{"PhaseStep", "Amplitude", "Gain", "Buoyancy", "Sway", "Jitter"} {
		r, ok := paramRange[k]
		if !ok {
			t.Errorf("no slider range for %s", k)
			continue
		}
		if r[1] <= r[0] {
			t.Errorf("%s: empty range %v", k, r)
		}
	}
}
