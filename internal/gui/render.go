package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/export"
	"github.com/san-kum/skyfloat/internal/lifecycle"
)

const outlineSteps = 40

func vec(p r2.Vec) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func vecs(pts []r2.Vec) []rl.Vector2 {
	out := make([]rl.Vector2, len(pts))
	for i, p := range pts {
		out[i] = vec(p)
	}
	return out
}

// fan turns a closed outline into a triangle fan around center, wound the
// way raylib fills: negative shoelace area in screen coordinates. The first
// outline point is repeated at the end to close the fan.
func fan(center r2.Vec, outline []r2.Vec) []r2.Vec {
	pts := make([]r2.Vec, 0, len(outline)+2)
	pts = append(pts, center)
	if area(outline) > 0 {
		for i := len(outline) - 1; i >= 0; i-- {
			pts = append(pts, outline[i])
		}
	} else {
		pts = append(pts, outline...)
	}
	if len(outline) > 0 {
		pts = append(pts, pts[1])
	}
	return pts
}

// area is twice the signed shoelace area.
func area(pts []r2.Vec) float64 {
	a := 0.0
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a
}

// fade scales a color's alpha by f in [0, 1].
func fade(c color.RGBA, f float64) color.RGBA {
	f = min(max(f, 0), 1)
	c.A = uint8(float64(c.A) * f)
	return c
}

func drawTail(tail []r2.Vec, c color.RGBA) {
	if len(tail) < 2 {
		return
	}
	for i := 1; i < len(tail); i++ {
		rl.DrawLineEx(vec(tail[i-1]), vec(tail[i]), threadWidth, c)
	}
}

func drawBody(shape balloon.Shape, center r2.Vec, size, angle float64, fill color.RGBA) {
	outline := balloon.Outline(shape, center, size, angle, outlineSteps)
	rl.DrawTriangleFan(vecs(fan(center, outline)), fill)
	rl.DrawLineStrip(vecs(append(outline, outline[0])), fade(ColOutline, float64(fill.A)/255))
}

func drawLabel(text string, center r2.Vec, size float64) {
	label := export.Label(text, int(size/5))
	w := rl.MeasureText(label, labelSize)
	rl.DrawText(label, int32(center.X)-w/2, int32(center.Y)-labelSize/2, labelSize, ColText)
}

func (a *App) drawBalloon(v lifecycle.View) {
	drawTail(v.Tail, ColThread)
	drawBody(v.Category.Shape(), v.Position, v.Size, v.Angle, balloon.RGBA(v.Color))
	drawLabel(v.Text, v.Position, v.Size)
}

// drawGhost shrinks and fades a completed balloon by its remaining pop
// fraction.
func (a *App) drawGhost(g lifecycle.Ghost) {
	left := 1.0
	if f, ok := a.pops[g.ID]; ok {
		left = float64(f)
	}
	if left <= 0 {
		return
	}
	drawTail(g.Tail, fade(ColThread, left))
	drawBody(g.Category.Shape(), g.Position, g.Size*(1+0.3*(1-left)), g.Angle, fade(balloon.RGBA(g.Color), left))
}

// drawPanel draws the inspection panel for the held balloon at its
// placement. Its buttons are handled in controls.
func (a *App) drawPanel(f lifecycle.Frame) {
	if !f.Focus.Focused {
		return
	}
	var held *lifecycle.View
	for i := range f.Balloons {
		if f.Balloons[i].ID == f.Focus.ID {
			held = &f.Balloons[i]
		}
	}
	if held == nil {
		return
	}

	r := a.panelRect(f)
	rl.DrawRectangleRec(r, ColPanel)
	rl.DrawRectangleLinesEx(r, 2, balloon.RGBA(held.Color))

	y := r.Y + panelPad
	rl.DrawText(held.Category.String(), int32(r.X+panelPad), int32(y), 12, ColTextDim)
	y += 18
	for _, line := range export.Wrap(held.Text, panelWrap) {
		if y > r.Y+r.Height-panelButtonH-2*panelPad {
			break
		}
		rl.DrawText(line, int32(r.X+panelPad), int32(y), 16, ColText)
		y += 20
	}
}

func (a *App) panelRect(f lifecycle.Frame) rl.Rectangle {
	p := f.Focus.Placement
	return rl.Rectangle{
		X:      float32(p.Left),
		Y:      float32(p.Top),
		Width:  float32(a.cfg.Panel.Width),
		Height: float32(a.cfg.Panel.Height),
	}
}
