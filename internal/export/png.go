package export

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/lifecycle"
)

// RenderImage rasterizes a frame at one pixel per field unit.
func RenderImage(f lifecycle.Frame, panel r2.Vec) (image.Image, error) {
	w, h := int(f.Width), int(f.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("export: empty frame %vx%v", f.Width, f.Height)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(balloon.RGBA(skyColor))
	dc.Clear()
	dc.SetColor(balloon.RGBA(stripColor))
	dc.DrawRectangle(0, 0, f.Width, f.ControlOffset)
	dc.Fill()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %v", err)
	}
	small := truetype.NewFace(ttfFont, &truetype.Options{Size: 10, DPI: 72, Hinting: font.HintingFull})
	body := truetype.NewFace(ttfFont, &truetype.Options{Size: 12, DPI: 72, Hinting: font.HintingFull})

	for _, g := range f.Ghosts {
		c := balloon.RGBA(g.Color)
		c.A = 0x59
		drawTail(dc, g.Tail, color.RGBA{0x33, 0x33, 0x33, 0x59})
		drawBody(dc, g.Category.Shape(), g.Position, g.Size, g.Angle, c)
	}
	for _, b := range f.Balloons {
		drawTail(dc, b.Tail, balloon.RGBA(threadColor))
	}
	dc.SetFontFace(small)
	for _, b := range f.Balloons {
		drawBody(dc, b.Category.Shape(), b.Position, b.Size, b.Angle, balloon.RGBA(b.Color))
		dc.SetColor(balloon.RGBA(threadColor))
		dc.DrawStringAnchored(Label(b.Text, labelRunes), b.Position.X, b.Position.Y, 0.5, 0.5)
	}

	if f.Focus.Focused {
		dc.SetFontFace(body)
		for _, b := range f.Balloons {
			if b.ID != f.Focus.ID {
				continue
			}
			left, top := f.Focus.Placement.Left, f.Focus.Placement.Top
			dc.SetColor(color.White)
			dc.DrawRoundedRectangle(left, top, panel.X, panel.Y, 8)
			dc.FillPreserve()
			dc.SetColor(color.RGBA{0x99, 0x99, 0x99, 0xFF})
			dc.SetLineWidth(1)
			dc.Stroke()
			dc.SetColor(color.RGBA{0x22, 0x22, 0x22, 0xFF})
			for i, line := range Wrap(b.Text, int(panel.X/7)) {
				dc.DrawString(line, left+10, top+20+float64(i)*14)
			}
		}
	}
	return dc.Image(), nil
}

// PNG writes the rendered frame to path.
func PNG(f lifecycle.Frame, panel r2.Vec, path string) error {
	img, err := RenderImage(f, panel)
	if err != nil {
		return err
	}
	return gg.SavePNG(path, img)
}

func drawTail(dc *gg.Context, tail []r2.Vec, c color.Color) {
	if len(tail) < 2 {
		return
	}
	dc.SetColor(c)
	dc.SetLineWidth(threadWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(tail[0].X, tail[0].Y)
	for _, p := range tail[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

func drawBody(dc *gg.Context, shape balloon.Shape, center r2.Vec, size, angle float64, c color.Color) {
	pts := balloon.Outline(shape, center, size, angle, outlineSteps)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.SetColor(c)
	dc.Fill()
}
