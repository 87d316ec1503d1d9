// Package export renders a field frame to SVG or PNG.
package export

import (
	"fmt"
	"html"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/lifecycle"
)

const (
	skyColor     = "#BFE3FF"
	stripColor   = "#E8F4FF"
	threadColor  = "#333333"
	threadWidth  = 1.8
	outlineSteps = 40
	labelRunes   = 18
)

// FrameToSVG draws the control strip, tails, balloons with short labels,
// fading ghosts and, when something is held, its inspection panel.
func FrameToSVG(f lifecycle.Frame, panel r2.Vec) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<rect width="100%%" height="%.1f" fill="%s"/>
`, f.Width, f.Height, f.Width, f.Height, skyColor, f.ControlOffset, stripColor))

	for _, g := range f.Ghosts {
		sb.WriteString(`<g opacity="0.35">` + "\n")
		writeTail(&sb, g.Tail)
		writeBody(&sb, g.Category.Shape(), g.Position, g.Size, g.Angle, g.Color)
		sb.WriteString("</g>\n")
	}

	for _, b := range f.Balloons {
		writeTail(&sb, b.Tail)
	}
	for _, b := range f.Balloons {
		writeBody(&sb, b.Category.Shape(), b.Position, b.Size, b.Angle, b.Color)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="10" text-anchor="middle" fill="#333">%s</text>
`, b.Position.X, b.Position.Y+3, html.EscapeString(Label(b.Text, labelRunes))))
	}

	if f.Focus.Focused {
		for _, b := range f.Balloons {
			if b.ID == f.Focus.ID {
				writePanel(&sb, f.Focus.Placement.Left, f.Focus.Placement.Top, panel, b.Text)
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeTail(sb *strings.Builder, tail []r2.Vec) {
	if len(tail) < 2 {
		return
	}
	sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="%.1f" stroke-linecap="round" stroke-linejoin="round" points="`, threadColor, threadWidth))
	for i, p := range tail {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	sb.WriteString(`"/>` + "\n")
}

func writeBody(sb *strings.Builder, shape balloon.Shape, center r2.Vec, size, angle float64, fill string) {
	pts := balloon.Outline(shape, center, size, angle, outlineSteps)
	sb.WriteString(fmt.Sprintf(`<polygon fill="%s" stroke="#00000022" points="`, html.EscapeString(fill)))
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	sb.WriteString(`"/>` + "\n")
}

func writePanel(sb *strings.Builder, left, top float64, panel r2.Vec, text string) {
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="8" fill="#FFFFFF" stroke="#999"/>
`, left, top, panel.X, panel.Y))
	for i, line := range Wrap(text, int(panel.X/7)) {
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-family="monospace" font-size="12" fill="#222">%s</text>
`, left+10, top+20+float64(i)*14, html.EscapeString(line)))
	}
}

// TraceToSVG plots samples left to right, scaled to fit.
func TraceToSVG(samples []float64, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	minY, maxY := samples[0], samples[0]
	for _, v := range samples {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	last := float64(len(samples) - 1)
	for i, v := range samples {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// Label shortens text to n runes with an ellipsis.
func Label(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Wrap breaks text on spaces into lines of at most width runes. Words longer
// than width are split.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		w := []rune(word)
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(cur) == 0:
			cur = w
		case len(cur)+1+len(w) <= width:
			cur = append(append(cur, ' '), w...)
		default:
			lines = append(lines, string(cur))
			cur = w
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
