package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/skyfloat/internal/balloon"
)

const (
	skyColor    = "#BFE3FF"
	stripColor  = "#E8F4FF"
	threadColor = "#555555"
)

var (
	// Inspection panel around the held balloon's text
	GlassPanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7A9CC6")).
			Foreground(lipgloss.Color("#222233")).
			Background(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)

	// Control strip with the add/edit input
	StripStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#222233")).
			Background(lipgloss.Color(stripColor)).
			Padding(0, 1)

	Subtle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688"))

	StatusRunning = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00aa66"))

	StatusPaused = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#cc8800"))

	MetricValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0088cc")).
			Bold(true)

	MetricLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899"))

	KeyHint = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#666688")).
		Italic(true)

	SparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aa66"))
	SparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc8800"))
	SparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#cc4444"))
)

// GradientText shades text from one hex color to another.
func GradientText(text string, startColor, endColor string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	s, e := balloon.RGBA(startColor), balloon.RGBA(endColor)

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		hex := fmt.Sprintf("#%02x%02x%02x", lerp(s.R, e.R, t), lerp(s.G, e.G, t), lerp(s.B, e.B, t))
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(string(c)))
	}
	return result.String()
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + t*(float64(b)-float64(a)))
}

// SparklineChart renders a mini sparkline of the last width values.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / span
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(SparkMid.Render(c))
		default:
			result.WriteString(SparkLow.Render(c))
		}
	}
	return result.String()
}
