package lifecycle

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/storage"
)

// View is the read-only state a renderer needs for one balloon.
type View struct {
	ID       balloon.ID
	Text     string
	Category balloon.Category
	Color    string
	Size     float64
	TargetY  float64
	Position r2.Vec
	Angle    float64
	Focused  bool
	Force    r2.Vec

	// Tail starts at the knot and has one point per segment, squiggle applied.
	Tail []r2.Vec
}

// Ghost is a completed balloon still fading out on screen. It no longer
// exists in the world.
type Ghost struct {
	ID       balloon.ID
	Text     string
	Category balloon.Category
	Color    string
	Size     float64
	Position r2.Vec
	Angle    float64
	Tail     []r2.Vec
}

// Frame is everything a front end draws after one step.
type Frame struct {
	Step          int
	Width         float64
	Height        float64
	ControlOffset float64
	Balloons      []View
	Ghosts        []Ghost
	Focus         FocusChange
}

// Rows flattens the live balloons for CSV export. Ghosts are left out.
func (f Frame) Rows() []storage.Row {
	rows := make([]storage.Row, 0, len(f.Balloons))
	for _, v := range f.Balloons {
		rows = append(rows, storage.Row{
			Step:     f.Step,
			ID:       uint64(v.ID),
			Text:     v.Text,
			Category: v.Category.String(),
			Color:    v.Color,
			Size:     v.Size,
			TargetY:  v.TargetY,
			X:        v.Position.X,
			Y:        v.Position.Y,
			Angle:    v.Angle,
			ForceX:   v.Force.X,
			ForceY:   v.Force.Y,
			Focused:  v.Focused,
		})
	}
	return rows
}

func (m *Manager) view(b *balloon.Balloon) View {
	return View{
		ID:       b.ID,
		Text:     b.Text,
		Category: b.Category,
		Color:    b.Color,
		Size:     b.Size,
		TargetY:  b.TargetY,
		Position: b.Body.Position,
		Angle:    b.Body.Angle,
		Focused:  m.focus.IsFocused(b.ID),
		Force:    b.LastForce,
		Tail:     balloon.TailPath(b, m.squiggle),
	}
}

// Frame reads the state left by the last step. It never mutates anything.
func (m *Manager) Frame() Frame {
	f := Frame{
		Step:          m.world.Steps(),
		Width:         m.field.Width(),
		Height:        m.field.Height(),
		ControlOffset: m.field.ControlOffset(),
		Balloons:      make([]View, 0, len(m.balloons)),
		Ghosts:        append([]Ghost(nil), m.ghosts...),
		Focus:         m.focusChange(),
	}
	for _, b := range m.balloons {
		f.Balloons = append(f.Balloons, m.view(b))
	}
	return f
}

// BalloonAt returns the front-most balloon whose circle contains (x, y).
// Later balloons are drawn on top, so the registry is searched backwards.
func (m *Manager) BalloonAt(x, y float64) (balloon.ID, bool) {
	p := r2.Vec{X: x, Y: y}
	for i := len(m.balloons) - 1; i >= 0; i-- {
		if m.balloons[i].Contains(p) {
			return m.balloons[i].ID, true
		}
	}
	return 0, false
}
