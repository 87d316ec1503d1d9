package viz

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/export"
	"github.com/san-kum/skyfloat/internal/focus"
	"github.com/san-kum/skyfloat/internal/lifecycle"
	"github.com/san-kum/skyfloat/internal/metrics"
)

// One terminal cell covers cellW x cellH field units; a braille dot is a
// quarter of that in both directions.
const (
	cellW      = 8.0
	cellH      = 16.0
	dotW       = cellW / 2
	dotH       = cellH / 4
	stripRows  = 2
	statusRows = 1
	panelCols  = 30
	panelLines = 4
	historyLen = 120
	fps        = 60
	popDone    = 0.05
)

type TickMsg time.Time

type mode int

const (
	modeField mode = iota
	modeAdd
	modeEdit
)

// pop is a completed balloon shrinking away. Its removal is acknowledged
// once the spring brings scale near zero.
type pop struct {
	scale, vel float64
}

type Model struct {
	mgr      *lifecycle.Manager
	log      *slog.Logger
	input    textinput.Model
	mode     mode
	editing  balloon.ID
	category balloon.Category
	spring   harmonica.Spring
	pops     map[balloon.ID]*pop
	energy   *metrics.KineticEnergy
	history  []float64
	canvas   *Canvas
	panel    r2.Vec
	running  bool
	status   string
	copy     func(string) error

	width, height int
}

func NewModel(mgr *lifecycle.Manager, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	ti.Prompt = "› "

	m := Model{
		mgr:     mgr,
		log:     logger,
		input:   ti,
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.6),
		pops:    make(map[balloon.ID]*pop),
		energy:  metrics.NewKineticEnergy(),
		running: true,
		copy:    clipboard.WriteAll,
	}
	pops := m.pops
	mgr.Subscribe(lifecycle.ObserverFuncs{
		Completed: func(c lifecycle.Completion) { pops[c.ID] = &pop{scale: 1} },
	})
	return m
}

// Run starts the terminal app and blocks until the user quits.
func Run(mgr *lifecycle.Manager, logger *slog.Logger) error {
	p := tea.NewProgram(NewModel(mgr, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.MouseMsg:
		m.click(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.mgr.Step()
			m.sample()
		}
		m.animate()
		return m, tick()
	}
	if m.mode != modeField {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	rows := max(h-stripRows-statusRows, 1)
	m.canvas = NewCanvas(w, rows)
	m.input.Width = max(w-30, 10)

	fieldW := float64(w) * cellW
	fieldH := float64(stripRows+rows) * cellH
	offset := stripRows*cellH + m.mgr.Config().Field.ControlGap
	if !m.mgr.Resize(fieldW, fieldH, offset) {
		m.log.Debug("terminal too small for field", "cols", w, "rows", h)
	}
}

// toWorld maps the center of a terminal cell to field coordinates.
func toWorld(col, row int) r2.Vec {
	return r2.Vec{X: (float64(col) + 0.5) * cellW, Y: (float64(row) + 0.5) * cellH}
}

// toDots maps field coordinates onto the canvas, which starts below the
// control strip.
func toDots(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X / dotW, Y: (p.Y - stripRows*cellH) / dotH}
}

func (m *Model) click(msg tea.MouseMsg) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	if msg.Y < stripRows {
		return
	}
	p := toWorld(msg.X, msg.Y)
	if m.inPanel(p) {
		return
	}
	if id, ok := m.mgr.BalloonAt(p.X, p.Y); ok {
		m.toggle(id)
		return
	}
	m.mgr.UnfocusAny()
}

// toggle sizes the panel for the balloon's text before focusing it, so the
// placement sees the real panel.
func (m *Model) toggle(id balloon.ID) {
	if b := m.mgr.Get(id); b != nil {
		lines := panelText(b.Text)
		m.panel = r2.Vec{X: panelCols * cellW, Y: float64(len(lines)+2) * cellH}
		m.mgr.SetPanelSize(m.panel.X, m.panel.Y)
	}
	m.mgr.ToggleFocus(id)
}

func (m *Model) held() (balloon.ID, bool) {
	if f, ok := m.mgr.Focus().(focus.Focused); ok {
		return f.ID, true
	}
	return 0, false
}

func (m *Model) inPanel(p r2.Vec) bool {
	f, ok := m.mgr.Focus().(focus.Focused)
	if !ok {
		return false
	}
	pl := f.Placement
	return p.X >= pl.Left && p.X < pl.Left+m.panel.X && p.Y >= pl.Top && p.Y < pl.Top+m.panel.Y
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.mode != modeField {
		return m.inputKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a", "i":
		m.mode = modeAdd
		m.input.Reset()
		return m, m.input.Focus()
	case "tab":
		m.category = nextCategory(m.category)
	case " ":
		m.running = !m.running
	case "esc":
		m.mgr.UnfocusAny()
	case "n":
		m.focusNext()
	case "e":
		if id, ok := m.held(); ok {
			m.mode, m.editing = modeEdit, id
			m.input.SetValue(m.mgr.Get(id).Text)
			m.input.CursorEnd()
			return m, m.input.Focus()
		}
	case "c", "x":
		if id, ok := m.held(); ok {
			m.mgr.Complete(id)
			m.status = "done"
		}
	case "y":
		if id, ok := m.held(); ok {
			if err := m.copy(m.mgr.Get(id).Text); err != nil {
				m.log.Warn("clipboard write failed", "error", err)
				m.status = "clipboard unavailable"
			} else {
				m.status = "copied"
			}
		}
	}
	return m, nil
}

func (m Model) inputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.submit()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeField
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyTab:
		if m.mode == modeAdd {
			m.category = nextCategory(m.category)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit creates or edits from the input. Adding keeps the input open for
// the next task; editing closes it.
func (m *Model) submit() {
	text := m.input.Value()
	switch m.mode {
	case modeAdd:
		if _, ok := m.mgr.Create(text, m.category); ok {
			m.status = "added to " + m.category.String()
		}
		m.input.Reset()
	case modeEdit:
		if m.mgr.Edit(m.editing, text) {
			m.status = "edited"
		}
		m.mode = modeField
		m.input.Blur()
		m.input.Reset()
	}
}

// focusNext moves the hold to the balloon after the held one, in creation
// order.
func (m *Model) focusNext() {
	bs := m.mgr.Balloons()
	if len(bs) == 0 {
		return
	}
	next := 0
	if id, ok := m.held(); ok {
		for i, b := range bs {
			if b.ID == id {
				next = (i + 1) % len(bs)
			}
		}
		if bs[next].ID == id {
			return
		}
	}
	m.toggle(bs[next].ID)
}

func nextCategory(c balloon.Category) balloon.Category {
	all := balloon.Categories()
	for i, x := range all {
		if x == c {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (m *Model) sample() {
	m.energy.Reset()
	m.energy.Observe(m.mgr.Balloons())
	m.history = append(m.history, m.energy.Value())
	if len(m.history) > historyLen {
		m.history = m.history[len(m.history)-historyLen:]
	}
}

func (m *Model) animate() {
	for id, p := range m.pops {
		p.scale, p.vel = m.spring.Update(p.scale, p.vel, 0)
		if p.scale <= popDone {
			delete(m.pops, id)
			m.mgr.FinishRemoval(id)
		}
	}
}

func panelText(text string) []string {
	lines := export.Wrap(text, panelCols-4)
	if len(lines) > panelLines {
		lines = lines[:panelLines]
		lines[panelLines-1] = export.Label(lines[panelLines-1]+" …", panelCols-4)
	}
	return append(lines, "", "e edit · c done · y copy")
}

func (m Model) View() string {
	if m.canvas == nil {
		return "starting skyfloat..."
	}
	f := m.mgr.Frame()
	m.draw(f)

	var b strings.Builder
	b.WriteString(m.stripView())
	b.WriteByte('\n')
	b.WriteString(m.canvas.Render())
	b.WriteByte('\n')
	b.WriteString(m.statusView(f))
	return b.String()
}

func (m Model) draw(f lifecycle.Frame) {
	c := m.canvas
	c.Clear()

	for _, g := range f.Ghosts {
		scale := 1.0
		if p, ok := m.pops[g.ID]; ok {
			scale = max(p.scale, 0)
		}
		outline := balloon.Outline(g.Category.Shape(), g.Position, g.Size*scale, g.Angle, 24)
		c.DrawPath(dots(outline), g.Color)
	}

	for _, v := range f.Balloons {
		c.DrawPath(dots(v.Tail), threadColor)
		outline := balloon.Outline(v.Category.Shape(), v.Position, v.Size, v.Angle, 24)
		c.FillPolygon(dots(outline), v.Color)

		n := int(2*v.Size/cellW) - 1
		if n < 1 {
			continue
		}
		label := export.Label(v.Text, n)
		col := int(v.Position.X/cellW) - len([]rune(label))/2
		row := int(v.Position.Y/cellH) - stripRows
		c.Put(col, row, label, "")
	}

	if f.Focus.Focused {
		for _, v := range f.Balloons {
			if v.ID == f.Focus.ID {
				m.drawPanel(f.Focus.Placement, panelText(v.Text), v.Color)
			}
		}
	}
}

func (m Model) drawPanel(p focus.Placement, lines []string, accent string) {
	col := int(p.Left / cellW)
	row := int(p.Top/cellH) - stripRows
	inner := panelCols - 2
	m.canvas.Put(col, row, "╭"+strings.Repeat("─", inner)+"╮", accent)
	for i, line := range lines {
		m.canvas.Put(col, row+1+i, "│", accent)
		m.canvas.Put(col+1, row+1+i, fmt.Sprintf(" %-*s ", inner-2, line), "")
		m.canvas.Put(col+panelCols-1, row+1+i, "│", accent)
	}
	m.canvas.Put(col, row+1+len(lines), "╰"+strings.Repeat("─", inner)+"╯", accent)
}

func dots(pts []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(pts))
	for i, p := range pts {
		out[i] = toDots(p)
	}
	return out
}

func (m Model) stripView() string {
	chip := m.category.String()
	if pal := m.category.Palette(); len(pal) > 0 {
		chip = lipgloss.NewStyle().Foreground(lipgloss.Color(pal[0])).Render("● " + chip)
	}
	line := GradientText("skyfloat", "#FF9AA2", "#A7C7E7") + "  " + chip + "  "
	if m.mode == modeField {
		line += KeyHint.Render("a add · tab category · click or n to hold · space pause · q quit")
	} else {
		line += m.input.View()
	}
	return StripStyle.MaxWidth(m.width).Render(line) + "\n" + StripStyle.MaxWidth(m.width).Render(Subtle.Render(m.status))
}

func (m Model) statusView(f lifecycle.Frame) string {
	state := StatusRunning.Render("● running")
	if !m.running {
		state = StatusPaused.Render("❚❚ paused")
	}
	parts := []string{
		state,
		MetricLabel.Render("balloons ") + MetricValue.Render(fmt.Sprint(len(f.Balloons))),
		MetricLabel.Render("energy ") + SparklineChart(m.history, 20),
	}
	if id, ok := m.held(); ok {
		if b := m.mgr.Get(id); b != nil {
			parts = append(parts, MetricLabel.Render("holding ")+export.Label(b.Text, 24))
		}
	}
	return strings.Join(parts, "  ")
}
