package gui

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/lifecycle"
)

// Theme colors
var (
	ColSky     = rl.NewColor(191, 227, 255, 255)
	ColStrip   = rl.NewColor(232, 244, 255, 255)
	ColPanel   = rl.NewColor(255, 255, 255, 240)
	ColText    = rl.NewColor(34, 34, 51, 255)
	ColTextDim = rl.NewColor(110, 110, 136, 255)
	ColThread  = rl.NewColor(51, 51, 51, 255)
	ColOutline = rl.NewColor(0, 0, 0, 60)
)

const (
	threadWidth  = 1.8
	labelSize    = 14
	panelPad     = 10
	panelWrap    = 24
	panelButtonH = 26
	popSeconds   = 0.35
	inputLimit   = 200
	tuningWidth  = 260
)

// paramRange bounds the drift sliders.
var paramRange = map[string][2]float32{
	"PhaseStep": {0, 0.03},
	"Amplitude": {0, 150},
	"Gain":      {0, 0.0003},
	"Buoyancy":  {0, 0.01},
	"Sway":      {0, 0.002},
	"Jitter":    {0, 0.003},
}

type App struct {
	mgr *lifecycle.Manager
	cfg *config.Config
	log *slog.Logger

	input      string
	inputEdit  bool
	editing    balloon.ID
	category   int32
	Running    bool
	ShowTuning bool
	ParamKeys  []string

	// pops holds the remaining fraction of each completion animation.
	pops map[balloon.ID]float32
}

func NewApp(mgr *lifecycle.Manager, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		mgr:     mgr,
		cfg:     mgr.Config(),
		log:     logger,
		Running: true,
		pops:    make(map[balloon.ID]float32),
	}
	for k := range mgr.Drift().GetParams() {
		a.ParamKeys = append(a.ParamKeys, k)
	}
	sort.Strings(a.ParamKeys)

	pops := a.pops
	mgr.Subscribe(lifecycle.ObserverFuncs{
		Completed: func(c lifecycle.Completion) { pops[c.ID] = 1 },
	})
	return a
}

// initWindow opens a resizable window sized to the configured field.
func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Field.Width), int32(cfg.Field.Height), "skyfloat")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens the desktop window and blocks until it is closed.
func Run(mgr *lifecycle.Manager, logger *slog.Logger) {
	initWindow(mgr.Config())
	defer rl.CloseWindow()
	a := NewApp(mgr, logger)
	a.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
		a.mgr.Resize(w, h, a.cfg.Field.ControlOffset())
		a.log.Debug("window resized", "width", w, "height", h)
	}

	if !a.inputEdit {
		a.handleKeys()
	}
	a.handleClick()

	if a.Running {
		a.mgr.Step()
	}

	dt := rl.GetFrameTime() / popSeconds
	for id, left := range a.pops {
		left -= dt
		a.pops[id] = left
		if left <= 0 {
			delete(a.pops, id)
			a.mgr.FinishRemoval(id)
		}
	}
}

func (a *App) held() (*balloon.Balloon, bool) {
	f := a.mgr.Frame().Focus
	if !f.Focused {
		return nil, false
	}
	b := a.mgr.Get(f.ID)
	return b, b != nil
}

func (a *App) handleKeys() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyF1):
		a.ShowTuning = !a.ShowTuning
	case rl.IsKeyPressed(rl.KeyEscape):
		a.mgr.UnfocusAny()
	case rl.IsKeyPressed(rl.KeyE):
		a.startEdit()
	case rl.IsKeyPressed(rl.KeyD), rl.IsKeyPressed(rl.KeyDelete):
		a.complete()
	case rl.IsKeyPressed(rl.KeyC):
		a.copyHeld()
	}
}

// handleClick routes a press in the field: a balloon toggles its hold,
// empty sky releases. Presses on the control strip, the panel or the tuning
// window belong to their widgets.
func (a *App) handleClick() {
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	p := rl.GetMousePosition()
	if float64(p.Y) < a.cfg.Field.ControlHeight {
		return
	}
	f := a.mgr.Frame()
	if f.Focus.Focused && rl.CheckCollisionPointRec(p, a.panelRect(f)) {
		return
	}
	if a.ShowTuning && rl.CheckCollisionPointRec(p, a.tuningRect()) {
		return
	}
	if id, ok := a.mgr.BalloonAt(float64(p.X), float64(p.Y)); ok {
		a.mgr.ToggleFocus(id)
		return
	}
	a.mgr.UnfocusAny()
}

func (a *App) startEdit() {
	if b, ok := a.held(); ok {
		a.editing = b.ID
		a.input = b.Text
		a.inputEdit = true
	}
}

func (a *App) complete() {
	if b, ok := a.held(); ok {
		a.mgr.Complete(b.ID)
	}
}

func (a *App) copyHeld() {
	if b, ok := a.held(); ok {
		rl.SetClipboardText(b.Text)
	}
}

// submit creates a balloon from the input, or applies it to the balloon
// being edited.
func (a *App) submit() {
	if a.editing != 0 {
		a.mgr.Edit(a.editing, a.input)
		a.editing = 0
	} else {
		a.mgr.Create(a.input, balloon.Categories()[a.category])
	}
	a.input = ""
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColSky)

	f := a.mgr.Frame()
	for _, g := range f.Ghosts {
		a.drawGhost(g)
	}
	for _, v := range f.Balloons {
		a.drawBalloon(v)
	}
	a.drawPanel(f)
	a.panelButtons(f)
	a.controls(f)
	if a.ShowTuning {
		a.tuning()
	}

	rl.EndDrawing()
}

// controls draws the strip: task input, category toggle and the add button.
func (a *App) controls(f lifecycle.Frame) {
	w := float32(rl.GetScreenWidth())
	h := float32(a.cfg.Field.ControlHeight)
	rl.DrawRectangle(0, 0, int32(w), int32(h), ColStrip)

	y := (h - 30) / 2
	inputW := w - 420
	if gui.TextBox(rl.Rectangle{X: 10, Y: y, Width: inputW, Height: 30}, &a.input, inputLimit, a.inputEdit) {
		a.inputEdit = !a.inputEdit
		if !a.inputEdit && rl.IsKeyPressed(rl.KeyEnter) {
			a.submit()
		}
	}

	label := "Add"
	if a.editing != 0 {
		label = "Save"
	}
	a.category = gui.ToggleGroup(rl.Rectangle{X: inputW + 20, Y: y, Width: 80, Height: 30}, "None;Work;Personal", a.category)
	if gui.Button(rl.Rectangle{X: w - 140, Y: y, Width: 60, Height: 30}, label) {
		a.submit()
		a.inputEdit = false
	}

	state := "running"
	if !a.Running {
		state = "paused"
	}
	rl.DrawText(fmt.Sprintf("%d | %s", len(f.Balloons), state), int32(w-70), int32(y+8), 12, ColTextDim)
}

// panelButtons handles the held balloon's actions under its panel text.
func (a *App) panelButtons(f lifecycle.Frame) {
	if !f.Focus.Focused || a.mgr.Get(f.Focus.ID) == nil {
		return
	}
	r := a.panelRect(f)
	y := r.Y + r.Height - panelPad - panelButtonH
	bw := (r.Width - 4*panelPad) / 3
	x := r.X + panelPad
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: panelButtonH}, "Edit") {
		a.startEdit()
	}
	x += bw + panelPad
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: panelButtonH}, "Done") {
		a.complete()
	}
	x += bw + panelPad
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: bw, Height: panelButtonH}, "Copy") {
		a.copyHeld()
	}
}

func (a *App) tuningRect() rl.Rectangle {
	h := float32(50 + 45*len(a.ParamKeys))
	return rl.Rectangle{
		X:      float32(rl.GetScreenWidth()) - tuningWidth - 10,
		Y:      float32(a.cfg.Field.ControlOffset()) + 10,
		Width:  tuningWidth,
		Height: h,
	}
}

// tuning shows one slider per drift parameter, applied live.
func (a *App) tuning() {
	r := a.tuningRect()
	if gui.WindowBox(r, "Drift") {
		a.ShowTuning = false
		return
	}
	drift := a.mgr.Drift()
	params := drift.GetParams()
	y := r.Y + 35
	for _, k := range a.ParamKeys {
		rng := paramRange[k]
		rl.DrawText(k, int32(r.X+10), int32(y), 12, ColTextDim)
		y += 15
		v := float32(params[k])
		nv := gui.SliderBar(rl.Rectangle{X: r.X + 10, Y: y, Width: r.Width - 90, Height: 18}, "", "", v, rng[0], rng[1])
		rl.DrawText(strings.TrimRight(fmt.Sprintf("%.5f", params[k]), "0"), int32(r.X+r.Width-75), int32(y+2), 12, ColText)
		if nv != v {
			drift.SetParam(k, float64(nv))
		}
		y += 30
	}
}
