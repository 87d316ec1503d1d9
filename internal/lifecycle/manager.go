// Package lifecycle is the single writer of the balloon field. It owns the
// physics world, the ordered balloon registry and the focus machine, and
// keeps them and the persisted list in step.
//
// Front ends send commands (Create, ToggleFocus, Edit, Complete, Resize) and
// read Frame after each Step. Commands never fail on bad input: empty text,
// stale ids and degenerate sizes are ignored.
package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/control"
	"github.com/san-kum/skyfloat/internal/dynamo"
	"github.com/san-kum/skyfloat/internal/field"
	"github.com/san-kum/skyfloat/internal/focus"
	"github.com/san-kum/skyfloat/internal/integrators"
	"github.com/san-kum/skyfloat/internal/rng"
	"github.com/san-kum/skyfloat/internal/storage"
)

type Options struct {
	Config *config.Config
	// Source feeds every random choice. Defaults to a source seeded from
	// Config.Seed.
	Source rng.Source
	// Store is optional; without it nothing is persisted.
	Store  *storage.Balloons
	Logger *slog.Logger
}

type Manager struct {
	cfg      *config.Config
	log      *slog.Logger
	world    *dynamo.World
	field    *field.Field
	factory  *balloon.Factory
	drift    *control.Drift
	focus    *focus.Machine
	store    *storage.Balloons
	squiggle config.SquiggleConfig

	balloons  []*balloon.Balloon
	index     map[balloon.ID]*balloon.Balloon
	ghosts    []Ghost
	observers []Observer
}

func New(opts Options) (*Manager, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	src := opts.Source
	if src == nil {
		src = rng.New(cfg.Seed)
	}

	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	f, err := field.New(cfg.Field)
	if err != nil {
		return nil, err
	}

	world := dynamo.NewWorld(WorldConfig(cfg.Physics), integ)
	world.Add(f.Walls()...)

	m := &Manager{
		cfg:      cfg,
		log:      log,
		world:    world,
		field:    f,
		factory:  balloon.NewFactory(cfg, f, src),
		drift:    control.NewDrift(cfg.Drift, src),
		store:    opts.Store,
		squiggle: cfg.Squiggle,
		index:    make(map[balloon.ID]*balloon.Balloon),
	}
	m.focus = focus.NewMachine(m.lookup, focus.Layout{
		Field: r2.Vec{X: f.Width(), Y: f.Height()},
		Panel: r2.Vec{X: cfg.Panel.Width, Y: cfg.Panel.Height},
		Gap:   cfg.Panel.Gap,
		Inset: cfg.Panel.Inset,
	})
	return m, nil
}

// WorldConfig maps the physics section onto the engine's settings.
func WorldConfig(p config.PhysicsConfig) dynamo.WorldConfig {
	wc := dynamo.DefaultWorldConfig()
	wc.Gravity = r2.Vec{Y: p.Gravity}
	if p.GravityScale > 0 {
		wc.GravityScale = p.GravityScale
	}
	if p.Dt > 0 {
		wc.Dt = p.Dt
	}
	if p.ConstraintIterations > 0 {
		wc.ConstraintIterations = p.ConstraintIterations
	}
	if p.CollisionIterations > 0 {
		wc.CollisionIterations = p.CollisionIterations
	}
	return wc
}

func (m *Manager) Subscribe(o Observer) { m.observers = append(m.observers, o) }

func (m *Manager) World() *dynamo.World   { return m.world }
func (m *Manager) Field() *field.Field    { return m.field }
func (m *Manager) Drift() *control.Drift  { return m.drift }
func (m *Manager) Focus() focus.State     { return m.focus.State() }
func (m *Manager) Config() *config.Config { return m.cfg }
func (m *Manager) Len() int               { return len(m.balloons) }
func (m *Manager) Steps() int             { return m.world.Steps() }

func (m *Manager) Ghosts() []Ghost { return append([]Ghost(nil), m.ghosts...) }

// Get returns the live balloon for id, or nil.
func (m *Manager) Get(id balloon.ID) *balloon.Balloon { return m.index[id] }

// Balloons returns the registry in insertion order. Callers must not modify
// the slice.
func (m *Manager) Balloons() []*balloon.Balloon { return m.balloons }

// Contains reports whether id is in the registry.
func (m *Manager) Contains(id balloon.ID) bool {
	_, ok := m.index[id]
	return ok
}

// InWorld reports whether any body of b's composite is still simulated.
func (m *Manager) InWorld(b *balloon.Balloon) bool {
	for _, body := range b.Composite().Bodies {
		if m.world.Contains(body) {
			return true
		}
	}
	return false
}

func (m *Manager) lookup(id balloon.ID) *balloon.Balloon { return m.index[id] }

// Create adds a balloon for text. Blank text is ignored.
func (m *Manager) Create(text string, category balloon.Category) (balloon.ID, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}
	b := m.factory.New(text, category)
	if err := m.insert(b); err != nil {
		m.log.Error("insert balloon", "error", err)
		return 0, false
	}
	m.persist()

	m.log.Debug("balloon_created", "id", b.ID, "category", b.Category.String(), "size", b.Size, "target_y", b.TargetY)
	v := m.view(b)
	for _, o := range m.observers {
		o.OnCreated(v)
	}
	return b.ID, true
}

func (m *Manager) insert(b *balloon.Balloon) error {
	if err := m.world.AddComposite(b.Composite()); err != nil {
		return err
	}
	m.balloons = append(m.balloons, b)
	m.index[b.ID] = b
	return nil
}

// ToggleFocus holds id, or releases it when it is already held.
func (m *Manager) ToggleFocus(id balloon.ID) {
	before := m.focusChange()
	m.focus.Toggle(id)
	if m.focusChange() != before {
		m.emitFocus()
	}
}

// UnfocusAny is a click on the empty background.
func (m *Manager) UnfocusAny() {
	if id, ok := m.focus.Focused(); ok {
		m.ToggleFocus(id)
	}
}

// Edit replaces the text of id. Blank text and unknown ids are ignored.
func (m *Manager) Edit(id balloon.ID, text string) bool {
	text = strings.TrimSpace(text)
	b := m.index[id]
	if b == nil || text == "" {
		return false
	}
	b.Text = text
	m.persist()

	m.log.Debug("balloon_edited", "id", id)
	v := m.view(b)
	for _, o := range m.observers {
		o.OnEdited(v)
	}
	return true
}

// Complete removes id from the world and the registry at once. The balloon
// stays visible as a ghost until FinishRemoval acknowledges its animation.
func (m *Manager) Complete(id balloon.ID) bool {
	b := m.index[id]
	if b == nil {
		return false
	}
	pos := b.Body.Position
	done := Completion{ID: id, Text: b.Text, Color: b.Color, Position: pos}
	for _, o := range m.observers {
		o.OnCompleted(done)
	}

	if err := m.world.RemoveComposite(b.Composite()); err != nil {
		m.log.Error("remove balloon", "id", id, "error", err)
	}
	m.remove(id)
	m.ghosts = append(m.ghosts, Ghost{
		ID:       id,
		Text:     b.Text,
		Category: b.Category,
		Color:    b.Color,
		Size:     b.Size,
		Position: pos,
		Angle:    b.Body.Angle,
		Tail:     balloon.TailPath(b, m.squiggle),
	})

	if m.focus.IsFocused(id) {
		m.focus.Clear()
		m.emitFocus()
	}
	m.persist()
	m.log.Debug("balloon_completed", "id", id, "x", pos.X, "y", pos.Y)
	return true
}

func (m *Manager) remove(id balloon.ID) {
	delete(m.index, id)
	for i, b := range m.balloons {
		if b.ID == id {
			m.balloons = append(m.balloons[:i], m.balloons[i+1:]...)
			return
		}
	}
}

// FinishRemoval drops the ghost of a completed balloon once its exit
// animation is over.
func (m *Manager) FinishRemoval(id balloon.ID) {
	for i, g := range m.ghosts {
		if g.ID == id {
			m.ghosts = append(m.ghosts[:i], m.ghosts[i+1:]...)
			return
		}
	}
}

// Resize moves the walls. Non-positive sizes keep the previous geometry.
// Stored targets stay as they are unless reclamp_on_resize is set.
func (m *Manager) Resize(width, height, controlOffset float64) bool {
	if err := m.field.Rebuild(width, height, controlOffset); err != nil {
		m.log.Debug("resize ignored", "error", err)
		return false
	}
	l := m.focus.Layout()
	l.Field = r2.Vec{X: width, Y: height}
	m.focus.SetLayout(l)

	if m.cfg.Field.ReclampOnResize {
		changed := false
		for _, b := range m.balloons {
			if y := m.field.Clamp(b.TargetY, b.Size); y != b.TargetY {
				b.TargetY = y
				changed = true
			}
		}
		if changed {
			m.persist()
		}
	}
	return true
}

// SetPanelSize records the measured inspection panel size used by the next
// placement.
func (m *Manager) SetPanelSize(width, height float64) {
	l := m.focus.Layout()
	l.Panel = r2.Vec{X: width, Y: height}
	m.focus.SetLayout(l)
}

// Step applies drift forces to every free balloon, then advances the world.
func (m *Manager) Step() {
	m.drift.Apply(m.balloons, m.focus.IsFocused)
	m.world.Step()
}

// Load restores the persisted list, skipping records that cannot be used.
// It returns how many balloons were restored and how many records skipped.
func (m *Manager) Load() (int, int) {
	if m.store == nil {
		return 0, 0
	}
	records, err := m.store.Load()
	if err != nil {
		m.log.Warn("saved balloons unreadable, starting empty", "error", err)
		return 0, 0
	}

	loaded, skipped := 0, 0
	for i, r := range records {
		b, err := m.restore(i, r)
		if err != nil {
			m.log.Warn("skipping saved balloon", "index", i, "error", err)
			skipped++
			continue
		}
		if err := m.insert(b); err != nil {
			m.log.Warn("skipping saved balloon", "index", i, "error", err)
			skipped++
			continue
		}
		loaded++
	}
	return loaded, skipped
}

func (m *Manager) restore(i int, r storage.Record) (*balloon.Balloon, error) {
	s, err := r.Snapshot(i)
	if err != nil {
		return nil, err
	}
	b, err := m.factory.Restore(s)
	if err != nil {
		var rerr *balloon.RestoreError
		if errors.As(err, &rerr) {
			rerr.Index = i
		}
		return nil, err
	}
	return b, nil
}

// Snapshots lists the persisted part of every balloon, in registry order.
func (m *Manager) Snapshots() []balloon.Snapshot {
	out := make([]balloon.Snapshot, len(m.balloons))
	for i, b := range m.balloons {
		out[i] = b.Snapshot()
	}
	return out
}

// Save writes the registry now. Commands already persist; this is for
// callers that changed the store underneath.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	if err := m.store.Save(m.Snapshots()); err != nil {
		return fmt.Errorf("save balloons: %w", err)
	}
	return nil
}

func (m *Manager) persist() {
	if err := m.Save(); err != nil {
		m.log.Error("persist", "error", err)
	}
}

func (m *Manager) focusChange() FocusChange {
	if f, ok := m.focus.State().(focus.Focused); ok {
		return FocusChange{ID: f.ID, Focused: true, Placement: f.Placement}
	}
	return FocusChange{}
}

func (m *Manager) emitFocus() {
	c := m.focusChange()
	m.log.Debug("focus_changed", "id", c.ID, "focused", c.Focused, "left", c.Placement.Left, "top", c.Placement.Top)
	for _, o := range m.observers {
		o.OnFocusChanged(c)
	}
}
