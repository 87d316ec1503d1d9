// Package focus tracks the single balloon held for inspection and where its
// inspection panel goes.
package focus

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
)

// State is either Unfocused or Focused.
type State interface {
	isState()
}

type Unfocused struct{}

type Focused struct {
	ID        balloon.ID
	Placement Placement
}

func (Unfocused) isState() {}
func (Focused) isState()   {}

// Lookup resolves an id to a live balloon, or nil.
type Lookup func(balloon.ID) *balloon.Balloon

// Layout is the geometry placement needs.
type Layout struct {
	Field r2.Vec
	Panel r2.Vec
	Gap   float64
	Inset float64
}

type Machine struct {
	lookup Lookup
	layout Layout
	state  State
}

func NewMachine(lookup Lookup, layout Layout) *Machine {
	return &Machine{lookup: lookup, layout: layout, state: Unfocused{}}
}

func (m *Machine) State() State { return m.state }

func (m *Machine) SetLayout(l Layout) { m.layout = l }
func (m *Machine) Layout() Layout     { return m.layout }

func (m *Machine) Focused() (balloon.ID, bool) {
	f, ok := m.state.(Focused)
	return f.ID, ok
}

func (m *Machine) IsFocused(id balloon.ID) bool {
	f, ok := m.state.(Focused)
	return ok && f.ID == id
}

// Toggle releases whatever is held. If id was not the held balloon, it is
// then frozen, its angle zeroed, and its panel placed. Toggling the same id
// twice returns to Unfocused.
func (m *Machine) Toggle(id balloon.ID) State {
	wasHeld := m.IsFocused(id)
	m.Clear()
	if wasHeld {
		return m.state
	}

	b := m.lookup(id)
	if b == nil {
		return m.state
	}
	b.Body.SetStatic(true)
	b.Body.SetAngle(0)
	m.state = Focused{
		ID:        id,
		Placement: Place(b.Body.Position, b.Size, m.layout),
	}
	return m.state
}

// Clear releases the held balloon, if any, back to dynamic simulation.
func (m *Machine) Clear() State {
	if f, ok := m.state.(Focused); ok {
		if b := m.lookup(f.ID); b != nil {
			b.Body.SetStatic(false)
		}
	}
	m.state = Unfocused{}
	return m.state
}
