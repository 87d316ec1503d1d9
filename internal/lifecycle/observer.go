package lifecycle

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/focus"
)

// Completion is emitted once per completed balloon, before it leaves the
// world, so effects can start from its last position.
type Completion struct {
	ID       balloon.ID
	Text     string
	Color    string
	Position r2.Vec
}

// FocusChange is emitted whenever the held balloon changes. Focused is false
// when nothing is held.
type FocusChange struct {
	ID        balloon.ID
	Focused   bool
	Placement focus.Placement
}

type Observer interface {
	OnCreated(v View)
	OnEdited(v View)
	OnCompleted(c Completion)
	OnFocusChanged(c FocusChange)
}

// ObserverFuncs adapts plain functions; nil fields are skipped.
type ObserverFuncs struct {
	Created      func(View)
	Edited       func(View)
	Completed    func(Completion)
	FocusChanged func(FocusChange)
}

func (o ObserverFuncs) OnCreated(v View) {
	if o.Created != nil {
		o.Created(v)
	}
}

func (o ObserverFuncs) OnEdited(v View) {
	if o.Edited != nil {
		o.Edited(v)
	}
}

func (o ObserverFuncs) OnCompleted(c Completion) {
	if o.Completed != nil {
		o.Completed(c)
	}
}

func (o ObserverFuncs) OnFocusChanged(c FocusChange) {
	if o.FocusChanged != nil {
		o.FocusChanged(c)
	}
}
