package focus_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/field"
	"github.com/san-kum/skyfloat/internal/focus"
	"github.com/san-kum/skyfloat/internal/rng"
)

var _ = Describe("Machine", func() {
	var (
		live    map[balloon.ID]*balloon.Balloon
		machine *focus.Machine
		a, b    *balloon.Balloon
	)

	BeforeEach(func() {
		cfg := config.DefaultConfig()
		f, err := field.New(cfg.Field)
		Expect(err).NotTo(HaveOccurred())
		factory := balloon.NewFactory(cfg, f, rng.New(11))

		a = factory.New("A", balloon.None)
		b = factory.New("B", balloon.Work)
		a.Body.SetPosition(r2.Vec{X: 200, Y: 300})
		b.Body.SetPosition(r2.Vec{X: 600, Y: 300})
		a.Body.Angle, b.Body.Angle = 0.4, -0.2

		live = map[balloon.ID]*balloon.Balloon{a.ID: a, b.ID: b}
		machine = focus.NewMachine(func(id balloon.ID) *balloon.Balloon { return live[id] }, focus.Layout{
			Field: r2.Vec{X: 800, Y: 600},
			Panel: r2.Vec{X: 220, Y: 140},
			Gap:   15,
			Inset: 10,
		})
	})

	It("starts unfocused", func() {
		Expect(machine.State()).To(Equal(focus.Unfocused{}))
		_, ok := machine.Focused()
		Expect(ok).To(BeFalse())
	})

	It("freezes the focused balloon and zeroes its angle", func() {
		state := machine.Toggle(a.ID)

		Expect(state).To(BeAssignableToTypeOf(focus.Focused{}))
		Expect(machine.IsFocused(a.ID)).To(BeTrue())
		Expect(a.Body.IsStatic()).To(BeTrue())
		Expect(a.Body.Angle).To(BeZero())
		Expect(a.Body.AngularVelocity()).To(BeZero())
	})

	It("is an involution", func() {
		machine.Toggle(a.ID)
		Expect(machine.Toggle(a.ID)).To(Equal(focus.Unfocused{}))
		Expect(a.Body.IsStatic()).To(BeFalse())
	})

	It("moves focus from A to B leaving exactly one holder", func() {
		machine.Toggle(a.ID)
		machine.Toggle(b.ID)

		Expect(a.Body.IsStatic()).To(BeFalse())
		Expect(b.Body.IsStatic()).To(BeTrue())
		id, ok := machine.Focused()
		Expect(ok).To(BeTrue())
		Expect(id).To(Equal(b.ID))
		Expect(machine.IsFocused(a.ID)).To(BeFalse())
	})

	It("restores the released balloon's mass", func() {
		mass := a.Body.Mass
		machine.Toggle(a.ID)
		machine.Clear()
		Expect(a.Body.Mass).To(Equal(mass))
	})

	It("ignores unknown balloons", func() {
		machine.Toggle(a.ID)
		Expect(machine.Toggle(balloon.ID(999))).To(Equal(focus.Unfocused{}))
		Expect(a.Body.IsStatic()).To(BeFalse())
	})

	It("clears focus when the held balloon is already gone", func() {
		machine.Toggle(a.ID)
		delete(live, a.ID)
		Expect(machine.Clear()).To(Equal(focus.Unfocused{}))
	})

	It("places the panel right of the balloon", func() {
		state := machine.Toggle(a.ID).(focus.Focused)
		Expect(state.Placement.Side).To(Equal(focus.SideRight))
		Expect(state.Placement.Left).To(BeNumerically("~", 200+a.Size+15))
		Expect(state.Placement.Top).To(BeNumerically("~", 300-70))
	})

	It("flips the panel left near the right edge", func() {
		state := machine.Toggle(b.ID).(focus.Focused)
		Expect(state.Placement.Side).To(Equal(focus.SideLeft))
		Expect(state.Placement.Left).To(BeNumerically("~", 600-b.Size-220-15))
	})
})

var _ = Describe("Place", func() {
	layout := focus.Layout{
		Field: r2.Vec{X: 800, Y: 600},
		Panel: r2.Vec{X: 220, Y: 140},
		Gap:   15,
		Inset: 10,
	}

	DescribeTable("placement",
		func(center r2.Vec, radius float64, want focus.Placement) {
			Expect(focus.Place(center, radius, layout)).To(Equal(want))
		},
		Entry("default right", r2.Vec{X: 100, Y: 300}, 40.0, focus.Placement{Left: 155, Top: 230, Side: focus.SideRight}),
		Entry("flip left", r2.Vec{X: 700, Y: 300}, 40.0, focus.Placement{Left: 425, Top: 230, Side: focus.SideLeft}),
		Entry("clamp top", r2.Vec{X: 100, Y: 20}, 40.0, focus.Placement{Left: 155, Top: 10, Side: focus.SideRight}),
		Entry("clamp bottom", r2.Vec{X: 100, Y: 580}, 40.0, focus.Placement{Left: 155, Top: 450, Side: focus.SideRight}),
	)

	It("decides the flip before clamping", func() {
		narrow := layout
		narrow.Field = r2.Vec{X: 300, Y: 600}
		p := focus.Place(r2.Vec{X: 150, Y: 300}, 40, narrow)
		Expect(p.Side).To(Equal(focus.SideLeft))
		Expect(p.Left).To(Equal(10.0))
	})

	It("keeps the top-left corner inside an undersized field", func() {
		tiny := layout
		tiny.Field = r2.Vec{X: 150, Y: 100}
		p := focus.Place(r2.Vec{X: 75, Y: 50}, 20, tiny)
		Expect(p.Left).To(BeNumerically(">=", 0))
		Expect(p.Top).To(BeNumerically(">=", 0))
	})
})
