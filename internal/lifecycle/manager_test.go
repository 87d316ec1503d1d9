package lifecycle_test

import (
	"io"
	"log/slog"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/field"
	"github.com/san-kum/skyfloat/internal/focus"
	"github.com/san-kum/skyfloat/internal/lifecycle"
	"github.com/san-kum/skyfloat/internal/rng"
	"github.com/san-kum/skyfloat/internal/storage"
)

type recorder struct {
	created   []lifecycle.View
	edited    []lifecycle.View
	completed []lifecycle.Completion
	focus     []lifecycle.FocusChange
}

func (r *recorder) observer() lifecycle.ObserverFuncs {
	return lifecycle.ObserverFuncs{
		Created:      func(v lifecycle.View) { r.created = append(r.created, v) },
		Edited:       func(v lifecycle.View) { r.edited = append(r.edited, v) },
		Completed:    func(c lifecycle.Completion) { r.completed = append(r.completed, c) },
		FocusChanged: func(c lifecycle.FocusChange) { r.focus = append(r.focus, c) },
	}
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newManager(cfg *config.Config, kv storage.KV) *lifecycle.Manager {
	m, err := lifecycle.New(lifecycle.Options{
		Config: cfg,
		Source: rng.New(21),
		Store:  storage.NewBalloons(kv, cfg.Storage.Key),
		Logger: quiet,
	})
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Manager", func() {
	var (
		cfg *config.Config
		kv  *storage.MemoryKV
		m   *lifecycle.Manager
		rec *recorder
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		kv = storage.NewMemoryKV()
		m = newManager(cfg, kv)
		rec = &recorder{}
		m.Subscribe(rec.observer())
	})

	Describe("Create", func() {
		It("builds a work balloon for \"Buy milk\"", func() {
			id, ok := m.Create("Buy milk", balloon.Work)
			Expect(ok).To(BeTrue())

			b := m.Get(id)
			Expect(b).NotTo(BeNil())
			Expect(balloon.Work.InPalette(b.Color)).To(BeTrue())
			Expect(b.Size).To(BeNumerically(">=", 30))
			Expect(b.Size).To(BeNumerically("<=", 50))
			Expect(m.Field().InBand(b.TargetY, b.Size)).To(BeTrue())
			Expect(b.Tail.Len()).To(Equal(15))
		})

		It("adds the body and tail to the world together", func() {
			id, _ := m.Create("Buy milk", balloon.Work)
			b := m.Get(id)
			for _, body := range b.Composite().Bodies {
				Expect(m.World().Contains(body)).To(BeTrue())
			}
			Expect(m.World().Constraints()).To(HaveLen(15))
		})

		It("ignores blank text", func() {
			_, ok := m.Create("   ", balloon.None)
			Expect(ok).To(BeFalse())
			Expect(m.Len()).To(Equal(0))
			Expect(kv.Puts()).To(Equal(0))
			Expect(rec.created).To(BeEmpty())
		})

		It("trims text, persists and notifies", func() {
			m.Create("  Water plants ", balloon.None)
			Expect(rec.created).To(HaveLen(1))
			Expect(rec.created[0].Text).To(Equal("Water plants"))
			Expect(kv.Puts()).To(Equal(1))
		})
	})

	Describe("Step", func() {
		var a, b balloon.ID

		BeforeEach(func() {
			a, _ = m.Create("A", balloon.None)
			b, _ = m.Create("B", balloon.Personal)
		})

		It("keeps every tail at its segment count", func() {
			for i := 0; i < 300; i++ {
				m.Step()
				for _, bl := range m.Balloons() {
					Expect(bl.Tail.Len()).To(Equal(15))
				}
			}
		})

		It("never changes stored targets", func() {
			targets := map[balloon.ID]float64{}
			for _, bl := range m.Balloons() {
				targets[bl.ID] = bl.TargetY
			}
			for i := 0; i < 500; i++ {
				m.Step()
			}
			for _, bl := range m.Balloons() {
				Expect(bl.TargetY).To(Equal(targets[bl.ID]))
				Expect(m.Field().InBand(bl.TargetY, bl.Size)).To(BeTrue())
			}
		})

		It("holds a focused balloon still with zero force", func() {
			for i := 0; i < 60; i++ {
				m.Step()
			}
			m.ToggleFocus(a)
			held := m.Get(a)
			pos := held.Body.Position

			for i := 0; i < 120; i++ {
				m.Step()
				Expect(held.LastForce).To(Equal(r2.Vec{}))
				Expect(held.Body.AngularVelocity()).To(BeZero())
				Expect(held.Body.Angle).To(BeZero())
			}
			Expect(held.Body.Position).To(Equal(pos))
			Expect(m.Get(b).LastForce).NotTo(Equal(r2.Vec{}))
		})

		It("does not persist per frame", func() {
			puts := kv.Puts()
			for i := 0; i < 100; i++ {
				m.Step()
			}
			Expect(kv.Puts()).To(Equal(puts))
		})

		It("lets balloons rise from the floor", func() {
			start := m.Get(a).Body.Position.Y
			for i := 0; i < 200; i++ {
				m.Step()
			}
			Expect(m.Get(a).Body.Position.Y).To(BeNumerically("<", start))
			Expect(m.Steps()).To(Equal(200))
		})
	})

	Describe("Focus", func() {
		var a, b balloon.ID

		BeforeEach(func() {
			a, _ = m.Create("A", balloon.None)
			b, _ = m.Create("B", balloon.Work)
		})

		It("is an involution", func() {
			m.ToggleFocus(a)
			m.ToggleFocus(a)
			Expect(m.Focus()).To(Equal(focus.Unfocused{}))
			Expect(m.Get(a).Body.IsStatic()).To(BeFalse())
			Expect(rec.focus).To(HaveLen(2))
			Expect(rec.focus[1].Focused).To(BeFalse())
		})

		It("moves focus from A to B", func() {
			m.ToggleFocus(a)
			m.ToggleFocus(b)

			Expect(m.Get(a).Body.IsStatic()).To(BeFalse())
			Expect(m.Get(b).Body.IsStatic()).To(BeTrue())
			state, ok := m.Focus().(focus.Focused)
			Expect(ok).To(BeTrue())
			Expect(state.ID).To(Equal(b))

			held := 0
			for _, v := range m.Frame().Balloons {
				if v.Focused {
					held++
				}
			}
			Expect(held).To(Equal(1))
		})

		It("unfocuses on a background click", func() {
			m.ToggleFocus(a)
			m.UnfocusAny()
			Expect(m.Focus()).To(Equal(focus.Unfocused{}))

			m.UnfocusAny()
			Expect(rec.focus).To(HaveLen(2))
		})

		It("places the panel from the measured size", func() {
			m.SetPanelSize(100, 50)
			m.Get(a).Body.SetPosition(r2.Vec{X: 200, Y: 300})
			m.ToggleFocus(a)
			bl := m.Get(a)
			change := rec.focus[0]
			Expect(change.ID).To(Equal(a))
			Expect(change.Placement.Top).To(BeNumerically("~", bl.Body.Position.Y-25))
			Expect(m.Frame().Focus).To(Equal(change))
		})
	})

	Describe("Edit", func() {
		It("replaces text only", func() {
			id, _ := m.Create("old", balloon.None)
			before := m.Get(id).Snapshot()

			Expect(m.Edit(id, " new ")).To(BeTrue())
			after := m.Get(id).Snapshot()
			Expect(after.Text).To(Equal("new"))
			after.Text = before.Text
			Expect(after).To(Equal(before))
			Expect(rec.edited).To(HaveLen(1))
			Expect(kv.Puts()).To(Equal(2))
		})

		It("ignores blank text and stale ids", func() {
			id, _ := m.Create("keep", balloon.None)
			Expect(m.Edit(id, "")).To(BeFalse())
			Expect(m.Edit(balloon.ID(999), "x")).To(BeFalse())
			Expect(m.Get(id).Text).To(Equal("keep"))
			Expect(rec.edited).To(BeEmpty())
		})
	})

	Describe("Complete", func() {
		var id balloon.ID

		BeforeEach(func() {
			id, _ = m.Create("done soon", balloon.Personal)
			for i := 0; i < 30; i++ {
				m.Step()
			}
		})

		It("removes the balloon from registry and world immediately", func() {
			b := m.Get(id)
			bodies := len(m.World().Bodies())

			Expect(m.Complete(id)).To(BeTrue())
			Expect(m.Contains(id)).To(BeFalse())
			Expect(m.InWorld(b)).To(BeFalse())
			Expect(m.World().Bodies()).To(HaveLen(bodies - 16))
			Expect(m.World().Constraints()).To(BeEmpty())
		})

		It("notifies once with the last position before removal", func() {
			b := m.Get(id)
			pos := b.Body.Position
			var stillPresent bool
			m.Subscribe(lifecycle.ObserverFuncs{Completed: func(lifecycle.Completion) {
				stillPresent = m.Contains(id)
			}})

			m.Complete(id)
			m.Complete(id)

			Expect(rec.completed).To(HaveLen(1))
			Expect(rec.completed[0].Position).To(Equal(pos))
			Expect(rec.completed[0].Color).To(Equal(b.Color))
			Expect(stillPresent).To(BeTrue())
		})

		It("keeps a ghost until the animation finishes", func() {
			m.Complete(id)
			Expect(m.Frame().Ghosts).To(HaveLen(1))
			Expect(m.Frame().Balloons).To(BeEmpty())

			m.Step()
			Expect(m.Frame().Ghosts).To(HaveLen(1))

			m.FinishRemoval(id)
			Expect(m.Frame().Ghosts).To(BeEmpty())
		})

		It("clears focus when the held balloon completes", func() {
			m.ToggleFocus(id)
			m.Complete(id)
			Expect(m.Focus()).To(Equal(focus.Unfocused{}))
			Expect(rec.focus[len(rec.focus)-1].Focused).To(BeFalse())
		})

		It("persists the shorter list", func() {
			other, _ := m.Create("stays", balloon.None)
			m.Complete(id)

			records, err := storage.NewBalloons(kv, "balloons").Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(1))
			s, err := records[0].Snapshot(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(m.Get(other).Snapshot()))
		})

		It("treats stale ids as already completed", func() {
			Expect(m.Complete(balloon.ID(12345))).To(BeFalse())
			Expect(rec.completed).To(BeEmpty())
		})
	})

	Describe("Persistence", func() {
		It("round trips through a fresh manager in order", func() {
			m.Create("one", balloon.None)
			m.Create("two", balloon.Work)
			m.Create("three", balloon.Personal)
			want := m.Snapshots()

			fresh := newManager(cfg, kv)
			loaded, skipped := fresh.Load()
			Expect(loaded).To(Equal(3))
			Expect(skipped).To(BeZero())
			Expect(fresh.Snapshots()).To(Equal(want))
		})

		It("skips malformed records and keeps the rest", func() {
			Expect(kv.Put("balloons", []byte(`[
				{"text":"good","category":"work","color":"#A7C7E7","size":40,"targetY":300},
				{"text":"no color","category":"work","size":40,"targetY":300},
				{"text":"no category","color":"#FFB7CE","size":35,"targetY":250},
				{"text":"also good","category":"none","color":"#FFB7CE","size":35,"targetY":250}
			]`))).To(Succeed())

			loaded, skipped := m.Load()
			Expect(loaded).To(Equal(2))
			Expect(skipped).To(Equal(2))
			Expect(m.Snapshots()[1].Text).To(Equal("also good"))
		})

		It("starts empty when the saved list is unreadable", func() {
			Expect(kv.Put("balloons", []byte(`{"not":"a list"}`))).To(Succeed())
			loaded, skipped := m.Load()
			Expect(loaded).To(BeZero())
			Expect(skipped).To(BeZero())
			Expect(m.Len()).To(BeZero())
		})

		It("starts empty when nothing was saved", func() {
			loaded, _ := m.Load()
			Expect(loaded).To(BeZero())
		})
	})

	Describe("Resize", func() {
		var id balloon.ID

		BeforeEach(func() {
			Expect(storage.NewBalloons(kv, "balloons").Save([]balloon.Snapshot{
				{Text: "low", Category: balloon.None, Color: "#FFB7CE", Size: 40, TargetY: 500},
			})).To(Succeed())
		})

		It("keeps stale targets by default", func() {
			m.Load()
			id = m.Balloons()[0].ID
			Expect(m.Resize(400, 300, 70)).To(BeTrue())

			b := m.Get(id)
			y := b.Body.Position.Y
			m.Step()

			Expect(b.TargetY).To(Equal(500.0))
			want := (500+cfg.Drift.Amplitude*math.Sin(b.DriftPhase)-y)*cfg.Drift.Gain - cfg.Drift.Buoyancy*b.Body.Mass
			Expect(b.LastForce.Y).To(BeNumerically("~", want, 1e-12))
		})

		It("reclamps when configured", func() {
			cfg.Field.ReclampOnResize = true
			m = newManager(cfg, kv)
			m.Load()
			id = m.Balloons()[0].ID
			puts := kv.Puts()

			m.Resize(400, 300, 70)
			_, hi := m.Field().Band(40)
			Expect(m.Get(id).TargetY).To(Equal(hi - field.EdgeInset))
			Expect(m.Field().InBand(m.Get(id).TargetY, 40)).To(BeTrue())
			Expect(kv.Puts()).To(Equal(puts + 1))
		})

		It("ignores non-positive sizes", func() {
			Expect(m.Resize(0, 300, 70)).To(BeFalse())
			Expect(m.Field().Width()).To(Equal(800.0))
			Expect(m.Resize(400, -5, 70)).To(BeFalse())
			Expect(m.Field().Height()).To(Equal(600.0))
		})
	})

	Describe("Frame", func() {
		It("reports tails from the knot", func() {
			id, _ := m.Create("draw me", balloon.None)
			m.Step()
			f := m.Frame()
			Expect(f.Balloons).To(HaveLen(1))
			v := f.Balloons[0]
			Expect(v.ID).To(Equal(id))
			Expect(v.Tail).To(HaveLen(16))
			Expect(v.Tail[0]).To(Equal(m.Get(id).Knot()))
			Expect(f.Width).To(Equal(800.0))
			Expect(f.Step).To(Equal(1))
		})

		It("hit-tests the front-most balloon", func() {
			a, _ := m.Create("back", balloon.None)
			b, _ := m.Create("front", balloon.None)
			m.Get(a).Body.SetPosition(r2.Vec{X: 300, Y: 300})
			m.Get(b).Body.SetPosition(r2.Vec{X: 310, Y: 300})

			hit, ok := m.BalloonAt(305, 300)
			Expect(ok).To(BeTrue())
			Expect(hit).To(Equal(b))

			_, ok = m.BalloonAt(700, 100)
			Expect(ok).To(BeFalse())
		})

		It("flattens live balloons into CSV rows", func() {
			id, _ := m.Create("Buy milk", balloon.Work)
			done, _ := m.Create("gone", balloon.None)
			m.Complete(done)
			m.Step()

			rows := m.Frame().Rows()
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].ID).To(Equal(uint64(id)))
			Expect(rows[0].Category).To(Equal("work"))
			Expect(rows[0].Step).To(Equal(1))
			Expect(rows[0].Y).To(Equal(m.Get(id).Position().Y))
			Expect(rows[0].ForceY).To(Equal(m.Get(id).LastForce.Y))
		})
	})
})
