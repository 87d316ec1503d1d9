package metrics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/skyfloat/internal/balloon"
	"github.com/san-kum/skyfloat/internal/config"
	"github.com/san-kum/skyfloat/internal/dynamo"
	"github.com/san-kum/skyfloat/internal/field"
	"github.com/san-kum/skyfloat/internal/integrators"
)

func newField(t *testing.T) *field.Field {
	t.Helper()
	cfg := config.DefaultConfig().Field
	cfg.Width, cfg.Height = 800, 600
	f, err := field.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func testBalloon(x, y, targetY float64) *balloon.Balloon {
	body := dynamo.NewCircle(x, y, 10, dynamo.BodyOptions{Density: 0.001})
	return &balloon.Balloon{Size: 10, TargetY: targetY, Body: body}
}

func TestKineticEnergy(t *testing.T) {
	b := testBalloon(100, 100, 100)
	b.Body.PositionPrev = r2.Vec{X: 97, Y: 96}
	m := NewKineticEnergy()

	m.Observe([]*balloon.Balloon{b})
	want := 0.5 * b.Body.Mass * 25
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected %v, got %v", want, m.Value())
	}

	b.Body.SetStatic(true)
	m.Reset()
	m.Observe([]*balloon.Balloon{b})
	if m.Value() != 0 {
		t.Errorf("held balloons should not count, got %v", m.Value())
	}
}

func TestHeightError(t *testing.T) {
	m := NewHeightError()
	m.Observe([]*balloon.Balloon{testBalloon(0, 100, 120), testBalloon(0, 300, 260)})
	if m.Value() != 30 {
		t.Errorf("expected mean error 30, got %v", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %v", m.Value())
	}
}

func TestForceEffort(t *testing.T) {
	a := testBalloon(0, 0, 0)
	a.LastForce = r2.Vec{X: 3, Y: 4}
	b := testBalloon(0, 0, 0)

	m := NewForceEffort()
	m.Observe([]*balloon.Balloon{a, b})
	if m.Value() != 2.5 {
		t.Errorf("expected 2.5, got %v", m.Value())
	}
}

func TestContainment(t *testing.T) {
	f := newField(t)
	m := NewContainment(f)
	if m.Value() != 1 {
		t.Errorf("expected 1 before samples, got %v", m.Value())
	}
	m.Observe([]*balloon.Balloon{testBalloon(400, 300, 0)})
	m.Observe([]*balloon.Balloon{testBalloon(400, 300, 0), testBalloon(900, 300, 0)})
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %v", m.Value())
	}

	m.Reset()
	if err := f.Rebuild(1000, 600, f.ControlOffset()); err != nil {
		t.Fatal(err)
	}
	m.Observe([]*balloon.Balloon{testBalloon(900, 300, 0)})
	if m.Value() != 1 {
		t.Errorf("containment should follow the resized field, got %v", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Defaults(newField(t)) {
		names[m.Name()] = true
	}
	for _, n := range []string{"kinetic_energy", "height_error", "force_effort", "containment"} {
		if !names[n] {
			t.Errorf("missing metric %s", n)
		}
	}
}

func TestRecorderObservesEveryWorldStep(t *testing.T) {
	w := dynamo.NewWorld(dynamo.DefaultWorldConfig(), integrators.NewVerlet())
	b := testBalloon(400, 300, 300)
	w.Add(b.Body)

	c := NewContainment(newField(t))
	w.AddObserver(&Recorder{
		Metrics:  []Metric{c},
		Balloons: func() []*balloon.Balloon { return []*balloon.Balloon{b} },
	})
	for i := 0; i < 3; i++ {
		w.Step()
	}
	if c.samples != 3 {
		t.Errorf("expected 3 samples, got %d", c.samples)
	}
}
