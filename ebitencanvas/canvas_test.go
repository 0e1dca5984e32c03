package ebitencanvas

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/loom"
)

type demoModel struct {
	steps []loom.Step
	conns []loom.Connection
	subs  []func(loom.ModelEvent)
}

func (m *demoModel) Steps() []loom.Step                 { return m.steps }
func (m *demoModel) Inputs() []loom.Port                { return nil }
func (m *demoModel) Outputs() []loom.Port               { return nil }
func (m *demoModel) Connections() []loom.Connection     { return m.conns }
func (m *demoModel) RemoveStep(string) error            { return nil }
func (m *demoModel) RemoveInput(string) error           { return nil }
func (m *demoModel) RemoveOutput(string) error          { return nil }
func (m *demoModel) Disconnect(...string) error         { return nil }
func (m *demoModel) Subscribe(fn func(loom.ModelEvent)) { m.subs = append(m.subs, fn) }

func demoStep(id string, x, y float64) loom.Step {
	return loom.Step{
		ID:       id,
		Position: loom.Vec2{X: x, Y: y},
		Visible:  true,
		Inputs: []loom.Port{{
			ID: id + ".in", Kind: loom.ElementInput, Step: id,
			Anchor: loom.Vec2{X: x, Y: y + NodeHeight/2}, Visible: true,
		}},
		Outputs: []loom.Port{{
			ID: id + ".out", Kind: loom.ElementOutput, Step: id,
			Anchor: loom.Vec2{X: x + NodeWidth, Y: y + NodeHeight/2}, Visible: true,
		}},
	}
}

func newDemo() (*demoModel, *Canvas, *loom.Engine) {
	model := &demoModel{
		steps: []loom.Step{demoStep("a", 100, 100), demoStep("b", 400, 200)},
		conns: []loom.Connection{{
			ID: "c1", SourceStep: "a", SourcePort: "a.out",
			DestinationStep: "b", DestinationPort: "b.in", Visible: true,
		}},
	}
	canvas := NewCanvas(model)
	canvas.Resize(800, 600)
	engine := loom.New(model, canvas)
	return model, canvas, engine
}

func TestCanvasNodeBounds(t *testing.T) {
	_, canvas, _ := newDemo()
	b, ok := canvas.Bounds(loom.ElementRef{Kind: loom.ElementNode, ID: "a"})
	if !ok {
		t.Fatal("no bounds for mounted step")
	}
	want := loom.Rect{X: 100, Y: 100, Width: NodeWidth, Height: NodeHeight}
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}

func TestCanvasPortAnchorFollowsNode(t *testing.T) {
	_, canvas, _ := newDemo()
	canvas.MoveNode("a", loom.Vec2{X: 130, Y: 110})

	a, ok := canvas.portAnchor("a.out")
	if !ok {
		t.Fatal("no anchor for a.out")
	}
	if a.X != 100+NodeWidth+30 || a.Y != 100+NodeHeight/2+10 {
		t.Errorf("anchor = %v, want model anchor shifted by (30,10)", a)
	}
}

func TestCanvasRemove(t *testing.T) {
	_, canvas, _ := newDemo()
	ref := loom.ElementRef{Kind: loom.ElementNode, ID: "a"}
	canvas.Remove(ref)
	if canvas.mounted[ref] {
		t.Error("still mounted after Remove")
	}
	if _, ok := canvas.nodes["a"]; ok {
		t.Error("position kept after Remove")
	}
	if _, ok := canvas.Bounds(ref); ok {
		t.Error("bounds reported for removed step")
	}
}

func TestCanvasViewportBounds(t *testing.T) {
	_, canvas, _ := newDemo()
	if got := canvas.ViewportBounds(); got.Width != 800 || got.Height != 600 {
		t.Errorf("viewport = %+v, want 800x600", got)
	}
}

func TestDriverHitTest(t *testing.T) {
	_, canvas, engine := newDemo()
	d := NewDriver(engine, canvas)

	cases := []struct {
		name   string
		cursor loom.Vec2
		want   loom.ElementRef
	}{
		{"port", loom.Vec2{X: 100 + NodeWidth, Y: 100 + NodeHeight/2}, loom.ElementRef{Kind: loom.ElementOutput, ID: "a.out"}},
		{"node", loom.Vec2{X: 150, Y: 110}, loom.ElementRef{Kind: loom.ElementNode, ID: "a"}},
		{"edge", loom.Vec2{X: 310, Y: 174}, loom.ElementRef{Kind: loom.ElementEdge, ID: "c1"}},
		{"empty", loom.Vec2{X: 700, Y: 500}, loom.NoElement},
	}
	for _, c := range cases {
		if got := d.hitTest(c.cursor); got != c.want {
			t.Errorf("%s: hitTest(%v) = %v, want %v", c.name, c.cursor, got, c.want)
		}
	}
}

func TestDriverKeyCommandsEdgeTriggered(t *testing.T) {
	_, canvas, engine := newDemo()
	d := NewDriver(engine, canvas)

	deletes := 0
	engine.On(loom.EventBeforeChange, func(any) error { deletes++; return nil })

	held := map[ebiten.Key]bool{ebiten.KeyDelete: true}
	orig := keyJustPressed
	keyJustPressed = func(k ebiten.Key) bool { return held[k] }
	defer func() { keyJustPressed = orig }()

	engine.SelectNode("a")
	d.handleKeys()

	// The key stays down on the next tick; the command must not re-fire.
	held[ebiten.KeyDelete] = false
	engine.SelectNode("b")
	d.handleKeys()

	if deletes != 1 {
		t.Errorf("held Delete fired %d delete commands, want 1", deletes)
	}
}

func TestDriverHitTestUnderZoom(t *testing.T) {
	_, canvas, engine := newDemo()
	d := NewDriver(engine, canvas)
	engine.ScaleWorkflowAt(0.5, loom.Vec2{})

	// Canvas point (150,110) sits at screen (75,55) at half scale.
	got := d.hitTest(loom.Vec2{X: 75, Y: 55})
	want := loom.ElementRef{Kind: loom.ElementNode, ID: "a"}
	if got != want {
		t.Errorf("hitTest = %v, want %v", got, want)
	}
}
