package loom

import "testing"

func TestNodeDragDeadZone(t *testing.T) {
	e, _, r := newTestEngine()
	e.BeginNodeDrag("a", Vec2{X: 400, Y: 300})
	e.DragTo(Vec2{X: 402, Y: 303})

	if e.drag.dragging {
		t.Error("movement inside the dead zone started the drag")
	}
	if got := r.moved["a"]; got.X != 100 || got.Y != 100 {
		t.Errorf("step moved to %v inside the dead zone", got)
	}

	e.DragTo(Vec2{X: 410, Y: 300})
	if !e.drag.dragging {
		t.Error("movement past the dead zone did not start the drag")
	}
	if got := r.moved["a"]; !approxEqual(got.X, 110, epsilon) || !approxEqual(got.Y, 100, epsilon) {
		t.Errorf("step position = %v, want (110,100)", got)
	}
}

func TestNodeDragAdaptsToScale(t *testing.T) {
	e, _, r := newTestEngine()
	e.ScaleWorkflow(0.5)
	e.BeginNodeDrag("a", Vec2{X: 400, Y: 300})
	e.DragTo(Vec2{X: 410, Y: 295})

	// 10 screen px at half scale is 20 canvas units.
	got := r.moved["a"]
	if !approxEqual(got.X, 120, epsilon) || !approxEqual(got.Y, 90, epsilon) {
		t.Errorf("step position = %v, want (120,90)", got)
	}
}

func TestNodeDragReroutesAttachedEdges(t *testing.T) {
	e, _, r := newTestEngine()
	e.BeginNodeDrag("a", Vec2{X: 400, Y: 300})
	e.DragTo(Vec2{X: 430, Y: 310})

	// a.out started at (160,120); the step moved by (30,10).
	c := r.paths["c1"]
	if !approxEqual(c.Start.X, 190, epsilon) || !approxEqual(c.Start.Y, 130, epsilon) {
		t.Errorf("edge start = %v, want (190,130)", c.Start)
	}
	if !approxEqual(c.End.X, 400, epsilon) || !approxEqual(c.End.Y, 170, epsilon) {
		t.Errorf("edge end = %v, want unchanged (400,170)", c.End)
	}
}

func TestNodeDragUnknownStep(t *testing.T) {
	e, _, _ := newTestEngine()
	e.BeginNodeDrag("nope", Vec2{})
	if e.drag != nil {
		t.Error("drag session created for unknown step")
	}
}

func TestOnlyOneDragAtATime(t *testing.T) {
	e, _, _ := newTestEngine()
	e.BeginNodeDrag("a", Vec2{X: 400, Y: 300})
	e.BeginEdgeDrag("b.out", Vec2{X: 460, Y: 170})
	if e.drag.Kind != DragNode {
		t.Errorf("second begin replaced the active session: kind = %d", e.drag.Kind)
	}
	e.EndDrag()
	if e.drag != nil {
		t.Error("session not cleared by EndDrag")
	}
}

func TestEdgeDragCandidatesOppositePolarity(t *testing.T) {
	e, _, _ := newTestEngine()

	// From a step output: every consumer not on the origin step.
	e.BeginEdgeDrag("a.out", Vec2{X: 160, Y: 120})
	want := []string{"b.in", "wout"}
	if len(e.drag.candidates) != len(want) {
		t.Fatalf("candidates = %v, want %v", e.drag.candidates, want)
	}
	for i := range want {
		if e.drag.candidates[i] != want[i] {
			t.Errorf("candidates = %v, want %v", e.drag.candidates, want)
			break
		}
	}
	if e.drag.direction != DirectionRight {
		t.Errorf("direction = %d, want DirectionRight", e.drag.direction)
	}
	e.EndDrag()

	// From a step input: every producer, workflow inputs included.
	e.BeginEdgeDrag("b.in", Vec2{X: 400, Y: 170})
	want = []string{"a.out", "win"}
	if len(e.drag.candidates) != len(want) || e.drag.candidates[0] != want[0] || e.drag.candidates[1] != want[1] {
		t.Errorf("candidates = %v, want %v", e.drag.candidates, want)
	}
	if e.drag.direction != DirectionLeft {
		t.Errorf("direction = %d, want DirectionLeft", e.drag.direction)
	}
	e.EndDrag()

	// A workflow input produces data despite its input kind.
	e.BeginEdgeDrag("win", Vec2{X: 0, Y: 120})
	want = []string{"a.in", "b.in", "wout"}
	if len(e.drag.candidates) != 3 {
		t.Fatalf("candidates = %v, want %v", e.drag.candidates, want)
	}
	for i := range want {
		if e.drag.candidates[i] != want[i] {
			t.Errorf("candidates = %v, want %v", e.drag.candidates, want)
			break
		}
	}
	e.EndDrag()
}

func TestEdgeDragSnapHighlight(t *testing.T) {
	e, _, r := newTestEngine()
	e.BeginEdgeDrag("a.out", Vec2{X: 160, Y: 120})

	if !r.mounted["edge:ghost:a.out"] {
		t.Fatal("ghost edge not mounted")
	}

	// 40px from b.in, 240px from wout: the nearer port snaps.
	e.DragTo(Vec2{X: 360, Y: 170})
	snapRef := ElementRef{Kind: ElementInput, ID: "b.in"}
	if !r.hasTag(snapRef, ClassSnap) {
		t.Error("nearest in-range port not highlighted")
	}
	if e.drag.ghostVisible {
		t.Error("ghost visible while a snap target is active")
	}

	// Exactly at the snap threshold: no target, and the cursor is far
	// enough from the origin node for the ghost to appear.
	e.DragTo(Vec2{X: 300, Y: 170})
	if r.hasTag(snapRef, ClassSnap) {
		t.Error("highlight kept at exactly the snap threshold")
	}
	if !r.hasTag(e.drag.ghostRef(), ClassGhost) {
		t.Error("ghost hidden with no snap target and cursor far from origin")
	}

	// The ghost curve tracks the cursor.
	c := r.paths["ghost:a.out"]
	if c.Start.X != 160 || c.Start.Y != 120 {
		t.Errorf("ghost start = %v, want origin anchor (160,120)", c.Start)
	}
	if c.End.X != 300 || c.End.Y != 170 {
		t.Errorf("ghost end = %v, want cursor (300,170)", c.End)
	}

	e.EndDrag()
	if r.mounted["edge:ghost:a.out"] {
		t.Error("ghost edge still mounted after drag end")
	}
	if r.taggedCount(ClassSnap) != 0 {
		t.Error("snap highlight survived drag end")
	}
}

func TestEdgeDragSnapEmitsConnectionCreate(t *testing.T) {
	e, _, _ := newTestEngine()
	var got ConnectionRequest
	e.On(EventConnectionCreate, func(p any) error {
		got = p.(ConnectionRequest)
		return nil
	})

	e.BeginEdgeDrag("a.out", Vec2{X: 160, Y: 120})
	e.DragTo(Vec2{X: 360, Y: 170})
	e.EndDrag()

	want := ConnectionRequest{Source: "a.out", Destination: "b.in"}
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
}

func TestEdgeDragSnapOrdersByPolarity(t *testing.T) {
	e, _, _ := newTestEngine()
	var got ConnectionRequest
	e.On(EventConnectionCreate, func(p any) error {
		got = p.(ConnectionRequest)
		return nil
	})

	// Dragging from the consuming end still yields source -> destination.
	e.BeginEdgeDrag("b.in", Vec2{X: 400, Y: 170})
	e.DragTo(Vec2{X: 180, Y: 120})
	e.EndDrag()

	want := ConnectionRequest{Source: "a.out", Destination: "b.in"}
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
}

func TestEdgeDragGhostDropRequestsPort(t *testing.T) {
	e, _, _ := newTestEngine()
	var outputs, inputs []PortRequest
	e.On(EventCreateOutput, func(p any) error {
		outputs = append(outputs, p.(PortRequest))
		return nil
	})
	e.On(EventCreateInput, func(p any) error {
		inputs = append(inputs, p.(PortRequest))
		return nil
	})

	// Dropping a visible ghost from a producer asks for a new output.
	e.BeginEdgeDrag("a.out", Vec2{X: 160, Y: 120})
	e.DragTo(Vec2{X: 300, Y: 400})
	e.EndDrag()
	if len(outputs) != 1 || len(inputs) != 0 {
		t.Fatalf("outputs=%v inputs=%v, want one output request", outputs, inputs)
	}
	if outputs[0].Origin != "a.out" || outputs[0].Position.X != 300 || outputs[0].Position.Y != 400 {
		t.Errorf("request = %+v, want origin a.out at (300,400)", outputs[0])
	}

	// And from a consumer, a new input.
	e.BeginEdgeDrag("b.in", Vec2{X: 400, Y: 170})
	e.DragTo(Vec2{X: 700, Y: 450})
	e.EndDrag()
	if len(inputs) != 1 {
		t.Fatalf("inputs=%v, want one input request", inputs)
	}
	if inputs[0].Origin != "b.in" {
		t.Errorf("request origin = %q, want b.in", inputs[0].Origin)
	}
}

func TestEdgeDragNoEventInsideDeadZone(t *testing.T) {
	e, _, _ := newTestEngine()
	events := 0
	e.On(EventCreateOutput, func(any) error { events++; return nil })
	e.On(EventConnectionCreate, func(any) error { events++; return nil })

	e.BeginEdgeDrag("a.out", Vec2{X: 160, Y: 120})
	e.DragTo(Vec2{X: 162, Y: 121})
	e.EndDrag()
	if events != 0 {
		t.Errorf("%d events from a drag that never left the dead zone", events)
	}
}

func TestPanDrag(t *testing.T) {
	e, _, r := newTestEngine()
	e.BeginPan(Vec2{X: 400, Y: 300})
	e.DragTo(Vec2{X: 420, Y: 280})

	v := e.state.Viewport
	if !approxEqual(v.TranslateX, 20, epsilon) || !approxEqual(v.TranslateY, -20, epsilon) {
		t.Errorf("translate = (%f,%f), want (20,-20)", v.TranslateX, v.TranslateY)
	}
	if !approxEqual(r.tx, 20, epsilon) {
		t.Errorf("renderer tx = %f, want 20", r.tx)
	}
	e.EndDrag()
}

func TestPanDragRawDelta(t *testing.T) {
	e, _, _ := newTestEngine()
	e.ScaleWorkflow(0.5)
	e.BeginPan(Vec2{X: 400, Y: 300})
	e.DragTo(Vec2{X: 410, Y: 300})

	// Pan tracks the pointer in screen space, unadapted.
	if !approxEqual(e.state.Viewport.TranslateX, 10, epsilon) {
		t.Errorf("TranslateX = %f, want 10", e.state.Viewport.TranslateX)
	}
}

func TestDragBoundaryCrossingNoJump(t *testing.T) {
	e, _, r := newTestEngine()
	e.BeginNodeDrag("a", Vec2{X: 400, Y: 300})

	// Step up to just inside the zone edge, then across it. The first
	// in-zone displacement must match the boundary-relative formula, not
	// jump past it.
	e.DragTo(Vec2{X: 749, Y: 300})
	before := r.moved["a"].X
	e.DragTo(Vec2{X: 751, Y: 300})
	after := r.moved["a"].X
	if diff := after - before; diff < 0 || diff > 5 {
		t.Errorf("crossing the zone edge moved the step by %f", diff)
	}
	e.EndDrag()
}

func TestDragToWithoutSession(t *testing.T) {
	e, _, _ := newTestEngine()
	e.DragTo(Vec2{X: 100, Y: 100}) // no-op
	e.EndDrag()                    // no-op
}
