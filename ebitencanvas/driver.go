package ebitencanvas

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/loom"
)

// keyJustPressed is a seam over inpututil so key handling is testable
// without a running game loop.
var keyJustPressed = inpututil.IsKeyJustPressed

const (
	clickSlop     = 4.0  // max pointer travel for a press to count as a click
	wheelZoomStep = 1.1  // scale factor per wheel notch
	edgePickSlop  = 6.0  // screen px within which an edge stroke is clickable
	portPickSlop  = 10.0 // screen px around a port center
)

// Driver polls Ebitengine input once per tick and drives engine gestures:
// pressing a port starts an endpoint drag, pressing a step starts a node
// drag, pressing empty canvas pans. Short presses select instead. The wheel
// zooms around the cursor and Delete removes the selection.
type Driver struct {
	engine *loom.Engine
	canvas *Canvas

	mouseDown bool
	pressX    float64
	pressY    float64
	pressRef  loom.ElementRef
}

// NewDriver wires a driver to an engine and its canvas.
func NewDriver(engine *loom.Engine, canvas *Canvas) *Driver {
	return &Driver{engine: engine, canvas: canvas}
}

// Update processes one tick of input. Call from ebiten.Game.Update before
// Engine.Update.
func (d *Driver) Update() {
	mx, my := ebiten.CursorPosition()
	cursor := loom.Vec2{X: float64(mx), Y: float64(my)}

	d.handleWheel(cursor)
	d.handleMouse(cursor)
	d.handleKeys()
}

func (d *Driver) handleWheel(cursor loom.Vec2) {
	_, dy := ebiten.Wheel()
	if dy == 0 {
		return
	}
	v := d.engine.State().Viewport
	factor := v.Scale * math.Pow(wheelZoomStep, dy)
	d.engine.ScaleWorkflowAt(factor, cursor)
}

func (d *Driver) handleMouse(cursor loom.Vec2) {
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	switch {
	case pressed && !d.mouseDown:
		d.mouseDown = true
		d.pressX, d.pressY = cursor.X, cursor.Y
		d.pressRef = d.hitTest(cursor)
		switch d.pressRef.Kind {
		case loom.ElementInput, loom.ElementOutput:
			d.engine.BeginEdgeDrag(d.pressRef.ID, cursor)
		case loom.ElementNode:
			d.engine.BeginNodeDrag(d.pressRef.ID, cursor)
		case loom.ElementEdge, loom.ElementNone:
			d.engine.BeginPan(cursor)
		}
	case pressed && d.mouseDown:
		d.engine.DragTo(cursor)
	case !pressed && d.mouseDown:
		d.mouseDown = false
		d.engine.EndDrag()
		dx := cursor.X - d.pressX
		dy := cursor.Y - d.pressY
		if math.Sqrt(dx*dx+dy*dy) <= clickSlop {
			d.click(d.pressRef)
		}
		d.pressRef = loom.NoElement
	}
}

func (d *Driver) click(ref loom.ElementRef) {
	switch ref.Kind {
	case loom.ElementNode:
		d.engine.SelectNode(ref.ID)
	case loom.ElementEdge:
		d.engine.SelectEdge(ref.ID)
	case loom.ElementNone:
		d.engine.DeselectEverything()
	}
}

// handleKeys dispatches the keyboard commands. They are edge-triggered: a
// held key fires its command once, on the tick the press landed.
func (d *Driver) handleKeys() {
	if keyJustPressed(ebiten.KeyDelete) || keyJustPressed(ebiten.KeyBackspace) {
		_ = d.engine.DeleteSelection()
	}
	if keyJustPressed(ebiten.KeyF) {
		_ = d.engine.FitToViewport()
	}
	if keyJustPressed(ebiten.Key0) {
		d.engine.ResetTransform()
	}
}

// hitTest resolves what sits under a screen position, ports first, then
// nodes, then edge strokes.
func (d *Driver) hitTest(cursor loom.Vec2) loom.ElementRef {
	v := d.engine.State().Viewport
	p := v.ToCanvasSpace(cursor.X, cursor.Y)
	slop := portPickSlop / v.Scale

	if ref, ok := d.portAt(p, slop); ok {
		return ref
	}
	for id, pos := range d.canvas.nodes {
		box := loom.Rect{X: pos.X, Y: pos.Y, Width: NodeWidth, Height: NodeHeight}
		if box.Contains(p.X, p.Y) {
			return loom.ElementRef{Kind: loom.ElementNode, ID: id}
		}
	}
	if id, ok := d.edgeAt(p, edgePickSlop/v.Scale); ok {
		return loom.ElementRef{Kind: loom.ElementEdge, ID: id}
	}
	return loom.NoElement
}

func (d *Driver) portAt(p loom.Vec2, slop float64) (loom.ElementRef, bool) {
	hit := func(ports []loom.Port) (loom.ElementRef, bool) {
		for _, port := range ports {
			if !port.Visible {
				continue
			}
			a, ok := d.canvas.portAnchor(port.ID)
			if !ok {
				continue
			}
			dx := a.X - p.X
			dy := a.Y - p.Y
			if math.Sqrt(dx*dx+dy*dy) <= slop {
				return loom.ElementRef{Kind: port.Kind, ID: port.ID}, true
			}
		}
		return loom.NoElement, false
	}
	for _, s := range d.canvas.model.Steps() {
		if ref, ok := hit(s.Inputs); ok {
			return ref, true
		}
		if ref, ok := hit(s.Outputs); ok {
			return ref, true
		}
	}
	if ref, ok := hit(d.canvas.model.Inputs()); ok {
		return ref, true
	}
	return hit(d.canvas.model.Outputs())
}

func (d *Driver) edgeAt(p loom.Vec2, slop float64) (string, bool) {
	for _, c := range d.canvas.model.Connections() {
		if !c.Visible {
			continue
		}
		curve, ok := d.canvas.paths[c.ID]
		if !ok {
			continue
		}
		for _, pt := range curve.Sample(edgeSamples) {
			dx := pt.X - p.X
			dy := pt.Y - p.Y
			if math.Sqrt(dx*dx+dy*dy) <= slop {
				return c.ID, true
			}
		}
	}
	return "", false
}
