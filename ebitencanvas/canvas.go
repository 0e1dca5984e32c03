package ebitencanvas

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/loom"
)

// Fixed element geometry, in canvas units.
const (
	NodeWidth  = 120.0
	NodeHeight = 48.0
	PortRadius = 5.0

	edgeSamples = 24
)

var (
	colorBackground  = color.RGBA{R: 30, G: 30, B: 40, A: 255}
	colorNode        = color.RGBA{R: 58, G: 62, B: 80, A: 255}
	colorNodeBorder  = color.RGBA{R: 110, G: 116, B: 140, A: 255}
	colorEdge        = color.RGBA{R: 140, G: 146, B: 170, A: 255}
	colorPort        = color.RGBA{R: 170, G: 176, B: 200, A: 255}
	colorSelected    = color.RGBA{R: 255, G: 196, B: 64, A: 255}
	colorHighlighted = color.RGBA{R: 96, G: 200, B: 255, A: 255}
	colorSnap        = color.RGBA{R: 120, G: 255, B: 140, A: 255}
	colorGhost       = color.RGBA{R: 140, G: 146, B: 170, A: 150}
)

// Canvas is a loom.Renderer backed by Ebitengine vector drawing. It keeps the
// retained drawing state the engine pushes at it (positions, curves, tags,
// the shared transform) and replays it in Draw each frame.
//
// Port anchors are read from the workflow model and shifted by any node
// displacement the engine has applied since the model last published.
type Canvas struct {
	model loom.WorkflowModel

	width, height float64

	mounted map[loom.ElementRef]bool
	tags    map[loom.ElementRef]map[string]bool
	nodes   map[string]loom.Vec2
	paths   map[string]loom.Curve
	raised  map[string]bool

	scale, tx, ty float64
	labelScale    float64
}

// NewCanvas creates an empty canvas over the given model.
func NewCanvas(model loom.WorkflowModel) *Canvas {
	return &Canvas{
		model:      model,
		mounted:    make(map[loom.ElementRef]bool),
		tags:       make(map[loom.ElementRef]map[string]bool),
		nodes:      make(map[string]loom.Vec2),
		paths:      make(map[string]loom.Curve),
		raised:     make(map[string]bool),
		scale:      1,
		labelScale: 1,
	}
}

// Resize records the window size reported by ebiten.Game.Layout.
func (c *Canvas) Resize(width, height int) {
	c.width = float64(width)
	c.height = float64(height)
}

// --- loom.Renderer ---

func (c *Canvas) Mount(ref loom.ElementRef) { c.mounted[ref] = true }

func (c *Canvas) Remove(ref loom.ElementRef) {
	delete(c.mounted, ref)
	delete(c.tags, ref)
	if ref.Kind == loom.ElementNode {
		delete(c.nodes, ref.ID)
	}
	if ref.Kind == loom.ElementEdge {
		delete(c.paths, ref.ID)
		delete(c.raised, ref.ID)
	}
}

func (c *Canvas) MoveNode(id string, pos loom.Vec2)   { c.nodes[id] = pos }
func (c *Canvas) SetEdgePath(id string, p loom.Curve) { c.paths[id] = p }
func (c *Canvas) RaiseEdge(id string)                 { c.raised[id] = true }

func (c *Canvas) Tag(ref loom.ElementRef, class string) {
	if c.tags[ref] == nil {
		c.tags[ref] = make(map[string]bool)
	}
	c.tags[ref][class] = true
}

func (c *Canvas) Untag(ref loom.ElementRef, class string) {
	if m := c.tags[ref]; m != nil {
		delete(m, class)
	}
	if ref.Kind == loom.ElementEdge && class == loom.ClassRaised {
		delete(c.raised, ref.ID)
	}
}

func (c *Canvas) Bounds(ref loom.ElementRef) (loom.Rect, bool) {
	switch ref.Kind {
	case loom.ElementNode:
		pos, ok := c.nodes[ref.ID]
		if !ok {
			return loom.Rect{}, false
		}
		return loom.Rect{X: pos.X, Y: pos.Y, Width: NodeWidth, Height: NodeHeight}, true
	case loom.ElementInput, loom.ElementOutput:
		a, ok := c.portAnchor(ref.ID)
		if !ok {
			return loom.Rect{}, false
		}
		return loom.Rect{
			X: a.X - PortRadius, Y: a.Y - PortRadius,
			Width: 2 * PortRadius, Height: 2 * PortRadius,
		}, true
	}
	return loom.Rect{}, false
}

func (c *Canvas) ViewportBounds() loom.Rect {
	return loom.Rect{Width: c.width, Height: c.height}
}

func (c *Canvas) ApplyTransform(scale, tx, ty float64) {
	c.scale, c.tx, c.ty = scale, tx, ty
}

func (c *Canvas) SetLabelScale(f float64) { c.labelScale = f }

// --- Drawing ---

func (c *Canvas) toScreen(p loom.Vec2) (float32, float32) {
	return float32(c.scale*p.X + c.tx), float32(c.scale*p.Y + c.ty)
}

func (c *Canvas) hasClass(ref loom.ElementRef, class string) bool {
	m := c.tags[ref]
	return m != nil && m[class]
}

// Draw paints the whole canvas: plain edges, then raised edges, then nodes,
// then ports, so interactive layers sit on top.
func (c *Canvas) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for id := range c.paths {
		if !c.raised[id] {
			c.drawEdge(screen, id)
		}
	}
	for id := range c.raised {
		c.drawEdge(screen, id)
	}

	for _, s := range c.model.Steps() {
		if s.Visible {
			c.drawNode(screen, s.ID)
		}
	}

	for _, s := range c.model.Steps() {
		for _, p := range s.Inputs {
			c.drawPort(screen, p)
		}
		for _, p := range s.Outputs {
			c.drawPort(screen, p)
		}
	}
	for _, p := range c.model.Inputs() {
		c.drawPort(screen, p)
	}
	for _, p := range c.model.Outputs() {
		c.drawPort(screen, p)
	}
}

func (c *Canvas) drawEdge(screen *ebiten.Image, id string) {
	ref := loom.ElementRef{Kind: loom.ElementEdge, ID: id}
	if !c.mounted[ref] {
		return
	}
	clr := colorEdge
	width := float32(2)
	switch {
	case c.hasClass(ref, loom.ClassGhost):
		clr = colorGhost
	case c.hasClass(ref, loom.ClassSelected):
		clr = colorSelected
		width = 3
	case c.hasClass(ref, loom.ClassHighlighted):
		clr = colorHighlighted
		width = 3
	}

	pts := c.paths[id].Sample(edgeSamples)
	for i := 1; i < len(pts); i++ {
		x0, y0 := c.toScreen(pts[i-1])
		x1, y1 := c.toScreen(pts[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
	}
}

func (c *Canvas) drawNode(screen *ebiten.Image, id string) {
	ref := loom.ElementRef{Kind: loom.ElementNode, ID: id}
	pos, ok := c.nodes[id]
	if !ok || !c.mounted[ref] {
		return
	}
	x, y := c.toScreen(pos)
	w := float32(NodeWidth * c.scale)
	h := float32(NodeHeight * c.scale)

	vector.DrawFilledRect(screen, x, y, w, h, colorNode, true)
	border := colorNodeBorder
	switch {
	case c.hasClass(ref, loom.ClassSelected):
		border = colorSelected
	case c.hasClass(ref, loom.ClassHighlighted):
		border = colorHighlighted
	}
	vector.StrokeRect(screen, x, y, w, h, 2, border, true)
}

func (c *Canvas) drawPort(screen *ebiten.Image, p loom.Port) {
	if !p.Visible {
		return
	}
	a, ok := c.portAnchor(p.ID)
	if !ok {
		return
	}
	ref := loom.ElementRef{Kind: p.Kind, ID: p.ID}
	clr := colorPort
	switch {
	case c.hasClass(ref, loom.ClassSnap):
		clr = colorSnap
	case c.hasClass(ref, loom.ClassSelected):
		clr = colorSelected
	case c.hasClass(ref, loom.ClassHighlighted):
		clr = colorHighlighted
	}
	x, y := c.toScreen(a)
	vector.DrawFilledCircle(screen, x, y, float32(PortRadius*c.scale), clr, true)
}

// portAnchor resolves a port's current anchor: the model anchor shifted by
// whatever displacement its step has picked up from an in-progress drag.
func (c *Canvas) portAnchor(id string) (loom.Vec2, bool) {
	find := func(p loom.Port, stepPos loom.Vec2, hasStep bool) loom.Vec2 {
		a := p.Anchor
		if hasStep {
			if cur, ok := c.nodes[p.Step]; ok {
				a.X += cur.X - stepPos.X
				a.Y += cur.Y - stepPos.Y
			}
		}
		return a
	}
	for _, s := range c.model.Steps() {
		for _, p := range s.Inputs {
			if p.ID == id {
				return find(p, s.Position, true), true
			}
		}
		for _, p := range s.Outputs {
			if p.ID == id {
				return find(p, s.Position, true), true
			}
		}
	}
	for _, p := range c.model.Inputs() {
		if p.ID == id {
			return p.Anchor, true
		}
	}
	for _, p := range c.model.Outputs() {
		if p.ID == id {
			return p.Anchor, true
		}
	}
	return loom.Vec2{}, false
}
