package loom

import "github.com/tanema/gween/ease"

// EngineState is the shared mutable state of the engine: the viewport
// transform and the selection. It is owned by the engine and passed
// explicitly to whatever needs it; collaborators read it but mutate only
// through engine operations.
type EngineState struct {
	Viewport  *Viewport
	Selection *Selection
}

// Engine is the interaction and geometry engine for one workflow canvas.
// It owns the viewport, the drag and autoscroll state machines, the
// selection, the event hub, and the plugin list; the workflow model and the
// rendering surface are external collaborators.
type Engine struct {
	cfg      Config
	state    *EngineState
	hub      *Hub
	model    WorkflowModel
	renderer Renderer
	plugins  []pluginEntry

	drag   *DragSession
	scroll *Autoscroll

	// Index over the model, rebuilt on every model notification. positions
	// overlays step positions with in-progress drag displacement.
	positions  map[string]Vec2
	anchors    map[string]Vec2
	portStep   map[string]string
	portKind   map[string]ElementKind
	portSource map[string]bool
	portOrder  []string

	disabled  bool
	destroyed bool
	debug     bool
	stats     debugStats
}

// New creates an engine with the default configuration, mounts every visible
// element, and renders once.
func New(model WorkflowModel, renderer Renderer) *Engine {
	return NewWithConfig(DefaultConfig(), model, renderer)
}

// NewWithConfig creates an engine with explicit configuration.
func NewWithConfig(cfg Config, model WorkflowModel, renderer Renderer) *Engine {
	v := NewViewport()
	v.SetScaleLimits(cfg.MinScale, cfg.MaxScale)
	e := &Engine{
		cfg:      cfg,
		state:    &EngineState{Viewport: v, Selection: &Selection{}},
		hub:      NewHub(),
		model:    model,
		renderer: renderer,
		scroll:   newAutoscroll(cfg),
	}
	model.Subscribe(e.handleModelEvent)
	e.refreshIndex()
	e.mountAll()
	e.render()
	return e
}

// State returns the engine's shared state for reading.
func (e *Engine) State() *EngineState { return e.state }

// --- Event hub surface ---

// On subscribes a handler to an engine event.
func (e *Engine) On(event Event, fn Handler) Subscription {
	return e.hub.On(event, fn)
}

// Off removes a previously registered handler.
func (e *Engine) Off(sub Subscription) {
	sub.Off()
}

// Command emits an application-level event through the hub, typically one of
// the creation commands. The first handler error aborts the chain.
func (e *Engine) Command(event Event, payload any) error {
	return e.hub.Emit(event, payload)
}

// --- Viewport surface ---

// ScaleWorkflow sets the scale around the canvas origin. Out-of-range
// factors are ignored.
func (e *Engine) ScaleWorkflow(factor float64) {
	e.state.Viewport.ScaleAt(factor, Vec2{})
	e.applyTransform()
}

// ScaleWorkflowCenter sets the scale around the viewport's geometric center.
func (e *Engine) ScaleWorkflowCenter(factor float64) {
	e.state.Viewport.ScaleAtCenter(factor, e.renderer.ViewportBounds())
	e.applyTransform()
}

// ScaleWorkflowAt sets the scale around an arbitrary screen point, typically
// the cursor during wheel zoom.
func (e *Engine) ScaleWorkflowAt(factor float64, pivot Vec2) {
	e.state.Viewport.ScaleAt(factor, pivot)
	e.applyTransform()
}

// FitToViewport scales and centers the whole workflow inside the current
// viewport bounds, never upscaling past native size. Fails with an error
// wrapping ErrViewport while the surface reports zero-area bounds.
func (e *Engine) FitToViewport() error {
	content, ok := e.contentBounds()
	if !ok {
		content = Rect{}
	}
	if err := e.state.Viewport.FitToBounds(content, e.renderer.ViewportBounds(), e.cfg.FitPadding); err != nil {
		return err
	}
	e.applyTransform()
	return nil
}

// ResetTransform restores the identity transform.
func (e *Engine) ResetTransform() {
	e.state.Viewport.Reset()
	e.applyTransform()
}

// PanWorkflowTo animates the viewport translation to (tx, ty) over duration
// seconds. The animation advances in Update.
func (e *Engine) PanWorkflowTo(tx, ty float64, duration float32) {
	e.state.Viewport.PanTo(tx, ty, duration, ease.OutQuad)
}

// applyTransform pushes the current transform and label compensation to the
// rendering surface.
func (e *Engine) applyTransform() {
	v := e.state.Viewport
	e.renderer.ApplyTransform(v.Scale, v.TranslateX, v.TranslateY)
	e.renderer.SetLabelScale(v.LabelScale())
}

// contentBounds unions the bounding rectangles of every visible step,
// falling back to the step position when the renderer has no bounds for it.
func (e *Engine) contentBounds() (Rect, bool) {
	var out Rect
	found := false
	extend := func(r Rect) {
		if !found {
			out = r
			found = true
			return
		}
		minX := min(out.X, r.X)
		minY := min(out.Y, r.Y)
		maxX := max(out.X+out.Width, r.X+r.Width)
		maxY := max(out.Y+out.Height, r.Y+r.Height)
		out = Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	for _, s := range e.model.Steps() {
		if !s.Visible {
			continue
		}
		if r, ok := e.renderer.Bounds(ElementRef{Kind: ElementNode, ID: s.ID}); ok {
			extend(r)
			continue
		}
		pos := s.Position
		if p, ok := e.positions[s.ID]; ok {
			pos = p
		}
		extend(Rect{X: pos.X, Y: pos.Y})
	}
	for _, p := range e.model.Inputs() {
		if p.Visible {
			extend(Rect{X: p.Anchor.X, Y: p.Anchor.Y})
		}
	}
	for _, p := range e.model.Outputs() {
		if p.Visible {
			extend(Rect{X: p.Anchor.X, Y: p.Anchor.Y})
		}
	}
	return out, found
}

// --- Manipulation gating ---

// DisableGraphManipulations stops accepting drags and synchronously cancels
// any active drag session and autoscroll timer before the next frame.
func (e *Engine) DisableGraphManipulations() {
	e.disabled = true
	e.cancelDrag()
}

// EnableGraphManipulations re-enables drag gestures.
func (e *Engine) EnableGraphManipulations() {
	if !e.destroyed {
		e.disabled = false
	}
}

// --- Lifecycle ---

// Update advances time-driven behavior by dt seconds: the viewport pan
// animation first, then any due autoscroll ticks, so consumers never observe
// a stale transform paired with fresh paths.
func (e *Engine) Update(dt float32) {
	if e.destroyed {
		return
	}
	if e.state.Viewport.update(dt) {
		e.applyTransform()
	}
	e.scroll.update(dt, e)
	if e.debug {
		e.stats.updates++
	}
}

// Destroy detaches everything: active gestures are cancelled, subscriptions
// cleared, plugins dropped. The engine is unusable afterwards.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.cancelDrag()
	e.hub.clear()
	e.plugins = nil
	e.disabled = true
	e.destroyed = true
}

// SetDebugMode enables per-update stat logging to stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// --- Model index and rendering ---

// refreshIndex rebuilds the position and anchor index from the model.
// In-progress drag overlays are discarded; the model is the truth.
func (e *Engine) refreshIndex() {
	e.positions = make(map[string]Vec2)
	e.anchors = make(map[string]Vec2)
	e.portStep = make(map[string]string)
	e.portKind = make(map[string]ElementKind)
	e.portSource = make(map[string]bool)
	e.portOrder = e.portOrder[:0]

	index := func(p Port) {
		if !p.Visible {
			return
		}
		e.anchors[p.ID] = p.Anchor
		e.portStep[p.ID] = p.Step
		e.portKind[p.ID] = p.Kind
		// A port produces data when it is a step output or a workflow-level
		// input; it consumes when it is a step input or a workflow output.
		e.portSource[p.ID] = (p.Kind == ElementOutput) != (p.Step == "")
		e.portOrder = append(e.portOrder, p.ID)
	}
	for _, s := range e.model.Steps() {
		if !s.Visible {
			continue
		}
		e.positions[s.ID] = s.Position
		for _, p := range s.Inputs {
			index(p)
		}
		for _, p := range s.Outputs {
			index(p)
		}
	}
	for _, p := range e.model.Inputs() {
		index(p)
	}
	for _, p := range e.model.Outputs() {
		index(p)
	}
}

// anchorAt is the anchor lookup handed to the router.
func (e *Engine) anchorAt(portID string) (Vec2, bool) {
	a, ok := e.anchors[portID]
	return a, ok
}

// setStepPosition moves a step and shifts its port anchors by the same
// delta, then informs the renderer.
func (e *Engine) setStepPosition(stepID string, pos Vec2) {
	prev, ok := e.positions[stepID]
	if !ok {
		return
	}
	dx := pos.X - prev.X
	dy := pos.Y - prev.Y
	e.positions[stepID] = pos
	for id, step := range e.portStep {
		if step == stepID {
			a := e.anchors[id]
			e.anchors[id] = Vec2{X: a.X + dx, Y: a.Y + dy}
		}
	}
	e.renderer.MoveNode(stepID, pos)
}

// rerouteConnection recomputes one connection's curve from its endpoint
// anchors. Connections between steps always lean forward.
func (e *Engine) rerouteConnection(c Connection) {
	src, okSrc := e.anchors[c.SourcePort]
	dst, okDst := e.anchors[c.DestinationPort]
	if !okSrc || !okDst {
		return
	}
	curve := RoutePath(src.X, src.Y, dst.X, dst.Y, DirectionRight)
	e.renderer.SetEdgePath(c.ID, curve)
	if e.debug {
		e.stats.reroutes++
	}
}

// mountAll materializes every visible element on the renderer.
func (e *Engine) mountAll() {
	for _, s := range e.model.Steps() {
		if s.Visible {
			e.renderer.Mount(ElementRef{Kind: ElementNode, ID: s.ID})
		}
	}
	for _, p := range e.model.Inputs() {
		if p.Visible {
			e.renderer.Mount(ElementRef{Kind: ElementInput, ID: p.ID})
		}
	}
	for _, p := range e.model.Outputs() {
		if p.Visible {
			e.renderer.Mount(ElementRef{Kind: ElementOutput, ID: p.ID})
		}
	}
	for _, c := range e.model.Connections() {
		if c.Visible {
			e.renderer.Mount(ElementRef{Kind: ElementEdge, ID: c.ID})
		}
	}
}

// render pushes the transform, reroutes every visible connection, positions
// every visible step, and notifies render observers, in that order.
func (e *Engine) render() {
	e.applyTransform()
	for _, s := range e.model.Steps() {
		if !s.Visible {
			continue
		}
		if pos, ok := e.positions[s.ID]; ok {
			e.renderer.MoveNode(s.ID, pos)
		}
	}
	for _, c := range e.model.Connections() {
		if c.Visible {
			e.rerouteConnection(c)
		}
	}
	e.notifyAfterRender()
	if e.debug {
		e.stats.renders++
		e.debugLog()
	}
}

// handleModelEvent reacts to workflow model notifications by refreshing the
// index and rerouting or re-rendering as needed.
func (e *Engine) handleModelEvent(ev ModelEvent) {
	if e.destroyed {
		return
	}
	switch ev.Kind {
	case ModelStepChange:
		e.refreshIndex()
		for _, c := range e.model.Connections() {
			if c.Visible && (c.SourceStep == ev.ID || c.DestinationStep == ev.ID) {
				e.rerouteConnection(c)
			}
		}
		if pos, ok := e.positions[ev.ID]; ok {
			e.renderer.MoveNode(ev.ID, pos)
		}
	case ModelInputCreate:
		e.refreshIndex()
		e.renderer.Mount(ElementRef{Kind: ElementInput, ID: ev.ID})
		e.render()
	case ModelOutputCreate:
		e.refreshIndex()
		e.renderer.Mount(ElementRef{Kind: ElementOutput, ID: ev.ID})
		e.render()
	case ModelConnectionCreate:
		e.refreshIndex()
		e.renderer.Mount(ElementRef{Kind: ElementEdge, ID: ev.ID})
		e.render()
	case ModelConnectionsUpdated:
		e.refreshIndex()
		e.render()
	}
}
