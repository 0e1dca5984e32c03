package loom

import "math"

// DragKind distinguishes what a drag session is moving.
type DragKind uint8

const (
	DragNode         DragKind = iota + 1 // a step and its attached edges
	DragEdgeEndpoint                     // a dangling connection endpoint
	DragPan                              // the viewport itself
)

// DragSession is the transient state of one active gesture. It is created on
// drag start, destroyed on drag end, and never outlives the gesture.
type DragSession struct {
	Kind DragKind
	ID   string // step id for node drags, origin port id for edge drags

	start    Vec2 // screen-space pointer position at drag start
	last     Vec2 // latest screen-space pointer position
	dragging bool // dead zone passed

	// Node drag state.
	originPos Vec2         // step position at drag start
	attached  []Connection // edges whose endpoint follows the step

	// Edge endpoint drag state.
	originAnchor  Vec2 // fixed end of the ghost curve
	originNodePos Vec2 // ghost visibility is measured from here
	direction     Direction
	candidates    []string
	snapped       string // currently highlighted snap target, if any
	ghostVisible  bool

	// Pan state.
	panOrigin Vec2 // viewport translation at drag start
}

// ghostRef returns the renderer reference for the session's ghost edge.
func (d *DragSession) ghostRef() ElementRef {
	return ElementRef{Kind: ElementEdge, ID: "ghost:" + d.ID}
}

// BeginNodeDrag starts dragging a step. The edges touching the step are
// captured once so each tick and pointer move can reroute them. No-op while
// graph manipulations are disabled or another drag is active.
func (e *Engine) BeginNodeDrag(stepID string, screen Vec2) {
	if e.disabled || e.destroyed || e.drag != nil {
		return
	}
	pos, ok := e.positions[stepID]
	if !ok {
		return
	}
	var attached []Connection
	for _, c := range e.model.Connections() {
		if c.Visible && (c.SourceStep == stepID || c.DestinationStep == stepID) {
			attached = append(attached, c)
		}
	}
	e.drag = &DragSession{
		Kind:      DragNode,
		ID:        stepID,
		start:     screen,
		last:      screen,
		originPos: pos,
		attached:  attached,
	}
}

// BeginEdgeDrag starts dragging a dangling connection endpoint from the
// given origin port. Candidate snap ports are every visible port of the
// opposite polarity not owned by the origin's step. The ghost curve leans in
// the direction of travel: forward when dragging from an output, backward
// when dragging from an input.
func (e *Engine) BeginEdgeDrag(originPort string, screen Vec2) {
	if e.disabled || e.destroyed || e.drag != nil {
		return
	}
	anchor, ok := e.anchors[originPort]
	if !ok {
		return
	}
	originStep := e.portStep[originPort]
	fromSource := e.portSource[originPort]

	dir := DirectionRight
	if !fromSource {
		dir = DirectionLeft
	}
	var candidates []string
	for _, id := range e.portOrder {
		if e.portSource[id] == fromSource {
			continue
		}
		if originStep != "" && e.portStep[id] == originStep {
			continue
		}
		candidates = append(candidates, id)
	}

	nodePos := anchor
	if originStep != "" {
		if p, ok := e.positions[originStep]; ok {
			nodePos = p
		}
	}

	e.drag = &DragSession{
		Kind:          DragEdgeEndpoint,
		ID:            originPort,
		start:         screen,
		last:          screen,
		originAnchor:  anchor,
		originNodePos: nodePos,
		direction:     dir,
		candidates:    candidates,
	}
	e.renderer.Mount(e.drag.ghostRef())
}

// BeginPan starts a viewport pan gesture.
func (e *Engine) BeginPan(screen Vec2) {
	if e.disabled || e.destroyed || e.drag != nil {
		return
	}
	v := e.state.Viewport
	e.drag = &DragSession{
		Kind:      DragPan,
		start:     screen,
		last:      screen,
		panOrigin: Vec2{X: v.TranslateX, Y: v.TranslateY},
	}
}

// DragTo reports the pointer at a new screen position for the active drag.
// Movement inside the dead zone is ignored; after that, every call observes
// the boundary zones (node and edge drags only) and recomputes the dragged
// element's displacement.
func (e *Engine) DragTo(screen Vec2) {
	d := e.drag
	if d == nil {
		return
	}
	d.last = screen
	if !d.dragging {
		dx := screen.X - d.start.X
		dy := screen.Y - d.start.Y
		if math.Sqrt(dx*dx+dy*dy) <= e.cfg.DragDeadZone {
			return
		}
		d.dragging = true
	}
	if d.Kind != DragPan {
		e.observeBoundary(screen)
	}
	e.applyDragDisplacement()
}

// EndDrag finishes the gesture. A snapped edge endpoint requests a
// connection; a visible ghost requests a new input or output at its resting
// point. All boundary state, offsets included, resets to defaults.
func (e *Engine) EndDrag() {
	d := e.drag
	if d == nil {
		return
	}
	if d.Kind == DragEdgeEndpoint && d.dragging {
		e.finishEdgeDrag(d)
	}
	e.cancelDrag()
}

// ConnectionRequest is the payload of EventConnectionCreate.
type ConnectionRequest struct {
	Source      string
	Destination string
}

// PortRequest is the payload of EventCreateInput / EventCreateOutput: the
// origin port the new element should connect to and the canvas position the
// ghost was released at.
type PortRequest struct {
	Origin   string
	Position Vec2
}

func (e *Engine) finishEdgeDrag(d *DragSession) {
	if d.snapped != "" {
		req := ConnectionRequest{Source: d.ID, Destination: d.snapped}
		if !e.portSource[d.ID] {
			req = ConnectionRequest{Source: d.snapped, Destination: d.ID}
		}
		_ = e.hub.Emit(EventConnectionCreate, req)
		return
	}
	if d.ghostVisible {
		drop := e.state.Viewport.ToCanvasSpace(d.last.X, d.last.Y)
		// Releasing a visible ghost from a producing port asks for a new
		// workflow output to consume it, and vice versa.
		ev := EventCreateOutput
		if !e.portSource[d.ID] {
			ev = EventCreateInput
		}
		_ = e.hub.Emit(ev, PortRequest{Origin: d.ID, Position: drop})
	}
}

// cancelDrag tears the session down without emitting creation events.
func (e *Engine) cancelDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.clearSnapHighlight()
	if d.Kind == DragEdgeEndpoint {
		e.renderer.Remove(d.ghostRef())
	}
	e.scroll.reset()
	e.drag = nil
}

// dragDisplacement composes the element's canvas-space displacement: the
// scale-adapted pointer delta plus the accumulated boundary offset. On an
// axis whose boundary zone is active, the pointer delta is replaced by the
// scale-adapted distance from the drag's start point to the zone's inner
// edge. The edge is fixed on screen, so that term is constant for the rest
// of the gesture: each tick advances the element only through the offsets,
// and crossing into a zone mid-drag does not jump.
func (e *Engine) dragDisplacement() Vec2 {
	d := e.drag
	v := e.state.Viewport
	a := e.scroll

	adapted := v.AdaptToScale(Vec2{X: d.last.X - d.start.X, Y: d.last.Y - d.start.Y})

	var out Vec2
	if a.activeX != 0 {
		out.X = (e.boundaryEdgeScreen(true)-d.start.X)/v.Scale + a.OffsetX
	} else {
		out.X = adapted.X + a.OffsetX
	}
	if a.activeY != 0 {
		out.Y = (e.boundaryEdgeScreen(false)-d.start.Y)/v.Scale + a.OffsetY
	} else {
		out.Y = adapted.Y + a.OffsetY
	}
	return out
}

// applyDragDisplacement recomputes the dragged element from the current
// pointer, transform, and boundary offsets, then refreshes whatever depends
// on it: attached edge paths for node drags; the ghost curve, candidate
// ranking, snap highlight, and ghost visibility for edge drags.
func (e *Engine) applyDragDisplacement() {
	d := e.drag
	if d == nil || !d.dragging {
		return
	}
	switch d.Kind {
	case DragNode:
		disp := e.dragDisplacement()
		e.setStepPosition(d.ID, Vec2{X: d.originPos.X + disp.X, Y: d.originPos.Y + disp.Y})
		for _, c := range d.attached {
			e.rerouteConnection(c)
		}
	case DragEdgeEndpoint:
		e.updateEdgeDrag(d)
	case DragPan:
		v := e.state.Viewport
		v.TranslateX = d.panOrigin.X + (d.last.X - d.start.X)
		v.TranslateY = d.panOrigin.Y + (d.last.Y - d.start.Y)
		v.Invalidate()
		e.applyTransform()
	}
}

// updateEdgeDrag redraws the ghost curve to the cursor, re-ranks the
// candidate ports, moves the snap highlight, and updates ghost visibility.
func (e *Engine) updateEdgeDrag(d *DragSession) {
	v := e.state.Viewport
	cursor := v.ToCanvasSpace(d.last.X, d.last.Y)

	curve := RoutePath(d.originAnchor.X, d.originAnchor.Y, cursor.X, cursor.Y, d.direction)
	e.renderer.SetEdgePath(d.ghostRef().ID, curve)

	ranked := RankCandidatePorts(d.candidates, cursor, e.anchorAt)
	target, snapped := ResolveSnapTarget(ranked, e.cfg.SnapThreshold)
	if target != d.snapped {
		e.clearSnapHighlight()
		if snapped {
			d.snapped = target
			e.renderer.Tag(ElementRef{Kind: e.portKind[target], ID: target}, ClassSnap)
		}
	}

	dx := cursor.X - d.originNodePos.X
	dy := cursor.Y - d.originNodePos.Y
	show := DecideGhostVisibility(math.Sqrt(dx*dx+dy*dy), snapped, e.cfg.GhostThreshold)
	if show != d.ghostVisible {
		d.ghostVisible = show
		if show {
			e.renderer.Tag(d.ghostRef(), ClassGhost)
		} else {
			e.renderer.Untag(d.ghostRef(), ClassGhost)
		}
	}
}

// clearSnapHighlight removes the current snap highlight, if any. Idempotent.
func (e *Engine) clearSnapHighlight() {
	d := e.drag
	if d == nil || d.snapped == "" {
		return
	}
	e.renderer.Untag(ElementRef{Kind: e.portKind[d.snapped], ID: d.snapped}, ClassSnap)
	d.snapped = ""
}
