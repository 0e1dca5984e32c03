package loom

// autoscrollTickRate is the cadence of boundary scrolling while a drag sits
// inside a boundary zone.
const autoscrollTickRate = 60.0

// Autoscroll is the drag-boundary state machine. While a drag's pointer sits
// within the boundary zone of any viewport edge, it ticks at 60 Hz,
// translating the viewport by a fixed step per hit axis and accumulating the
// scale-adjusted displacement the dragged element picked up from scrolling.
//
// The timer is a fixed-step accumulator advanced from Engine.Update(dt), so
// ticks are deterministic and cancellation is a plain state reset; stopping
// when no tick is pending is a no-op.
type Autoscroll struct {
	boundary float64 // configured zone thickness, before self-adjustment
	step     float64 // per-tick viewport translation, screen px

	activeX int // -1 left edge, +1 right edge, 0 inactive
	activeY int // -1 top edge, +1 bottom edge, 0 inactive
	running bool
	acc     float32

	// Accumulated canvas-space offsets the dragged element owes to boundary
	// scrolling. Retained across interior re-entry; cleared on drag end.
	OffsetX float64
	OffsetY float64
}

func newAutoscroll(cfg Config) *Autoscroll {
	return &Autoscroll{boundary: cfg.DragBoundary, step: cfg.BoundaryTranslation}
}

// Active reports whether the machine is currently ticking.
func (a *Autoscroll) Active() bool { return a.running }

// zone returns the effective boundary thickness for the given viewport. The
// configured thickness halves while the opposing zones would meet or overlap,
// keeping a non-degenerate interior region. There is deliberately no lower
// bound; extreme aspect ratios can shrink the zone toward zero.
func (a *Autoscroll) zone(vp Rect) float64 {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0
	}
	b := a.boundary
	for b > 0 && (2*b >= vp.Width || 2*b >= vp.Height) {
		b /= 2
	}
	return b
}

// observe classifies a screen-space cursor position against the viewport's
// boundary zones and transitions the machine. Entering any zone starts the
// tick cadence; re-entering the interior stops it, resets the per-axis flags,
// and asks the engine to drop the snap highlight, while keeping the
// accumulated offsets for the remainder of the gesture.
func (e *Engine) observeBoundary(cursor Vec2) {
	a := e.scroll
	vp := e.renderer.ViewportBounds()
	z := a.zone(vp)

	dirX, dirY := 0, 0
	if z > 0 {
		switch {
		case cursor.X >= vp.X+vp.Width-z:
			dirX = 1
		case cursor.X <= vp.X+z:
			dirX = -1
		}
		switch {
		case cursor.Y >= vp.Y+vp.Height-z:
			dirY = 1
		case cursor.Y <= vp.Y+z:
			dirY = -1
		}
	}

	if dirX == 0 && dirY == 0 {
		a.stopTicking()
		e.clearSnapHighlight()
		return
	}
	a.activeX = dirX
	a.activeY = dirY
	a.running = true
}

// stopTicking halts the cadence and clears the per-axis flags, keeping the
// accumulated offsets. Idempotent.
func (a *Autoscroll) stopTicking() {
	a.running = false
	a.activeX = 0
	a.activeY = 0
	a.acc = 0
}

// reset returns the machine to its defaults, offsets included. Called on
// drag end and when manipulations are disabled. Idempotent.
func (a *Autoscroll) reset() {
	a.stopTicking()
	a.OffsetX = 0
	a.OffsetY = 0
}

// update advances the accumulator and fires any due ticks.
// Called from Engine.Update().
func (a *Autoscroll) update(dt float32, e *Engine) {
	if !a.running {
		return
	}
	const interval = float32(1.0 / autoscrollTickRate)
	a.acc += dt
	for a.acc >= interval && a.running {
		a.acc -= interval
		a.tick(e)
	}
}

// tick performs one autoscroll step. The viewport translation is applied
// first so the dependent path and highlight recomputation never pairs a
// stale transform with fresh paths: scrolling toward the right edge moves
// content left (TranslateX decreases), and the dragged element advances by
// the same step adjusted for the current scale.
func (a *Autoscroll) tick(e *Engine) {
	v := e.state.Viewport
	v.Translate(-float64(a.activeX)*a.step, -float64(a.activeY)*a.step)

	adjX := float64(a.activeX) * a.step / v.Scale
	adjY := float64(a.activeY) * a.step / v.Scale
	a.OffsetX += adjX
	a.OffsetY += adjY

	e.applyTransform()
	e.applyDragDisplacement()
}

// boundaryEdgeScreen returns the screen-space coordinate of the inner edge
// of the active zone on the given axis, used for the boundary-relative delta
// once the pointer has crossed into a zone.
func (e *Engine) boundaryEdgeScreen(axisX bool) float64 {
	a := e.scroll
	vp := e.renderer.ViewportBounds()
	z := a.zone(vp)
	if axisX {
		if a.activeX > 0 {
			return vp.X + vp.Width - z
		}
		return vp.X + z
	}
	if a.activeY > 0 {
		return vp.Y + vp.Height - z
	}
	return vp.Y + z
}
