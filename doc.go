// Package loom is an interaction and geometry engine for node-and-edge
// workflow canvases.
//
// Loom owns the continuous state of an interactive graph editor: the
// viewport transform, drag sessions, boundary autoscroll, connection
// routing, selection and highlighting. The workflow itself and the drawing
// surface remain external collaborators behind the [WorkflowModel] and
// [Renderer] interfaces.
//
// # Quick start
//
// Create an [Engine] over your model and renderer, forward pointer input to
// it, and advance it from your frame loop:
//
//	engine := loom.New(model, renderer)
//	engine.BeginNodeDrag("step-1", cursor)
//	engine.DragTo(cursor)
//	engine.EndDrag()
//
//	// each frame:
//	engine.Update(1.0 / 60.0)
//
// The ebitencanvas subpackage provides a ready-made [Renderer] and input
// driver for Ebitengine; see examples/basic.
//
// # Events and plugins
//
// Every mutation is bracketed by EventBeforeChange and EventAfterChange on
// the engine's hub; selection changes emit EventSelectionChange, and edge
// gestures that finish over a snap target or as a visible ghost emit the
// creation commands (EventConnectionCreate, EventCreateInput,
// EventCreateOutput). Handlers run synchronously in subscription order.
// Plugins declare capabilities by implementing [ModelBinder],
// [BeforeChangeNotifier], [AfterChangeNotifier], or [RenderObserver] and are
// attached once with [Engine.Attach].
package loom
