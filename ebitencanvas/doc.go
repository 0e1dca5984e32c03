// Package ebitencanvas renders a loom engine onto an Ebitengine window.
//
// [Canvas] is a ready-made [loom.Renderer] that draws steps as boxes, ports
// as dots, and connections as stroked curves. [Driver] polls Ebitengine input
// each tick and translates it into engine gestures: dragging steps, pulling
// connection endpoints from ports, panning, wheel zoom, and click selection.
//
// Usage:
//
//	canvas := ebitencanvas.NewCanvas(model)
//	engine := loom.New(model, canvas)
//	err := ebitencanvas.Run(engine, canvas, ebitencanvas.RunConfig{
//		Title: "workflow", Width: 1280, Height: 720,
//	})
package ebitencanvas
