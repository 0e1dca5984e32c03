package ebitencanvas

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/loom"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
}

// game adapts an engine, its canvas, and a driver to ebiten.Game.
type game struct {
	engine *loom.Engine
	canvas *Canvas
	driver *Driver
}

func (g *game) Update() error {
	g.driver.Update()
	g.engine.Update(1.0 / float32(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.canvas.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.canvas.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the engine until the window closes. It blocks
// for the lifetime of the window.
func Run(engine *loom.Engine, canvas *Canvas, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	canvas.Resize(cfg.Width, cfg.Height)

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return ebiten.RunGame(&game{
		engine: engine,
		canvas: canvas,
		driver: NewDriver(engine, canvas),
	})
}
