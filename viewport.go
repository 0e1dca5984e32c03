package loom

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Default interactive scale limits. Scale requests outside this range are
// ignored; see Viewport.ScaleAt.
const (
	DefaultMinScale = 0.2
	DefaultMaxScale = 2.0
)

// ErrViewport reports a viewport operation that cannot be performed with the
// given bounds, such as fitting content into a zero-area viewport. The call
// fails; the viewport itself is left untouched and the caller may retry once
// bounds are non-zero.
var ErrViewport = fmt.Errorf("loom: invalid viewport bounds")

// panAnim holds active pan-to tweens for the X and Y translation.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport owns the canvas-to-screen transform: a uniform scale followed by a
// translation. It is the single shared transform every other component reads.
//
// The fields are exported for reading; mutate only through the methods so the
// cached matrices stay consistent. Collaborators outside the engine must
// treat the viewport as read-only.
type Viewport struct {
	Scale      float64
	TranslateX float64
	TranslateY float64

	minScale float64
	maxScale float64

	matrix    [6]float64
	invMatrix [6]float64
	dirty     bool

	panTween *panAnim
}

// NewViewport creates an identity viewport with the default scale limits.
func NewViewport() *Viewport {
	return &Viewport{
		Scale:    1.0,
		minScale: DefaultMinScale,
		maxScale: DefaultMaxScale,
		dirty:    true,
	}
}

// SetScaleLimits overrides the accepted range for ScaleAt requests.
// Non-positive or inverted limits are ignored.
func (v *Viewport) SetScaleLimits(min, max float64) {
	if min <= 0 || max < min {
		return
	}
	v.minScale = min
	v.maxScale = max
}

// ScaleAt sets the scale to factor, keeping the screen point pivot visually
// fixed: the canvas point under pivot before the call is still under pivot
// after it. Requests outside the configured scale limits are silently
// ignored; continuous wheel input makes them routine, not exceptional.
func (v *Viewport) ScaleAt(factor float64, pivot Vec2) {
	if factor < v.minScale || factor > v.maxScale {
		return
	}
	anchor := v.ToCanvasSpace(pivot.X, pivot.Y)
	v.Scale = factor
	v.TranslateX = pivot.X - factor*anchor.X
	v.TranslateY = pivot.Y - factor*anchor.Y
	v.dirty = true
}

// ScaleAtCenter sets the scale to factor around the geometric center of the
// given screen-space viewport bounds.
func (v *Viewport) ScaleAtCenter(factor float64, viewport Rect) {
	v.ScaleAt(factor, viewport.Center())
}

// FitToBounds computes the scale that fits content (grown by padding on every
// side) inside viewport, capped so the content is never upscaled past its
// native size, then centers the content. The interactive minimum does not
// apply here: oversized content may fit below it, and later ScaleAt requests
// remain clamped as usual.
//
// Returns an error wrapping ErrViewport when viewport has zero width or
// height; the transform is left unchanged in that case.
func (v *Viewport) FitToBounds(content, viewport Rect, padding float64) error {
	if viewport.Width <= 0 || viewport.Height <= 0 {
		return fmt.Errorf("fit to %gx%g viewport: %w", viewport.Width, viewport.Height, ErrViewport)
	}

	cw := content.Width + 2*padding
	ch := content.Height + 2*padding
	scale := 1.0
	if cw > 0 && viewport.Width/cw < scale {
		scale = viewport.Width / cw
	}
	if ch > 0 && viewport.Height/ch < scale {
		scale = viewport.Height / ch
	}

	center := content.Center()
	vc := viewport.Center()
	v.Scale = scale
	v.TranslateX = vc.X - scale*center.X
	v.TranslateY = vc.Y - scale*center.Y
	v.panTween = nil
	v.dirty = true
	return nil
}

// Reset restores the identity transform: scale 1, no translation.
func (v *Viewport) Reset() {
	v.Scale = 1.0
	v.TranslateX = 0
	v.TranslateY = 0
	v.panTween = nil
	v.dirty = true
}

// Translate shifts the transform by (dx, dy) screen pixels.
func (v *Viewport) Translate(dx, dy float64) {
	v.TranslateX += dx
	v.TranslateY += dy
	v.dirty = true
}

// PanTo animates the translation to (tx, ty) over duration seconds.
// The tween is advanced by update(dt) and replaced by any direct transform
// mutation that calls FitToBounds or Reset.
func (v *Viewport) PanTo(tx, ty float64, duration float32, easeFn ease.TweenFunc) {
	v.panTween = &panAnim{
		tweenX: gween.New(float32(v.TranslateX), float32(tx), duration, easeFn),
		tweenY: gween.New(float32(v.TranslateY), float32(ty), duration, easeFn),
	}
}

// update advances the pan animation and reports whether the transform
// changed. Called from Engine.Update().
func (v *Viewport) update(dt float32) bool {
	if v.panTween == nil {
		return false
	}
	if !v.panTween.doneX {
		val, done := v.panTween.tweenX.Update(dt)
		v.TranslateX = float64(val)
		v.panTween.doneX = done
	}
	if !v.panTween.doneY {
		val, done := v.panTween.tweenY.Update(dt)
		v.TranslateY = float64(val)
		v.panTween.doneY = done
	}
	if v.panTween.doneX && v.panTween.doneY {
		v.panTween = nil
	}
	v.dirty = true
	return true
}

// computeMatrices refreshes the cached forward and inverse matrices if dirty.
func (v *Viewport) computeMatrices() {
	if !v.dirty {
		return
	}
	v.dirty = false
	v.matrix = scaleTranslate(v.Scale, v.TranslateX, v.TranslateY)
	v.invMatrix = invertAffine(v.matrix)
}

// ToCanvasSpace inverse-transforms a screen coordinate into canvas space.
// It is the exact inverse of ToScreenSpace within floating-point tolerance.
func (v *Viewport) ToCanvasSpace(sx, sy float64) Vec2 {
	v.computeMatrices()
	x, y := transformPoint(v.invMatrix, sx, sy)
	return Vec2{X: x, Y: y}
}

// ToScreenSpace transforms a canvas coordinate into screen space.
func (v *Viewport) ToScreenSpace(cx, cy float64) Vec2 {
	v.computeMatrices()
	x, y := transformPoint(v.matrix, cx, cy)
	return Vec2{X: x, Y: y}
}

// LabelScale returns the inverse compensation factor applied to overlay
// elements such as text labels so they stay legible independent of zoom.
func (v *Viewport) LabelScale() float64 {
	return 1 + (1-v.Scale)/(v.Scale*2)
}

// AdaptToScale converts a screen-space displacement into a canvas-space one
// under the current scale.
func (v *Viewport) AdaptToScale(d Vec2) Vec2 {
	return Vec2{X: d.X / v.Scale, Y: d.Y / v.Scale}
}

// Invalidate forces a recomputation of the cached matrices. Call after
// bulk-setting fields directly.
func (v *Viewport) Invalidate() {
	v.dirty = true
}
