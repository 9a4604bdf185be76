package shell

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera is the page scroll offset. Non-fixed nodes are drawn at their page
// position minus (X, Y); fixed nodes ignore the camera.
type Camera struct {
	// X and Y are the page coordinates shown at the viewport's top-left.
	X, Y float64

	// BoundsEnabled clamps the scroll position so the viewport stays within
	// Bounds.
	BoundsEnabled bool
	// Bounds is the page rectangle the viewport is clamped to.
	Bounds Rect
	// Viewport is the screen-space size used for clamping.
	Viewport Rect

	scrollTween *scrollAnim
}

// ScrollTo animates the scroll position to (x, y) over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// SetScroll jumps to (x, y), cancelling any scroll animation.
func (c *Camera) SetScroll(x, y float64) {
	c.scrollTween = nil
	c.X, c.Y = x, y
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// SetBounds enables scroll clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables scroll clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// update advances the scroll animation. Called from Scene.Step.
func (c *Camera) update(dt float32) {
	if st := c.scrollTween; st != nil {
		if !st.doneX {
			v, done := st.tweenX.Update(dt)
			c.X = float64(v)
			st.doneX = done
		}
		if !st.doneY {
			v, done := st.tweenY.Update(dt)
			c.Y = float64(v)
			st.doneY = done
		}
		if st.doneX && st.doneY {
			c.scrollTween = nil
		}
	}
	if c.BoundsEnabled {
		c.clampToBounds()
	}
}

// clampToBounds keeps the viewport inside Bounds. If the viewport is larger
// than Bounds on an axis the scroll position pins to the bounds origin.
func (c *Camera) clampToBounds() {
	maxX := c.Bounds.X + c.Bounds.Width - c.Viewport.Width
	maxY := c.Bounds.Y + c.Bounds.Height - c.Viewport.Height
	c.X = min(max(c.X, c.Bounds.X), max(maxX, c.Bounds.X))
	c.Y = min(max(c.Y, c.Bounds.Y), max(maxY, c.Bounds.Y))
}

// ViewportToPage converts a viewport point to page coordinates.
func (c *Camera) ViewportToPage(vx, vy float64) (float64, float64) {
	return vx + c.X, vy + c.Y
}

// PageToViewport converts a page point to viewport coordinates.
func (c *Camera) PageToViewport(px, py float64) (float64, float64) {
	return px - c.X, py - c.Y
}
