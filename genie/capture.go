package genie

import (
	"fmt"
	"image"
	"math"

	"github.com/phanxgames/shell"
)

// ClassCaptureClone marks the offscreen clones a Capturer rasterizes.
const ClassCaptureClone = "genie-capture-clone"

// offscreen is where capture clones are parked, far outside any page.
const offscreen = -100000

// Rasterizer renders a subtree into a bitmap. *shell.Scene implements it.
type Rasterizer interface {
	Rasterize(n *shell.Node, opts shell.RenderOptions) (*image.NRGBA, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(n *shell.Node, opts shell.RenderOptions) (*image.NRGBA, error)

// Rasterize calls f.
func (f RasterizerFunc) Rasterize(n *shell.Node, opts shell.RenderOptions) (*image.NRGBA, error) {
	return f(n, opts)
}

// Capturer takes snapshots of live nodes without touching them: it
// rasterizes a patched offscreen clone and falls back to a placeholder
// bitmap when rasterization fails.
type Capturer struct {
	scene  *shell.Scene
	raster Rasterizer
	glyphs glyphCache
}

// NewCapturer returns a Capturer for scene. A nil raster uses the scene's
// own offscreen renderer.
func NewCapturer(scene *shell.Scene, raster Rasterizer) *Capturer {
	if raster == nil {
		raster = scene
	}
	return &Capturer{scene: scene, raster: raster}
}

// Capture snapshots live after one frame so the clone is laid out before it
// is rasterized. done is called exactly once from the scene's update, with
// a fallback snapshot if anything went wrong.
func (c *Capturer) Capture(live *shell.Node, done func(*Snapshot)) {
	clone, rect, err := c.prepare(live)
	if err != nil {
		logger().Warn().Err(err).Msg("capture setup failed, using fallback")
		snap := c.fallback(live, rect)
		c.scene.RequestFrame(func() { done(snap) })
		return
	}
	c.scene.RequestFrame(func() {
		done(c.finish(live, clone, rect))
	})
}

// CaptureNow snapshots live immediately, without waiting for a frame.
func (c *Capturer) CaptureNow(live *shell.Node) *Snapshot {
	clone, rect, err := c.prepare(live)
	if err != nil {
		logger().Warn().Err(err).Msg("capture setup failed, using fallback")
		return c.fallback(live, rect)
	}
	return c.finish(live, clone, rect)
}

// prepare clones live, patches the clone and attaches it offscreen.
func (c *Capturer) prepare(live *shell.Node) (clone *shell.Node, rect Rect, err error) {
	if live == nil || live.IsDisposed() {
		return nil, rect, ErrDetached
	}
	rect = Measure(c.scene, live)
	defer func() {
		if r := recover(); r != nil {
			if clone != nil {
				clone.Dispose()
			}
			clone, err = nil, fmt.Errorf("genie: prepare capture clone: %v", r)
		}
	}()

	clone = live.Clone()
	patchClone(clone, &c.glyphs)
	clone.Walk(func(n *shell.Node) bool {
		n.Interactable = false
		return true
	})
	clone.AddClass(ClassCaptureClone)
	clone.Fixed = true
	clone.X = offscreen - rect.Width
	clone.Y = offscreen - rect.Height
	clone.ScaleX, clone.ScaleY = 1, 1
	clone.PivotX, clone.PivotY = 0, 0
	clone.SetSize(rect.Width, rect.Height)
	clone.Visible = true
	clone.Alpha = 1
	c.scene.Root().AddChild(clone)
	return clone, rect, nil
}

// finish rasterizes and removes the clone, then builds the snapshot.
func (c *Capturer) finish(live, clone *shell.Node, rect Rect) *Snapshot {
	img, err := c.rasterize(clone)
	clone.Dispose()
	if err == nil && (img == nil || img.Rect.Empty()) {
		err = ErrEmptyRect
	}
	if err != nil {
		logger().Warn().Err(err).Str("node", live.Name).Msg("rasterize failed, using fallback")
		return c.fallback(live, rect)
	}
	return newSnapshot(img, false)
}

func (c *Capturer) rasterize(clone *shell.Node) (img *image.NRGBA, err error) {
	if clone.IsDisposed() || !clone.Attached(c.scene.Root()) {
		return nil, ErrDetached
	}
	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("genie: rasterize: %v", r)
		}
	}()
	return c.raster.Rasterize(clone, shell.RenderOptions{Skip: shell.SkipClass(shell.ClassWallpaper)})
}

func (c *Capturer) fallback(live *shell.Node, rect Rect) *Snapshot {
	w := int(math.Ceil(rect.Width))
	h := int(math.Ceil(rect.Height))
	return newSnapshot(fallbackImage(w, h, sampleColor(live)), true)
}
