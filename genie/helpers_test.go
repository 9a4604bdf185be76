package genie

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phanxgames/shell"
)

const frameDT = time.Second / 60

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// solidRaster renders every node as an opaque image of its size.
type solidRaster struct {
	calls   int
	last    *shell.Node
	opts    shell.RenderOptions
	fill    color.NRGBA
	inspect func(*shell.Node)
}

func (r *solidRaster) Rasterize(n *shell.Node, opts shell.RenderOptions) (*image.NRGBA, error) {
	r.calls++
	r.last = n
	r.opts = opts
	if r.inspect != nil {
		r.inspect(n)
	}
	w := int(math.Ceil(n.Width))
	h := int(math.Ceil(n.Height))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill := r.fill
	if fill.A == 0 {
		fill = color.NRGBA{0x30, 0x60, 0x90, 0xff}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img, nil
}

// errSecurity stands in for a tainted-canvas failure.
var errSecurity = errors.New("SecurityError: tainted canvas")

func failingRaster() Rasterizer {
	return RasterizerFunc(func(*shell.Node, shell.RenderOptions) (*image.NRGBA, error) {
		return nil, errSecurity
	})
}

func panickingRaster() Rasterizer {
	return RasterizerFunc(func(*shell.Node, shell.RenderOptions) (*image.NRGBA, error) {
		panic("backend exploded")
	})
}

// desk is a scene with one window and one fixed dock item below it.
type desk struct {
	scene  *shell.Scene
	clock  *fakeClock
	window *shell.Node
	dock   *shell.Node
	events []Event
}

func newDesk(t *testing.T) *desk {
	t.Helper()
	scene := shell.NewScene()
	scene.SetInputEnabled(false)

	wallpaper := shell.NewBox("wallpaper", 400, 300, shell.Color{R: 0.2, G: 0.3, B: 0.5, A: 1})
	wallpaper.AddClass(shell.ClassWallpaper)
	scene.Root().AddChild(wallpaper)

	window := shell.NewBox("finder", 80, 60, shell.Color{R: 0.95, G: 0.95, B: 0.96, A: 1})
	window.AddClass(shell.ClassWindow)
	window.SetPosition(40, 20)
	scene.Root().AddChild(window)

	dock := shell.NewBox("dock-finder", 20, 20, shell.ColorWhite)
	dock.AddClass(shell.ClassDockItem)
	dock.Fixed = true
	dock.SetPosition(70, 180)
	scene.Root().AddChild(dock)

	return &desk{scene: scene, clock: newFakeClock(), window: window, dock: dock}
}

func (d *desk) controller(raster Rasterizer) *Controller {
	if raster == nil {
		raster = &solidRaster{}
	}
	return NewController(d.scene, Config{
		Rasterizer: raster,
		Clock:      d.clock,
		Sink:       EventSinkFunc(func(e Event) { d.events = append(d.events, e) }),
	})
}

// step advances the clock and the scene by one frame.
func (d *desk) step() {
	d.clock.Advance(frameDT)
	d.scene.Step(frameDT.Seconds())
}

// run steps frames until fn returns true or limit frames have passed.
func (d *desk) runUntil(limit int, fn func() bool) bool {
	for range limit {
		if fn() {
			return true
		}
		d.step()
	}
	return fn()
}

func (d *desk) overlays() int {
	return len(d.scene.Query(ClassOverlay))
}

func (d *desk) eventTypes() []EventType {
	out := make([]EventType, len(d.events))
	for i, e := range d.events {
		out[i] = e.Type
	}
	return out
}

func (d *desk) phases() []Phase {
	var out []Phase
	for _, e := range d.events {
		if e.Type == EventPhase {
			out = append(out, e.Phase)
		}
	}
	return out
}

func require2D(t *testing.T, want, got image.Image, area image.Rectangle) {
	t.Helper()
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			w := color.NRGBAModel.Convert(want.At(x-area.Min.X+want.Bounds().Min.X, y-area.Min.Y+want.Bounds().Min.Y))
			g := color.NRGBAModel.Convert(got.At(x, y))
			require.Equal(t, w, g, "pixel (%d,%d)", x, y)
		}
	}
}
