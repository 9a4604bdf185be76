package genie

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/phanxgames/shell"
)

// defaultFallbackColor is used when no opaque colour can be sampled.
var defaultFallbackColor = shell.Color{R: 0.93, G: 0.93, B: 0.94, A: 1}

// Fallback highlight at the top edge, fading to nothing at the bottom.
const fallbackHighlight = 0.14

// sampleColor picks the placeholder colour for n: its own fill, else the
// first opaque box fill in its subtree.
func sampleColor(n *shell.Node) shell.Color {
	if n == nil || n.IsDisposed() {
		return defaultFallbackColor
	}
	found := defaultFallbackColor
	ok := false
	n.Walk(func(c *shell.Node) bool {
		if ok {
			return false
		}
		if c.Type != shell.NodeTypeContainer && c.Image == nil && c.Color.A > 0 {
			found, ok = c.Color, true
			return false
		}
		return true
	})
	found.A = 1
	return found
}

// fallbackImage draws the placeholder bitmap: a solid fill, a vertical
// highlight gradient and a one pixel border.
func fallbackImage(w, h int, base shell.Color) *image.NRGBA {
	w, h = max(w, 1), max(h, 1)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r, g, b, _ := base.NRGBA()
	xdraw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{r, g, b, 0xff}), image.Point{}, xdraw.Src)

	for y := 0; y < h; y++ {
		t := 1.0
		if h > 1 {
			t = 1 - float64(y)/float64(h-1)
		}
		a := uint8(fallbackHighlight * t * 255)
		if a == 0 {
			continue
		}
		row := image.Rect(0, y, w, y+1)
		xdraw.Draw(img, row, image.NewUniform(color.NRGBA{0xff, 0xff, 0xff, a}), image.Point{}, xdraw.Over)
	}

	border := image.NewUniform(color.NRGBA{uint8(float64(r) * 0.7), uint8(float64(g) * 0.7), uint8(float64(b) * 0.7), 0xff})
	for _, edge := range []image.Rectangle{
		image.Rect(0, 0, w, 1),
		image.Rect(0, h-1, w, h),
		image.Rect(0, 0, 1, h),
		image.Rect(w-1, 0, w, h),
	} {
		xdraw.Draw(img, edge, border, image.Point{}, xdraw.Src)
	}
	return img
}
