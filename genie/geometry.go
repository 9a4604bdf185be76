package genie

import (
	"github.com/phanxgames/shell"
)

// Rect is a rectangle in page coordinates. Bottom is always Top+Height and
// Right is always Left+Width.
type Rect struct {
	Width, Height            float64
	Top, Left, Bottom, Right float64
}

// NewRect builds a Rect from its top-left corner and size.
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		Width:  width,
		Height: height,
		Top:    top,
		Left:   left,
		Bottom: top + height,
		Right:  left + width,
	}
}

// FromBox converts a shell box rectangle.
func FromBox(r shell.Rect) Rect {
	return NewRect(r.X, r.Y, r.Width, r.Height)
}

// Box converts back to a shell rectangle.
func (r Rect) Box() shell.Rect {
	return shell.Rect{X: r.Left, Y: r.Top, Width: r.Width, Height: r.Height}
}

// Empty reports whether the rectangle has zero or negative area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Measure returns the node's rectangle in page coordinates. It is computed
// from the node's ancestors at call time, so it reflects moves made since
// the last frame, and is independent of the current scroll position.
func Measure(scene *shell.Scene, n *shell.Node) Rect {
	if n == nil || n.IsDisposed() {
		return Rect{}
	}
	return FromBox(scene.PageBounds(n))
}
