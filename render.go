package shell

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// drawPass carries the per-pass state of a tree traversal.
type drawPass struct {
	target *ebiten.Image
	op     *ebiten.DrawImageOptions
	// scrollX/scrollY are subtracted from non-fixed nodes.
	scrollX, scrollY float64
	// skip excludes a node and its subtree when it returns true.
	skip func(*Node) bool
}

// drawTree draws the whole scene to screen.
func (s *Scene) drawTree(screen *ebiten.Image) {
	pass := drawPass{
		target:  screen,
		op:      &s.drawOp,
		scrollX: s.camera.X,
		scrollY: s.camera.Y,
	}
	s.drawNode(&pass, s.root, identityTransform, 1, false)
}

// drawNode walks the node tree depth-first in ZIndex order, drawing each
// visible node's visuals before its children.
func (s *Scene) drawNode(p *drawPass, n *Node, parentTransform [6]float64, parentAlpha float64, fixed bool) {
	if !n.Visible {
		return
	}
	if p.skip != nil && p.skip(n) {
		return
	}
	fixed = fixed || n.Fixed
	world := multiplyAffine(parentTransform, computeLocalTransform(n))
	alpha := parentAlpha * n.Alpha

	if n.Renderable && n.Type != NodeTypeContainer && alpha > 0 {
		view := world
		if !fixed {
			view[4] -= p.scrollX
			view[5] -= p.scrollY
		}
		drawVisuals(p, n, view, alpha)
	}

	if len(n.children) == 0 {
		return
	}
	children := n.children
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		s.drawNode(p, child, world, alpha, fixed)
	}
}

// drawVisuals draws a box node's fill or image, then its background.
func drawVisuals(p *drawPass, n *Node, m [6]float64, alpha float64) {
	if n.Width <= 0 || n.Height <= 0 {
		return
	}
	op := p.op
	switch {
	case n.Image != nil:
		b := n.Image.Bounds()
		resetOp(op, n.Color, alpha)
		op.GeoM.Scale(n.Width/float64(b.Dx()), n.Height/float64(b.Dy()))
		concatAffine(&op.GeoM, m)
		p.target.DrawImage(n.Image, op)
	case n.Color.A > 0:
		resetOp(op, n.Color, alpha)
		op.GeoM.Scale(n.Width, n.Height)
		concatAffine(&op.GeoM, m)
		p.target.DrawImage(WhitePixel, op)
	}
	if n.Background != nil && n.Background.Image != nil {
		drawBackground(p, n, m, alpha)
	}
}

// drawBackground draws the part of n.Background that falls inside the box.
// The visible source region is snapped to whole source pixels and stretched
// to the visible box region so nothing bleeds outside the box.
func drawBackground(p *drawPass, n *Node, m [6]float64, alpha float64) {
	bg := n.Background
	bw, bh := bg.size()
	if bw <= 0 || bh <= 0 {
		return
	}
	vx0 := math.Max(0, bg.OffsetX)
	vy0 := math.Max(0, bg.OffsetY)
	vx1 := math.Min(n.Width, bg.OffsetX+bw)
	vy1 := math.Min(n.Height, bg.OffsetY+bh)
	if vx1 <= vx0 || vy1 <= vy0 {
		return
	}

	ib := bg.Image.Bounds()
	kx := float64(ib.Dx()) / bw
	ky := float64(ib.Dy()) / bh
	src := image.Rect(
		ib.Min.X+int(math.Floor((vx0-bg.OffsetX)*kx)),
		ib.Min.Y+int(math.Floor((vy0-bg.OffsetY)*ky)),
		ib.Min.X+int(math.Ceil((vx1-bg.OffsetX)*kx)),
		ib.Min.Y+int(math.Ceil((vy1-bg.OffsetY)*ky)),
	).Intersect(ib)
	if src.Empty() {
		return
	}
	sub := bg.Image.SubImage(src).(*ebiten.Image)

	op := p.op
	resetOp(op, ColorWhite, alpha)
	op.GeoM.Scale((vx1-vx0)/float64(src.Dx()), (vy1-vy0)/float64(src.Dy()))
	op.GeoM.Translate(vx0, vy0)
	concatAffine(&op.GeoM, m)
	p.target.DrawImage(sub, op)
}

// resetOp clears op and applies a premultiplied tint.
func resetOp(op *ebiten.DrawImageOptions, c Color, alpha float64) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	a := c.A * alpha
	op.ColorScale.Scale(float32(c.R*a), float32(c.G*a), float32(c.B*a), float32(a))
	op.Filter = ebiten.FilterLinear
}

// concatAffine appends the affine matrix m to g.
func concatAffine(g *ebiten.GeoM, m [6]float64) {
	var mg ebiten.GeoM
	mg.SetElement(0, 0, m[0])
	mg.SetElement(1, 0, m[1])
	mg.SetElement(0, 1, m[2])
	mg.SetElement(1, 1, m[3])
	mg.SetElement(0, 2, m[4])
	mg.SetElement(1, 2, m[5])
	g.Concat(mg)
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func (s *Scene) rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}
