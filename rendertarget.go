package shell

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrEmptyBounds is returned when rasterising a node with no area.
var ErrEmptyBounds = errors.New("shell: node has empty bounds")

// maxRasterSide caps offscreen render size; larger requests fail instead of
// allocating huge textures.
const maxRasterSide = 8192

// --- Render texture pool ---

// renderTexturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// --- Offscreen rendering ---

// RenderOptions controls offscreen subtree rendering.
type RenderOptions struct {
	// Skip excludes a node and its subtree when it returns true. The root
	// node passed to Rasterize is never skipped.
	Skip func(*Node) bool
	// Background fills the target before the subtree is drawn.
	Background Color
}

// SkipClass returns a Skip predicate that excludes nodes carrying any of
// the class names.
func SkipClass(classes ...string) func(*Node) bool {
	return func(n *Node) bool {
		for _, c := range classes {
			if n.HasClass(c) {
				return true
			}
		}
		return false
	}
}

// Rasterize renders n and its descendants into a new straight-alpha image
// sized to n's scaled box, with n's top-left at (0, 0). n's own position and
// visibility are ignored; descendants honor theirs. Panics raised by the
// graphics backend (for example reading pixels before the game loop has
// started) are returned as errors.
func (s *Scene) Rasterize(n *Node, opts RenderOptions) (img *image.NRGBA, err error) {
	w := int(math.Ceil(n.Width * math.Abs(n.ScaleX)))
	h := int(math.Ceil(n.Height * math.Abs(n.ScaleY)))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyBounds
	}
	if w > maxRasterSide || h > maxRasterSide {
		return nil, fmt.Errorf("shell: rasterize %q: %dx%d exceeds %d", n.Name, w, h, maxRasterSide)
	}

	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("shell: rasterize %q: %v", n.Name, r)
		}
	}()

	rt := s.rtPool.Acquire(w, h)
	defer s.rtPool.Release(rt)

	if opts.Background.A > 0 {
		rt.Fill(opts.Background.toRGBA())
	}

	var op ebiten.DrawImageOptions
	pass := drawPass{target: rt, op: &op, skip: opts.Skip}

	// Render the root at the origin with its scale but without its position.
	root := [6]float64{n.ScaleX, 0, 0, n.ScaleY, 0, 0}
	if n.ScaleX < 0 {
		root[4] = float64(w)
	}
	if n.ScaleY < 0 {
		root[5] = float64(h)
	}
	if n.Renderable && n.Type != NodeTypeContainer {
		drawVisuals(&pass, n, root, n.Alpha)
	}
	children := n.children
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		s.drawNode(&pass, child, root, n.Alpha, true)
	}

	sub := rt.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	pixels := make([]byte, 4*w*h)
	sub.ReadPixels(pixels)
	return premultipliedToNRGBA(pixels, w, h), nil
}

// premultipliedToNRGBA converts premultiplied RGBA bytes to a straight-alpha image.
func premultipliedToNRGBA(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = a
	}
	return img
}
