package shell

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTexture is a persistent GPU image owned by the caller. Unlike pooled
// render targets used internally, it is NOT recycled between frames and must
// be disposed explicitly.
type RenderTexture struct {
	image *ebiten.Image
	w, h  int
}

// NewRenderTexture creates a persistent offscreen canvas of the given size.
func NewRenderTexture(w, h int) *RenderTexture {
	return &RenderTexture{
		image: ebiten.NewImage(w, h),
		w:     w,
		h:     h,
	}
}

// NewRenderTextureFromImage uploads a CPU image into a new RenderTexture.
func NewRenderTextureFromImage(src image.Image) *RenderTexture {
	b := src.Bounds()
	return &RenderTexture{
		image: ebiten.NewImageFromImage(src),
		w:     b.Dx(),
		h:     b.Dy(),
	}
}

// Image returns the underlying *ebiten.Image, or nil after Dispose.
func (rt *RenderTexture) Image() *ebiten.Image {
	return rt.image
}

// Width returns the texture width in pixels.
func (rt *RenderTexture) Width() int {
	return rt.w
}

// Height returns the texture height in pixels.
func (rt *RenderTexture) Height() int {
	return rt.h
}

// Clear fills the texture with transparent black.
func (rt *RenderTexture) Clear() {
	rt.image.Clear()
}

// Fill fills the entire texture with the given color.
func (rt *RenderTexture) Fill(c Color) {
	rt.image.Fill(c.toRGBA())
}

// DrawImageAt draws src at the given position.
func (rt *RenderTexture) DrawImageAt(src *ebiten.Image, x, y float64) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(x, y)
	rt.image.DrawImage(src, &op)
}

// NewBoxNode creates an image box that displays this texture at its
// natural size.
func (rt *RenderTexture) NewBoxNode(name string) *Node {
	return NewImageBox(name, float64(rt.w), float64(rt.h), rt.image)
}

// Disposed reports whether Dispose has been called.
func (rt *RenderTexture) Disposed() bool {
	return rt.image == nil
}

// Dispose deallocates the underlying image. Safe to call more than once.
func (rt *RenderTexture) Dispose() {
	if rt.image != nil {
		rt.image.Deallocate()
		rt.image = nil
	}
}

// toRGBA converts a Color to a premultiplied color.Color.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// NRGBA converts the color to 8-bit straight alpha.
func (c Color) NRGBA() (r, g, b, a uint8) {
	return uint8(clamp01(c.R) * 255), uint8(clamp01(c.G) * 255),
		uint8(clamp01(c.B) * 255), uint8(clamp01(c.A) * 255)
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
