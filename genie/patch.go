package genie

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/phanxgames/shell"
)

// Roles of window chrome that rasterize poorly from their source images and
// are redrawn on capture clones.
const (
	RoleTrafficClose    = "traffic-light-close"
	RoleTrafficMinimize = "traffic-light-minimize"
	RoleTrafficZoom     = "traffic-light-zoom"
	RoleLockIcon        = "lock-icon"
	RoleSearchIcon      = "search-icon"
)

var (
	trafficColors = map[string]color.NRGBA{
		RoleTrafficClose:    {0xff, 0x5f, 0x57, 0xff},
		RoleTrafficMinimize: {0xfe, 0xbc, 0x2e, 0xff},
		RoleTrafficZoom:     {0x28, 0xc8, 0x40, 0xff},
	}
	glyphInk = color.NRGBA{0x55, 0x55, 0x5a, 0xff}
)

// supersample is the oversampling factor for procedurally drawn glyphs.
const supersample = 4

type glyphKey struct {
	role string
	size int
}

// glyphCache holds uploaded replacement glyphs keyed by role and pixel size.
type glyphCache struct {
	images map[glyphKey]*ebiten.Image
}

func (c *glyphCache) get(role string, size int) *ebiten.Image {
	key := glyphKey{role, size}
	if img, ok := c.images[key]; ok {
		return img
	}
	src := drawGlyph(role, size)
	if src == nil {
		return nil
	}
	if c.images == nil {
		c.images = make(map[glyphKey]*ebiten.Image)
	}
	img := ebiten.NewImageFromImage(src)
	c.images[key] = img
	return img
}

// patchClone replaces known problem icons in a capture clone with solid
// discs and procedural glyphs. Boxes keep their geometry so the layout of
// the clone matches the live window.
func patchClone(clone *shell.Node, glyphs *glyphCache) int {
	patched := 0
	clone.Walk(func(n *shell.Node) bool {
		switch n.Role {
		case RoleTrafficClose, RoleTrafficMinimize, RoleTrafficZoom,
			RoleLockIcon, RoleSearchIcon:
		default:
			return true
		}
		size := int(math.Round(min(n.Width, n.Height)))
		if size <= 0 {
			return true
		}
		img := glyphs.get(n.Role, size)
		if img == nil {
			return true
		}
		n.Image = img
		n.Background = nil
		n.Color = shell.ColorWhite
		n.Renderable = true
		patched++
		return true
	})
	return patched
}

// drawGlyph renders a role's replacement glyph at size x size pixels.
func drawGlyph(role string, size int) *image.NRGBA {
	var ink color.NRGBA
	var inside func(x, y float64) bool
	if c, ok := trafficColors[role]; ok {
		ink, inside = c, disc
	} else {
		switch role {
		case RoleLockIcon:
			ink, inside = glyphInk, lock
		case RoleSearchIcon:
			ink, inside = glyphInk, magnifier
		default:
			return nil
		}
	}

	big := size * supersample
	hi := image.NewNRGBA(image.Rect(0, 0, big, big))
	for py := 0; py < big; py++ {
		for px := 0; px < big; px++ {
			x := (float64(px) + 0.5) / float64(big)
			y := (float64(py) + 0.5) / float64(big)
			if inside(x, y) {
				hi.SetNRGBA(px, py, ink)
			}
		}
	}
	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(out, out.Bounds(), hi, hi.Bounds(), xdraw.Src, nil)
	return out
}

// Glyph shapes in unit coordinates.

func disc(x, y float64) bool {
	return math.Hypot(x-0.5, y-0.5) <= 0.5
}

func lock(x, y float64) bool {
	if x >= 0.2 && x <= 0.8 && y >= 0.45 && y <= 0.9 {
		return true
	}
	if y > 0.45 {
		return false
	}
	d := math.Hypot(x-0.5, y-0.45)
	return d >= 0.15 && d <= 0.25
}

func magnifier(x, y float64) bool {
	d := math.Hypot(x-0.42, y-0.42)
	if d >= 0.2 && d <= 0.3 {
		return true
	}
	return segmentDistance(x, y, 0.62, 0.62, 0.9, 0.9) <= 0.07
}

func segmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = max(0, min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}
