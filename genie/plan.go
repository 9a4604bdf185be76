package genie

import (
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/phanxgames/shell"
)

// MinQuantum is the smallest slice stride in pixels.
const MinQuantum = 2

// curveStart is the phase angle of the first slice. Just past 3π/2 the sine
// is at its minimum, so the first slice keeps the window's cross extent and
// the curve narrows toward the anchor.
const curveStart = 4.7

func clampQuantum(q float64) float64 {
	if !(q >= MinQuantum) {
		return MinQuantum
	}
	return q
}

// Mode selects which way an animation runs.
type Mode uint8

const (
	// Collapse shrinks a window into its anchor.
	Collapse Mode = iota
	// Expand grows a window out of its anchor.
	Expand
)

func (m Mode) String() string {
	switch m {
	case Collapse:
		return "collapse"
	case Expand:
		return "expand"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Geometry selects the slice boxes of a keyframe.
type Geometry uint8

const (
	// Straight boxes cover the window undistorted.
	Straight Geometry = iota
	// Warped boxes follow the sine funnel from the window to the anchor.
	Warped
)

// ImagePos selects where the snapshot sits along the travel axis.
type ImagePos uint8

const (
	// Rest places the snapshot over the window.
	Rest ImagePos = iota
	// Swallowed slides the snapshot past the last slice into the anchor,
	// leaving every slice empty.
	Swallowed
)

// Keyframe is one pose of the whole overlay.
type Keyframe struct {
	Geometry Geometry
	Image    ImagePos
}

// SliceFrame is one slice's box in page coordinates and its background:
// the scaled snapshot's offset relative to the box and its scaled size.
type SliceFrame struct {
	Box        shell.Rect
	Background shell.Rect
}

// PlanInput describes the rectangles and parameters a plan is built from.
type PlanInput struct {
	// Window is the full-size window rectangle.
	Window Rect
	// Anchor is the dock-side rectangle the window collapses into or
	// expands out of.
	Anchor    Rect
	Quantum   float64
	Direction Direction
	Mode      Mode
}

type span struct {
	pos, size float64
}

// Plan is the slice layout of one animation. It is immutable.
type Plan struct {
	Direction Direction
	Mode      Mode
	// Quantum is the clamped slice stride. Each slice is Quantum+1 pixels
	// thick so neighbours overlap by one pixel.
	Quantum float64
	// Count is the number of slices, at least 1. It is
	// max(1, ceil(Path/Quantum), ceil(extent/Quantum)), so it can differ
	// from StepLength for the same direction: Path runs between trailing
	// edges while StepLength runs between origin edges, which differ for
	// Top and Left by the size difference of the two rectangles, and a
	// window longer than its path gets enough slices to cover it.
	Count int
	// Path is the distance from the window's trailing edge to the anchor's
	// matching edge, before clamping.
	Path float64
	// Clamped reports that Path was not positive and the slice count was
	// clamped.
	Clamped bool

	window   Rect
	anchor   Rect
	sign     float64
	trailing float64
	extent   float64
	straight span
	warped   []span
}

// NewPlan computes the slice layout for in.
func NewPlan(in PlanInput) *Plan {
	q := clampQuantum(in.Quantum)
	p := &Plan{
		Direction: in.Direction,
		Mode:      in.Mode,
		Quantum:   q,
		window:    in.Window,
		anchor:    in.Anchor,
	}

	w, a := in.Window, in.Anchor
	var anchorCross span
	switch in.Direction {
	case Top:
		p.sign, p.trailing, p.Path = -1, w.Bottom, w.Bottom-a.Bottom
	case Left:
		p.sign, p.trailing, p.Path = -1, w.Right, w.Right-a.Right
	case Right:
		p.sign, p.trailing, p.Path = 1, w.Left, a.Left-w.Left
	default:
		p.sign, p.trailing, p.Path = 1, w.Top, a.Top-w.Top
	}
	if in.Direction.vertical() {
		p.extent = w.Height
		p.straight = span{w.Left, w.Width}
		anchorCross = span{a.Left, a.Width}
	} else {
		p.extent = w.Width
		p.straight = span{w.Top, w.Height}
		anchorCross = span{a.Top, a.Height}
	}

	p.Clamped = p.Path <= 0
	p.Count = max(1, ceilDiv(p.Path, q), ceilDiv(p.extent, q))

	rOff := (anchorCross.pos - p.straight.pos) / 2
	rSize := (anchorCross.size - p.straight.size) / 2
	sizeBase := (anchorCross.size + p.straight.size) / 2
	step := 2 * math.Pi / float64(2*p.Count)
	p.warped = make([]span, p.Count)
	counter := curveStart
	for i := range p.warped {
		s := math.Sin(counter)
		p.warped[i] = span{
			pos:  p.straight.pos + s*rOff + rOff,
			size: s*rSize + sizeBase,
		}
		counter += step
	}
	return p
}

func ceilDiv(v, q float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Ceil(v / q))
}

// Window returns the window rectangle the plan was built for.
func (p *Plan) Window() Rect { return p.window }

// Anchor returns the anchor rectangle the plan was built for.
func (p *Plan) Anchor() Rect { return p.anchor }

// Keyframes returns the three poses of the animation in playback order.
// Phase one runs from the first to the second, phase two from the second
// to the third.
func (p *Plan) Keyframes() [3]Keyframe {
	if p.Mode == Expand {
		return [3]Keyframe{{Warped, Swallowed}, {Warped, Rest}, {Straight, Rest}}
	}
	return [3]Keyframe{{Straight, Rest}, {Warped, Rest}, {Warped, Swallowed}}
}

// TerminalSlice is the slice whose transition end advances the animation:
// the last slice for a collapse and the first for an expand.
func (p *Plan) TerminalSlice() int {
	if p.Mode == Expand {
		return 0
	}
	return p.Count - 1
}

// Delay returns the start delay of slice i for a per-slice stagger. Delays
// grow toward the terminal slice so it is also the last to finish.
func (p *Plan) Delay(i int, stagger float64) float64 {
	if stagger <= 0 {
		return 0
	}
	if p.Mode == Expand {
		return float64(p.Count-1-i) * stagger
	}
	return float64(i) * stagger
}

// axisStart returns the low coordinate of slice i along the travel axis.
func (p *Plan) axisStart(i int) float64 {
	if p.sign > 0 {
		return p.trailing + float64(i)*p.Quantum
	}
	return p.trailing - float64(i+1)*p.Quantum - 1
}

// imageStart returns the low coordinate of the scaled snapshot along the
// travel axis.
func (p *Plan) imageStart(pos ImagePos) float64 {
	shift := 0.0
	if pos == Swallowed {
		// One past the far edge of the last slice, overlap included.
		shift = float64(p.Count)*p.Quantum + 1
	}
	if p.sign > 0 {
		return p.trailing + shift
	}
	return p.trailing - p.extent - shift
}

// Frame returns slice i's box and background for kf.
func (p *Plan) Frame(i int, kf Keyframe) SliceFrame {
	cross := p.straight
	if kf.Geometry == Warped {
		cross = p.warped[i]
	}
	start := p.axisStart(i)
	thick := p.Quantum + 1
	offset := p.imageStart(kf.Image) - start
	if p.Direction.vertical() {
		return SliceFrame{
			Box:        shell.Rect{X: cross.pos, Y: start, Width: cross.size, Height: thick},
			Background: shell.Rect{X: 0, Y: offset, Width: cross.size, Height: p.extent},
		}
	}
	return SliceFrame{
		Box:        shell.Rect{X: start, Y: cross.pos, Width: thick, Height: cross.size},
		Background: shell.Rect{X: offset, Y: 0, Width: p.extent, Height: cross.size},
	}
}

// Frames returns every slice's frame for kf, in slice order.
func (p *Plan) Frames(kf Keyframe) []SliceFrame {
	out := make([]SliceFrame, p.Count)
	for i := range out {
		out[i] = p.Frame(i, kf)
	}
	return out
}

// SourceBand returns the part of the snapshot slice i owns at Straight/Rest,
// as [lo, hi) along the travel axis in window pixels from the window's
// top or left edge. Bands of slices past the window's extent are empty.
func (p *Plan) SourceBand(i int) (lo, hi float64) {
	near := float64(i) * p.Quantum
	far := min(near+p.Quantum, p.extent)
	near = min(near, p.extent)
	if p.sign > 0 {
		return near, far
	}
	return p.extent - far, p.extent - near
}

// Compose renders kf on the CPU by drawing src into every slice the way the
// overlay does. The returned image's bounds are in page coordinates and
// cover the window and every slice box.
func (p *Plan) Compose(src image.Image, kf Keyframe) *image.NRGBA {
	frames := p.Frames(kf)
	bounds := pixelRect(p.window.Box())
	for _, f := range frames {
		bounds = bounds.Union(pixelRect(f.Box))
	}
	dst := image.NewNRGBA(bounds)
	for _, f := range frames {
		box := pixelRect(f.Box).Intersect(bounds)
		if box.Empty() {
			continue
		}
		clip := dst.SubImage(box).(*image.NRGBA)
		dr := pixelRect(shell.Rect{
			X:      f.Box.X + f.Background.X,
			Y:      f.Box.Y + f.Background.Y,
			Width:  f.Background.Width,
			Height: f.Background.Height,
		})
		if dr.Empty() {
			continue
		}
		xdraw.NearestNeighbor.Scale(clip, dr, src, src.Bounds(), xdraw.Src, nil)
	}
	return dst
}

// pixelRect rounds a float rectangle to whole pixels.
func pixelRect(r shell.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.X+r.Width)), int(math.Round(r.Y+r.Height)),
	)
}
