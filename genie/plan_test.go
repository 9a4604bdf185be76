package genie

import (
	"image"
	"image/color"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planCases puts the anchor on each side of a 60x40 window at (100, 100).
var planCases = []struct {
	dir    Direction
	anchor Rect
}{
	{Bottom, NewRect(120, 300, 20, 20)},
	{Top, NewRect(120, 10, 20, 20)},
	{Right, NewRect(320, 110, 20, 20)},
	{Left, NewRect(10, 110, 20, 20)},
}

var planWindow = NewRect(100, 100, 60, 40)

func TestPlan_SliceCountAndThickness(t *testing.T) {
	window := NewRect(0, 0, 60, 80)
	anchor := NewRect(20, 100, 20, 20)
	p := NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 2, Direction: Bottom, Mode: Collapse})

	require.Equal(t, 50, p.Count)
	for i, f := range p.Frames(p.Keyframes()[0]) {
		assert.Equal(t, 3.0, f.Box.Height, "slice %d", i)
		assert.Equal(t, float64(2*i), f.Box.Y, "slice %d", i)
	}
}

func TestPlan_CountCoversWindowExtent(t *testing.T) {
	// Anchor overlaps the window, so the path is shorter than the window.
	window := NewRect(0, 0, 60, 80)
	anchor := NewRect(20, 30, 20, 20)
	p := NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 4, Direction: Bottom})
	assert.Equal(t, 20, p.Count)
	assert.False(t, p.Clamped)
}

func TestPlan_CountVersusStepLength(t *testing.T) {
	// A 300px tall window whose anchor top sits 200px below the window
	// top: the window is longer than the path.
	window := NewRect(0, 0, 200, 300)
	anchor := NewRect(250, 200, 40, 40)
	p := NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 2, Direction: Bottom})
	assert.Equal(t, 100, StepLength(Bottom, anchor, window, 2))
	assert.Equal(t, 150, p.Count)
	_, hi := p.SourceBand(p.Count - 1)
	assert.Equal(t, 300.0, hi, "last band reaches the window's far edge")

	// Going up, the path runs bottom edge to bottom edge.
	window = NewRect(0, 400, 200, 300)
	anchor = NewRect(80, 0, 40, 40)
	p = NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 2, Direction: Top})
	assert.Equal(t, 200, StepLength(Top, anchor, window, 2))
	assert.Equal(t, 660.0, p.Path)
	assert.Equal(t, 330, p.Count)

	// Going down with the anchor past the window, both agree.
	anchor = NewRect(80, 1000, 40, 40)
	p = NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 2, Direction: Bottom})
	assert.Equal(t, StepLength(Bottom, anchor, window, 2), p.Count)
}

func TestPlan_NonPositivePathClamps(t *testing.T) {
	window := NewRect(0, 100, 60, 80)
	anchor := NewRect(20, 10, 20, 20)
	p := NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 4, Direction: Bottom})
	assert.True(t, p.Clamped)
	assert.GreaterOrEqual(t, p.Count, 1)

	tiny := NewPlan(PlanInput{Window: NewRect(0, 0, 1, 0.5), Anchor: NewRect(0, 0, 1, 0.5), Direction: Bottom})
	assert.Equal(t, 1, tiny.Count)
}

func TestPlan_QuantumClamped(t *testing.T) {
	p := NewPlan(PlanInput{Window: planWindow, Anchor: planCases[0].anchor, Quantum: 0.5})
	assert.Equal(t, float64(MinQuantum), p.Quantum)
	p = NewPlan(PlanInput{Window: planWindow, Anchor: planCases[0].anchor, Quantum: math.NaN()})
	assert.Equal(t, float64(MinQuantum), p.Quantum)
}

func TestPlan_SourceBandsTileSnapshot(t *testing.T) {
	for _, tc := range planCases {
		for _, q := range []float64{2, 3, 7, 13} {
			p := NewPlan(PlanInput{Window: planWindow, Anchor: tc.anchor, Quantum: q, Direction: tc.dir})
			extent := planWindow.Height
			if !tc.dir.vertical() {
				extent = planWindow.Width
			}

			type band struct{ lo, hi float64 }
			var bands []band
			for i := range p.Count {
				lo, hi := p.SourceBand(i)
				if hi > lo {
					bands = append(bands, band{lo, hi})
				}
			}
			sort.Slice(bands, func(a, b int) bool { return bands[a].lo < bands[b].lo })

			require.NotEmpty(t, bands)
			assert.Equal(t, 0.0, bands[0].lo, "%v q=%v", tc.dir, q)
			assert.Equal(t, extent, bands[len(bands)-1].hi, "%v q=%v", tc.dir, q)
			for i := 1; i < len(bands); i++ {
				assert.Equal(t, bands[i-1].hi, bands[i].lo, "%v q=%v gap or overlap at band %d", tc.dir, q, i)
			}
		}
	}
}

// gradientImage gives every pixel a distinct colour.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 4), uint8(y * 6), uint8(x ^ y), 0xff})
		}
	}
	return img
}

func TestPlan_ComposeStraightRestReproducesSnapshot(t *testing.T) {
	src := gradientImage(60, 40)
	for _, tc := range planCases {
		for _, q := range []float64{2, 5, 8} {
			p := NewPlan(PlanInput{Window: planWindow, Anchor: tc.anchor, Quantum: q, Direction: tc.dir})
			out := p.Compose(src, Keyframe{Straight, Rest})
			require2D(t, src, out, image.Rect(100, 100, 160, 140))
		}
	}
}

func TestPlan_ComposeSwallowedIsEmpty(t *testing.T) {
	src := gradientImage(60, 40)
	for _, tc := range planCases {
		p := NewPlan(PlanInput{Window: planWindow, Anchor: tc.anchor, Quantum: 4, Direction: tc.dir})
		out := p.Compose(src, Keyframe{Warped, Swallowed})
		b := out.Bounds()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				require.Zero(t, out.NRGBAAt(x, y).A, "%v: pixel (%d,%d) visible", tc.dir, x, y)
			}
		}
	}
}

func TestPlan_WarpedCurveRunsFromWindowToAnchor(t *testing.T) {
	window := NewRect(0, 0, 300, 200)
	anchor := NewRect(200, 600, 40, 40)
	p := NewPlan(PlanInput{Window: window, Anchor: anchor, Quantum: 4, Direction: Bottom})

	first := p.Frame(0, Keyframe{Warped, Rest})
	last := p.Frame(p.Count-1, Keyframe{Warped, Rest})

	assert.InDelta(t, window.Left, first.Box.X, 0.01*200)
	assert.InDelta(t, window.Width, first.Box.Width, 0.01*260)
	assert.InDelta(t, anchor.Left, last.Box.X, 0.02*200)
	assert.InDelta(t, anchor.Width, last.Box.Width, 0.02*260)

	// The funnel narrows toward the anchor. The curve starts just before
	// the sine minimum, so the first couple of slices may widen by a hair.
	prev := math.Inf(1)
	for i := range p.Count {
		w := p.Frame(i, Keyframe{Warped, Rest}).Box.Width
		assert.LessOrEqual(t, w, prev+0.05, "slice %d", i)
		prev = w
	}
}

func TestPlan_BackgroundMatchesSliceCrossSize(t *testing.T) {
	p := NewPlan(PlanInput{Window: planWindow, Anchor: planCases[2].anchor, Quantum: 4, Direction: Right})
	for i := range p.Count {
		f := p.Frame(i, Keyframe{Warped, Rest})
		assert.Equal(t, f.Box.Height, f.Background.Height)
		assert.Equal(t, planWindow.Width, f.Background.Width)
	}
}

func TestPlan_ExpandMirrorsCollapse(t *testing.T) {
	for _, tc := range planCases {
		in := PlanInput{Window: planWindow, Anchor: tc.anchor, Quantum: 4}
		in.Direction = SelectDirection(tc.anchor, planWindow, in.Quantum, nil)
		require.Equal(t, tc.dir, in.Direction)

		in.Mode = Collapse
		collapse := NewPlan(in)
		in.Mode = Expand
		expand := NewPlan(in)

		require.Equal(t, collapse.Count, expand.Count)
		ck, ek := collapse.Keyframes(), expand.Keyframes()
		for k := range 3 {
			assert.Equal(t, collapse.Frames(ck[2-k]), expand.Frames(ek[k]), "%v keyframe %d", tc.dir, k)
		}
		assert.Equal(t, collapse.Count-1, collapse.TerminalSlice())
		assert.Equal(t, 0, expand.TerminalSlice())
	}
}

func TestPlan_StaggerEndsOnTerminalSlice(t *testing.T) {
	for _, mode := range []Mode{Collapse, Expand} {
		p := NewPlan(PlanInput{Window: planWindow, Anchor: planCases[0].anchor, Quantum: 4, Direction: Bottom, Mode: mode})
		term := p.Delay(p.TerminalSlice(), 0.01)
		for i := range p.Count {
			assert.LessOrEqual(t, p.Delay(i, 0.01), term, "%v slice %d", mode, i)
		}
		assert.Zero(t, p.Delay(p.TerminalSlice(), 0))
	}
}
