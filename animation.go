package shell

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates any number of float64 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenBox,
// TweenBackground, TweenColor, TweenAlpha) or TweenFields, and call
// Update(dt) each frame. The group auto-applies values and marks the node
// dirty. If the target node is disposed, the group stops immediately and
// records the interruption.
//
// There is no global animation manager; users call Update themselves.
type TweenGroup struct {
	tweens []*gween.Tween
	fields []*float64
	ends   []float64
	target *Node

	// Delay postpones the start of the group by this many seconds.
	Delay float32
	// Done is true once every tween reached its end or the target was disposed.
	Done bool
	// Interrupted is true when the group stopped because its target was
	// disposed rather than by reaching the end values.
	Interrupted bool

	elapsed float32
}

// TweenFields creates a TweenGroup that animates each *fields[i] to to[i].
// Panics if the slices differ in length.
func TweenFields(node *Node, fields []*float64, to []float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	if len(fields) != len(to) {
		panic("shell: TweenFields: fields and targets differ in length")
	}
	g := &TweenGroup{
		target: node,
		fields: fields,
		ends:   to,
		tweens: make([]*gween.Tween, len(fields)),
	}
	for i, f := range fields {
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done and
// Interrupted are set and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		g.Interrupted = true
		return
	}

	if g.elapsed < g.Delay {
		g.elapsed += dt
		if g.elapsed < g.Delay {
			return
		}
		dt = g.elapsed - g.Delay
	}

	allDone := true
	for i, tw := range g.tweens {
		val, finished := tw.Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if allDone {
		// gween works in float32; land exactly on the requested values.
		for i, f := range g.fields {
			*f = g.ends[i]
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
}

// Finish jumps every field to its end value and marks the group done.
func (g *TweenGroup) Finish() {
	if g.Done {
		return
	}
	for i, f := range g.fields {
		*f = g.ends[i]
	}
	g.Done = true
	if g.target != nil && !g.target.IsDisposed() {
		g.target.MarkDirty()
	}
}

// TweenPosition creates a TweenGroup that animates node.X and node.Y to the
// given target coordinates over the specified duration using the easing function.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(node, []*float64{&node.X, &node.Y}, []float64{toX, toY}, duration, fn)
}

// TweenBox creates a TweenGroup that animates the node's position and size
// to the given rectangle (in parent coordinates).
func TweenBox(node *Node, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(node,
		[]*float64{&node.X, &node.Y, &node.Width, &node.Height},
		[]float64{to.X, to.Y, to.Width, to.Height},
		duration, fn)
}

// TweenBackground creates a TweenGroup that animates the node's background
// offset and size. The node must have a Background.
func TweenBackground(node *Node, to Rect, duration float32, fn ease.TweenFunc) *TweenGroup {
	bg := node.Background
	if bg == nil {
		panic("shell: TweenBackground on node without Background")
	}
	return TweenFields(node,
		[]*float64{&bg.OffsetX, &bg.OffsetY, &bg.Width, &bg.Height},
		[]float64{to.X, to.Y, to.Width, to.Height},
		duration, fn)
}

// TweenColor creates a TweenGroup that animates all four components of
// node.Color (R, G, B, A) to the target color over the specified duration.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(node,
		[]*float64{&node.Color.R, &node.Color.G, &node.Color.B, &node.Color.A},
		[]float64{to.R, to.G, to.B, to.A},
		duration, fn)
}

// TweenAlpha creates a TweenGroup that animates node.Alpha to the target value
// over the specified duration using the easing function.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return TweenFields(node, []*float64{&node.Alpha}, []float64{to}, duration, fn)
}
