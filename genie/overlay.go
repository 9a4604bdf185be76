package genie

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/shell"
)

// Overlay class names. Every overlay carries ClassOverlay and its
// instance class; every slice carries ClassSlice.
const (
	ClassOverlay        = "genie-snapshot-container"
	ClassSlice          = "genie-slice"
	instanceClassPrefix = "genie-instance-"
)

// overlayZIndex keeps overlays above windows and the dock.
const overlayZIndex = 1 << 16

// InstanceClass returns the class carried by one instance's overlay.
func InstanceClass(id uint64) string {
	return fmt.Sprintf("%s%d", instanceClassPrefix, id)
}

// overlay is the node tree of one animation: a container holding one box
// per slice, each showing the snapshot as its background.
type overlay struct {
	container *shell.Node
	slices    []*shell.Node
	groups    []*shell.TweenGroup
}

func newOverlay(plan *Plan, snap *Snapshot, classes ...string) *overlay {
	tex := snap.Texture()
	first := plan.Keyframes()[0]

	o := &overlay{container: shell.NewContainer("genie-overlay")}
	o.container.AddClass(classes...)
	o.container.ZIndex = overlayZIndex
	o.slices = make([]*shell.Node, plan.Count)
	for i := range o.slices {
		n := shell.NewBox(fmt.Sprintf("genie-slice-%d", i), 0, 0, shell.ColorTransparent)
		n.AddClass(ClassSlice)
		n.Background = &shell.Background{Image: tex}
		applyFrame(n, plan.Frame(i, first))
		o.container.AddChild(n)
		o.slices[i] = n
	}
	return o
}

func applyFrame(n *shell.Node, f SliceFrame) {
	n.SetPosition(f.Box.X, f.Box.Y)
	n.SetSize(f.Box.Width, f.Box.Height)
	bg := n.Background
	bg.OffsetX, bg.OffsetY = f.Background.X, f.Background.Y
	bg.Width, bg.Height = f.Background.Width, f.Background.Height
}

// animate replaces the running tweens with tweens from the current slice
// state to kf.
func (o *overlay) animate(plan *Plan, kf Keyframe, duration float32, stagger float64, fn ease.TweenFunc) {
	o.groups = o.groups[:0]
	for i, n := range o.slices {
		f := plan.Frame(i, kf)
		bg := n.Background
		g := shell.TweenFields(n,
			[]*float64{&n.X, &n.Y, &n.Width, &n.Height, &bg.OffsetX, &bg.OffsetY, &bg.Width, &bg.Height},
			[]float64{f.Box.X, f.Box.Y, f.Box.Width, f.Box.Height, f.Background.X, f.Background.Y, f.Background.Width, f.Background.Height},
			duration, fn)
		g.Delay = float32(plan.Delay(i, stagger))
		o.groups = append(o.groups, g)
	}
}

func (o *overlay) update(dt float32) {
	for _, g := range o.groups {
		g.Update(dt)
	}
}

// ended reports a transition end on slice i: its tween reached the end
// while the slice was still attached under root.
func (o *overlay) ended(i int, root *shell.Node) bool {
	if i < 0 || i >= len(o.groups) {
		return false
	}
	g := o.groups[i]
	return g.Done && !g.Interrupted && o.slices[i].Attached(root)
}

// finishAll jumps every unfinished tween to its end.
func (o *overlay) finishAll() {
	for _, g := range o.groups {
		g.Finish()
	}
}

func (o *overlay) dispose() {
	o.container.Dispose()
	o.groups = nil
}
