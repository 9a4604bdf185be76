package genie

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phanxgames/shell"
)

func TestNewRect_Edges(t *testing.T) {
	r := NewRect(10, 20, 30, 40)
	assert.Equal(t, 50.0, r.Right)
	assert.Equal(t, 60.0, r.Bottom)
	assert.Equal(t, shell.Rect{X: 10, Y: 20, Width: 30, Height: 40}, r.Box())
	assert.Equal(t, r, FromBox(r.Box()))
}

func TestMeasure_StableUnderScroll(t *testing.T) {
	d := newDesk(t)
	before := Measure(d.scene, d.window)
	dockBefore := Measure(d.scene, d.dock)

	d.scene.Camera().SetScroll(0, 100)

	assert.Equal(t, before, Measure(d.scene, d.window))
	// The dock is fixed to the viewport, so its page position moves with scroll.
	assert.Equal(t, dockBefore.Top+100, Measure(d.scene, d.dock).Top)
}

func TestMeasure_FreshAfterMove(t *testing.T) {
	d := newDesk(t)
	assert.Equal(t, NewRect(40, 20, 80, 60), Measure(d.scene, d.window))

	d.window.SetPosition(60, 35)
	assert.Equal(t, NewRect(60, 35, 80, 60), Measure(d.scene, d.window))
}

func TestMeasure_NestedAndDisposed(t *testing.T) {
	d := newDesk(t)
	button := shell.NewBox("close", 12, 12, shell.ColorWhite)
	button.SetPosition(8, 6)
	d.window.AddChild(button)
	assert.Equal(t, NewRect(48, 26, 12, 12), Measure(d.scene, button))

	button.Dispose()
	assert.True(t, Measure(d.scene, button).Empty())
	assert.True(t, Measure(d.scene, nil).Empty())
}
