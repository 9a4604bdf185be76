package shell

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestCameraSetScroll(t *testing.T) {
	cam := &Camera{}
	cam.SetScroll(30, 120)
	if cam.X != 30 || cam.Y != 120 {
		t.Errorf("scroll = (%v, %v)", cam.X, cam.Y)
	}
	px, py := cam.ViewportToPage(10, 10)
	if px != 40 || py != 130 {
		t.Errorf("ViewportToPage = (%v, %v)", px, py)
	}
	vx, vy := cam.PageToViewport(px, py)
	if vx != 10 || vy != 10 {
		t.Errorf("PageToViewport = (%v, %v)", vx, vy)
	}
}

func TestCameraScrollTo(t *testing.T) {
	cam := &Camera{}
	cam.ScrollTo(0, 200, 1.0, ease.Linear)
	if !cam.Scrolling() {
		t.Fatal("should be scrolling")
	}
	cam.update(0.5)
	if math.Abs(cam.Y-100) > 0.5 {
		t.Errorf("Y = %v midway, want ~100", cam.Y)
	}
	cam.update(0.5)
	if cam.Scrolling() {
		t.Error("scroll should be finished")
	}
	if math.Abs(cam.Y-200) > 0.01 {
		t.Errorf("Y = %v, want 200", cam.Y)
	}
}

func TestCameraSetScrollCancelsAnimation(t *testing.T) {
	cam := &Camera{}
	cam.ScrollTo(0, 500, 1.0, ease.Linear)
	cam.SetScroll(0, 10)
	cam.update(0.5)
	if cam.Y != 10 || cam.Scrolling() {
		t.Errorf("Y = %v scrolling=%v", cam.Y, cam.Scrolling())
	}
}

func TestCameraBounds(t *testing.T) {
	cam := &Camera{Viewport: Rect{Width: 800, Height: 600}}
	cam.SetBounds(Rect{Width: 800, Height: 2000})

	cam.SetScroll(50, 5000)
	if cam.X != 0 || cam.Y != 1400 {
		t.Errorf("clamped = (%v, %v), want (0, 1400)", cam.X, cam.Y)
	}
	cam.SetScroll(0, -10)
	if cam.Y != 0 {
		t.Errorf("Y = %v, want 0", cam.Y)
	}

	cam.ClearBounds()
	cam.SetScroll(0, -10)
	if cam.Y != -10 {
		t.Errorf("Y = %v after ClearBounds, want -10", cam.Y)
	}
}

func TestCameraBoundsSmallPage(t *testing.T) {
	cam := &Camera{Viewport: Rect{Width: 800, Height: 600}}
	cam.SetBounds(Rect{X: 0, Y: 0, Width: 400, Height: 300})
	cam.SetScroll(100, 100)
	if cam.X != 0 || cam.Y != 0 {
		t.Errorf("small page should pin to origin, got (%v, %v)", cam.X, cam.Y)
	}
}

func TestSceneStepAdvancesScroll(t *testing.T) {
	s := NewScene()
	s.Camera().ScrollTo(0, 60, 0.5, ease.Linear)
	for range 40 {
		s.Step(1.0 / 60)
	}
	if s.Camera().Scrolling() {
		t.Error("scroll should finish after its duration")
	}
	if _, y := s.Scroll(); math.Abs(y-60) > 0.01 {
		t.Errorf("scroll Y = %v, want 60", y)
	}
}
