package shell

import "testing"

func TestInjectClick(t *testing.T) {
	s := NewScene()
	s.SetInputEnabled(false)
	box := newInteractiveBox("box", 0, 0, 100, 100)
	s.Root().AddChild(box)

	var clicked bool
	s.OnClick(func(ctx ClickContext) {
		clicked = true
		if ctx.Node != box {
			t.Error("expected box node")
		}
	})

	s.InjectClick(50, 50)
	if s.PendingInput() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.PendingInput())
	}

	// Frame 1: press
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.PendingInput() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", s.PendingInput())
	}
	if clicked {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release, click fires
	if err := s.Update(); err != nil {
		t.Fatal(err)
	}
	if s.PendingInput() != 0 {
		t.Fatalf("expected empty queue, got %d", s.PendingInput())
	}
	if !clicked {
		t.Error("click should fire on release frame")
	}
}

func TestInjectQueueOrder(t *testing.T) {
	s := NewScene()
	s.InjectPress(1, 2)
	s.InjectMove(3, 4)
	s.InjectRelease(5, 6)

	want := []syntheticPointerEvent{
		{screenX: 1, screenY: 2, pressed: true, button: MouseButtonLeft},
		{screenX: 3, screenY: 4, button: MouseButtonLeft},
		{screenX: 5, screenY: 6, button: MouseButtonLeft},
	}
	for i, w := range want {
		if s.injectQueue[i] != w {
			t.Errorf("event %d = %+v, want %+v", i, s.injectQueue[i], w)
		}
	}
}

func TestProcessInjectedInput_EmptyQueue(t *testing.T) {
	s := NewScene()
	if s.processInjectedInput() {
		t.Error("empty queue should report nothing consumed")
	}
}

func TestInjectMoveHovers(t *testing.T) {
	s := NewScene()
	s.SetInputEnabled(false)
	box := newInteractiveBox("box", 0, 0, 40, 40)
	s.Root().AddChild(box)

	entered := false
	box.OnPointerEnter = func(PointerContext) { entered = true }
	box.OnPointerDown = func(PointerContext) { t.Error("move should not press") }

	s.InjectMove(10, 10)
	s.Update()
	if !entered {
		t.Error("move over box should fire enter")
	}
}

func TestInjectWithScroll(t *testing.T) {
	s := NewScene()
	s.SetInputEnabled(false)
	box := newInteractiveBox("box", 0, 500, 40, 40)
	s.Root().AddChild(box)
	s.Camera().SetScroll(0, 480)

	clicked := false
	box.OnClick = func(ClickContext) { clicked = true }
	s.InjectClick(20, 40)
	s.Update()
	s.Update()
	if !clicked {
		t.Error("injected viewport coordinates should account for scroll")
	}
}
