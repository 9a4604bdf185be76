package shell

import (
	"errors"
	"strings"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestLoadTestScript(t *testing.T) {
	data := []byte(`
steps:
  - action: screenshot
    label: initial
  - action: click
    x: 100
    y: 200
  - action: wait
    frames: 3
  - action: scroll
    y: 400
  - action: screenshot
    label: after-click
`)
	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "screenshot" || runner.steps[0].Label != "initial" {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "click" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if runner.steps[2].Action != "wait" || runner.steps[2].Frames != 3 {
		t.Error("step 2 mismatch")
	}
	if runner.steps[3].Y != 400 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadTestScript_JSON(t *testing.T) {
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "move", "x": 5, "y": 6}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if runner.steps[0].Action != "move" {
		t.Error("JSON scripts should parse as YAML")
	}
}

func TestLoadTestScript_Invalid(t *testing.T) {
	if _, err := LoadTestScript([]byte("steps: [")); err == nil {
		t.Error("expected parse error")
	}
	_, err := LoadTestScript([]byte("steps: []"))
	if !errors.Is(err, errNoSteps) {
		t.Errorf("err = %v, want errNoSteps", err)
	}
	_, err = LoadTestScript([]byte("steps:\n  - action: drag\n"))
	if err == nil || !strings.Contains(err.Error(), `unknown action "drag"`) {
		t.Errorf("err = %v, want unknown action", err)
	}
}

func TestRunnerStep_Click(t *testing.T) {
	s := NewScene()
	s.SetInputEnabled(false)
	box := newInteractiveBox("box", 0, 0, 200, 200)
	s.Root().AddChild(box)
	clicks := 0
	box.OnClick = func(ClickContext) { clicks++ }

	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	runner.step(s)
	if s.PendingInput() != 2 {
		t.Fatalf("expected 2 queued events, got %d", s.PendingInput())
	}
	if runner.Done() {
		t.Error("runner should not be done while injections are pending")
	}

	for range 3 {
		s.Update()
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`
steps:
  - action: wait
    frames: 3
  - action: screenshot
    label: after
`))
	if err != nil {
		t.Fatal(err)
	}

	runner.step(s) // wait consumes this frame
	runner.step(s)
	runner.step(s)
	if len(s.screenshotQueue) != 0 {
		t.Fatal("screenshot queued before the wait finished")
	}
	runner.step(s)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "after" {
		t.Errorf("queue = %v, want [after]", s.screenshotQueue)
	}
	if !runner.Done() {
		t.Error("runner should be done")
	}
}

func TestRunnerStep_ScrollWaitsForAnimation(t *testing.T) {
	s := NewScene()
	runner, err := LoadTestScript([]byte(`
steps:
  - action: scroll
    y: 300
  - action: screenshot
    label: scrolled
`))
	if err != nil {
		t.Fatal(err)
	}
	s.Camera().ScrollTo(0, 100, 1, ease.Linear)

	runner.step(s)
	if runner.cursor != 0 {
		t.Error("runner should wait for the scroll animation")
	}
	s.Camera().SetScroll(0, 0)

	runner.step(s)
	if _, y := s.Scroll(); y != 300 {
		t.Errorf("scroll Y = %v, want 300", y)
	}
	runner.step(s)
	if len(s.screenshotQueue) != 1 {
		t.Errorf("queue = %v", s.screenshotQueue)
	}
}
