package ecs

import (
	"testing"

	"github.com/phanxgames/shell"
	"github.com/phanxgames/shell/genie"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestNewDonburiStore(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)
	if store == nil {
		t.Fatal("NewDonburiStore returned nil")
	}
}

func TestDonburiStore_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var received []shell.InteractionEvent
	InteractionEventType.Subscribe(world, func(w donburi.World, e shell.InteractionEvent) {
		received = append(received, e)
	})

	store.EmitEvent(shell.InteractionEvent{
		Type:     shell.EventPointerDown,
		EntityID: 42,
		GlobalX:  100,
		GlobalY:  200,
		Button:   shell.MouseButtonLeft,
	})
	store.EmitEvent(shell.InteractionEvent{Type: shell.EventClick, EntityID: 7})

	// Events are queued; process them.
	InteractionEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	e0 := received[0]
	if e0.Type != shell.EventPointerDown || e0.EntityID != 42 {
		t.Errorf("event 0: %+v", e0)
	}
	if e0.GlobalX != 100 || e0.GlobalY != 200 {
		t.Errorf("event 0 position: (%v,%v)", e0.GlobalX, e0.GlobalY)
	}
	if received[1].Type != shell.EventClick || received[1].EntityID != 7 {
		t.Errorf("event 1: %+v", received[1])
	}
}

func TestDonburiStore_GenieEvent(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var got []genie.Event
	GenieEventType.Subscribe(world, func(w donburi.World, e genie.Event) {
		got = append(got, e)
	})

	store.GenieEvent(genie.Event{Type: genie.EventStarted, Instance: 1, Mode: genie.Collapse})
	store.GenieEvent(genie.Event{Type: genie.EventCompleted, Instance: 1, Outcome: genie.Finished})
	events.ProcessAllEvents(world)

	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != genie.EventStarted || got[1].Outcome != genie.Finished {
		t.Errorf("events = %+v", got)
	}
}

func TestDonburiStore_SceneClickReachesWorld(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	scene := shell.NewScene()
	scene.SetInputEnabled(false)
	scene.SetEntityStore(store)

	icon := shell.NewBox("icon", 40, 40, shell.ColorWhite)
	icon.Interactable = true
	icon.EntityID = 9
	scene.Root().AddChild(icon)

	var clicks int
	InteractionEventType.Subscribe(world, func(w donburi.World, e shell.InteractionEvent) {
		if e.Type == shell.EventClick && e.EntityID == 9 {
			clicks++
		}
	})

	scene.InjectClick(20, 20)
	for range 2 {
		if err := scene.Update(); err != nil {
			t.Fatal(err)
		}
	}
	events.ProcessAllEvents(world)

	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestDonburiStore_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	store := NewDonburiStore(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e shell.InteractionEvent) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e shell.InteractionEvent) {
		count2++
	})

	store.EmitEvent(shell.InteractionEvent{Type: shell.EventClick})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
