// Package ecs provides ECS adapters for shell scenes.
package ecs

import (
	"github.com/phanxgames/shell"
	"github.com/phanxgames/shell/genie"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for shell interaction events.
// Subscribe to this in your ECS systems to receive pointer and click events.
var InteractionEventType = events.NewEventType[shell.InteractionEvent]()

// GenieEventType is the Donburi event type for genie lifecycle events.
var GenieEventType = events.NewEventType[genie.Event]()

// DonburiStore publishes shell interaction events and genie lifecycle events
// into a Donburi world. It implements shell.EntityStore and genie.EventSink.
type DonburiStore struct {
	world donburi.World
}

// NewDonburiStore creates a store backed by a Donburi world. Events are
// queued and delivered by events.ProcessAllEvents or ProcessEvents on the
// matching event type.
func NewDonburiStore(world donburi.World) *DonburiStore {
	return &DonburiStore{world: world}
}

// EmitEvent implements shell.EntityStore.
func (s *DonburiStore) EmitEvent(event shell.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}

// GenieEvent implements genie.EventSink.
func (s *DonburiStore) GenieEvent(event genie.Event) {
	GenieEventType.Publish(s.world, event)
}

var (
	_ shell.EntityStore = (*DonburiStore)(nil)
	_ genie.EventSink   = (*DonburiStore)(nil)
)
