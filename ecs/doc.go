// Package ecs provides ECS adapters for shell's interaction and genie
// lifecycle events.
//
// The adapter is [NewDonburiStore], which bridges shell interaction events
// (pointer, click) and genie animation events into a [Donburi] world as
// typed events. Subscribe to [InteractionEventType] or [GenieEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//	ctrl := genie.NewController(scene, genie.Config{Sink: store})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
