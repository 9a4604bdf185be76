// Package shell is a retained-mode scene graph for desktop-shell user
// interfaces built on [Ebitengine].
//
// A shell is a tree of boxes: wallpaper, windows with their title bars and
// toolbar icons, and a dock. The package provides that tree, box layout in
// page and viewport coordinates, a scroll camera, pointer input, tweens
// (via [gween]), offscreen rasterization of subtrees, and ECS integration
// (via a [Donburi] adapter in shell/ecs). The genie minimize and restore
// effect lives in the genie subpackage and is built entirely on this API.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := shell.NewScene()
//	// ... add nodes ...
//	shell.Run(scene, shell.RunConfig{
//		Title: "Desktop", Width: 1280, Height: 800,
//	})
//
// For full control, implement [ebiten.Game] yourself and call
// [Scene.Update] and [Scene.Draw] directly.
//
// # Scene graph
//
// Every visual element is a [Node]. Nodes form a tree rooted at
// [Scene.Root]. Children inherit their parent's transform and alpha.
// Nodes carry class names ([Node.AddClass]) and a role ([Node.Role]) so
// that whole groups can be found with [Scene.Query] or removed with
// [Scene.Sweep].
//
//	win := shell.NewBox("finder", 640, 420, shell.Color{R: 0.95, G: 0.95, B: 0.96, A: 1})
//	win.AddClass(shell.ClassWindow)
//	win.X, win.Y = 200, 120
//	scene.Root().AddChild(win)
//
// Boxes may carry a [Background] that is scaled, offset and clipped to the
// box the way a CSS background is. Animating the background alongside the
// box is what lets a strip of a snapshot slide and stretch.
//
// # Frames
//
// [Scene.Step] advances one frame: scroll animation, callbacks queued with
// [Scene.RequestFrame], then callbacks registered with [Scene.OnUpdate].
// [Scene.Update] reads input and calls Step; headless code and tests call
// Step directly with a fixed dt.
//
// # Offscreen rendering
//
// [Scene.Rasterize] renders a subtree into a straight-alpha [image.NRGBA],
// optionally skipping nodes by class with [SkipClass].
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package shell
