// Package genie implements the genie minimize and restore effect for a
// shell scene: a window is captured to a bitmap, cut into thin slices along
// the axis between the window and its dock anchor, and the slices are
// animated through a sine-shaped funnel into (or out of) the anchor.
//
// The pieces can be used separately. [Measure] reads page rectangles,
// [SelectDirection] picks the axis, [NewPlan] computes slice geometry and
// [Capturer] produces snapshots. [Controller] ties them together and
// guarantees that every animation completes exactly once, and [Hooks] is
// the small surface a window manager calls.
//
//	ctrl := genie.NewController(scene, genie.Config{})
//	hooks := genie.NewHooks(ctrl)
//	done := hooks.GenieCollapse(window, dockIcon, genie.DefaultOptions())
//	done.OnComplete(func(r genie.Result) {
//		shell.Logger().Info().Stringer("outcome", r.Outcome).Msg("minimized")
//	})
package genie
