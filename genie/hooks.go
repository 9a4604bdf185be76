package genie

import "github.com/phanxgames/shell"

// Hooks is the surface a window manager uses. It owns the visibility of
// the real windows around an animation: an expanding window stays hidden
// until its completion fires, and a collapsing window is hidden as soon as
// its snapshot covers it and stays hidden.
type Hooks struct {
	ctrl *Controller
}

// NewHooks wraps ctrl.
func NewHooks(ctrl *Controller) *Hooks {
	return &Hooks{ctrl: ctrl}
}

// Controller returns the wrapped controller.
func (h *Hooks) Controller() *Controller {
	return h.ctrl
}

// GenieExpand animates target out of source and shows target when done.
// opts.OnComplete runs after target is visible again.
func (h *Hooks) GenieExpand(source, target *shell.Node, opts Options) *Completion {
	user := opts.OnComplete
	opts.OnComplete = nil
	if target != nil {
		target.Visible = false
	}
	comp := h.ctrl.start(Expand, target, source, opts, nil).completion
	comp.OnComplete(func(Result) {
		if target != nil && !target.IsDisposed() {
			target.Visible = true
		}
	})
	comp.OnComplete(user)
	return comp
}

// GenieCollapse animates source into target. source is hidden once the
// overlay is in place, and at the latest when the completion fires.
func (h *Hooks) GenieCollapse(source, target *shell.Node, opts Options) *Completion {
	user := opts.OnComplete
	opts.OnComplete = nil
	hide := func() {
		if source != nil && !source.IsDisposed() {
			source.Visible = false
		}
	}
	comp := h.ctrl.start(Collapse, source, target, opts, func(*Snapshot) { hide() }).completion
	comp.OnComplete(func(Result) { hide() })
	comp.OnComplete(user)
	return comp
}

// Cleanup removes every overlay. Call it when the window manager is torn
// down.
func (h *Hooks) Cleanup() {
	h.ctrl.Cleanup()
}
