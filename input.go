package shell

import (
	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 1 // pointer 0 = mouse

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in local coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Per-pointer state ---

type pointerState struct {
	down      bool
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	button    MouseButton
}

// --- Handler registry ---

type pointerHandler struct {
	id uint32
	fn func(PointerContext)
}

type clickHandler struct {
	id uint32
	fn func(ClickContext)
}

type handlerRegistry struct {
	pointerDown []pointerHandler
	pointerUp   []pointerHandler
	click       []clickHandler
	nextID      uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventPointerDown:
		h.reg.pointerDown = removeHandler(h.reg.pointerDown, func(p pointerHandler) bool { return p.id == h.id })
	case EventPointerUp:
		h.reg.pointerUp = removeHandler(h.reg.pointerUp, func(p pointerHandler) bool { return p.id == h.id })
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, func(c clickHandler) bool { return c.id == h.id })
	}
}

func removeHandler[T any](s []T, match func(T) bool) []T {
	for i := range s {
		if match(s[i]) {
			copy(s[i:], s[i+1:])
			var zero T
			s[len(s)-1] = zero
			return s[:len(s)-1]
		}
	}
	return s
}

// OnPointerDown registers a scene-level callback fired on every press.
func (s *Scene) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.pointerDown = append(s.handlers.pointerDown, pointerHandler{id: s.handlers.nextID, fn: fn})
	return CallbackHandle{id: s.handlers.nextID, reg: &s.handlers, event: EventPointerDown}
}

// OnPointerUp registers a scene-level callback fired on every release.
func (s *Scene) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.pointerUp = append(s.handlers.pointerUp, pointerHandler{id: s.handlers.nextID, fn: fn})
	return CallbackHandle{id: s.handlers.nextID, reg: &s.handlers, event: EventPointerUp}
}

// OnClick registers a scene-level callback fired on every click.
func (s *Scene) OnClick(fn func(ClickContext)) CallbackHandle {
	s.handlers.nextID++
	s.handlers.click = append(s.handlers.click, clickHandler{id: s.handlers.nextID, fn: fn})
	return CallbackHandle{id: s.handlers.nextID, reg: &s.handlers, event: EventClick}
}

// --- Hit testing ---

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region.
// Uses HitShape if set; otherwise the node's box. Containers with no
// HitShape are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Type == NodeTypeContainer || n.Width <= 0 || n.Height <= 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// collectInteractable walks the tree in painter order (DFS, ZIndex-sorted),
// appending interactable nodes to buf. Skips Visible=false or
// Interactable=false subtrees.
func (s *Scene) collectInteractable(n *Node, buf []*Node) []*Node {
	if !n.Visible || !n.Interactable {
		return buf
	}
	if n.HitShape != nil || n.Type != NodeTypeContainer {
		buf = append(buf, n)
	}
	if len(n.children) == 0 {
		return buf
	}
	children := n.children
	if !n.childrenSorted {
		s.rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		buf = s.collectInteractable(child, buf)
	}
	return buf
}

// hitTest finds the topmost interactable node at viewport point (vx, vy).
// Returns nil if nothing is hit.
func (s *Scene) hitTest(vx, vy float64) *Node {
	s.hitBuf = s.collectInteractable(s.root, s.hitBuf[:0])
	px, py := s.camera.ViewportToPage(vx, vy)

	for i := len(s.hitBuf) - 1; i >= 0; i-- {
		n := s.hitBuf[i]
		wx, wy := px, py
		if isFixed(n) {
			wx, wy = vx, vy
		}
		lx, ly := n.WorldToLocal(wx, wy)
		if nodeContainsLocal(n, lx, ly) {
			return n
		}
	}
	return nil
}

// --- Input processing ---

// processInput handles injected input first; real mouse input is read only
// when no injected event was consumed this frame.
func (s *Scene) processInput() {
	if s.processInjectedInput() {
		return
	}
	if !s.inputEnabled {
		return
	}
	mx, my := ebiten.CursorPosition()
	var pressed bool
	var button MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, MouseButtonMiddle
	}
	s.processPointer(0, float64(mx), float64(my), pressed, button)
}

// processPointer runs the pointer state machine for a single pointer at
// viewport coordinates (vx, vy).
func (s *Scene) processPointer(pointerID int, vx, vy float64, pressed bool, button MouseButton) {
	ps := &s.pointers[pointerID]

	var target *Node
	if s.captured[pointerID] != nil {
		target = s.captured[pointerID]
	} else {
		target = s.hitTest(vx, vy)
	}

	if target != ps.hoverNode {
		if ps.hoverNode != nil && ps.hoverNode.OnPointerLeave != nil {
			ps.hoverNode.OnPointerLeave(s.pointerContext(ps.hoverNode, pointerID, vx, vy, button))
		}
		if target != nil && target.OnPointerEnter != nil {
			target.OnPointerEnter(s.pointerContext(target, pointerID, vx, vy, button))
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.hitNode = target
		ctx := s.pointerContext(target, pointerID, vx, vy, button)
		for _, h := range s.handlers.pointerDown {
			h.fn(ctx)
		}
		if target != nil && target.OnPointerDown != nil {
			target.OnPointerDown(ctx)
		}
		s.emitInteractionEvent(EventPointerDown, ctx)
	case !pressed && ps.down:
		ctx := s.pointerContext(target, pointerID, vx, vy, ps.button)
		if ps.hitNode != nil && ps.hitNode == target {
			cc := ClickContext(ctx)
			for _, h := range s.handlers.click {
				h.fn(cc)
			}
			if target.OnClick != nil {
				target.OnClick(cc)
			}
			s.emitInteractionEvent(EventClick, ctx)
		}
		for _, h := range s.handlers.pointerUp {
			h.fn(ctx)
		}
		if target != nil && target.OnPointerUp != nil {
			target.OnPointerUp(ctx)
		}
		s.emitInteractionEvent(EventPointerUp, ctx)
		s.captured[pointerID] = nil
		ps.down = false
		ps.hitNode = nil
	}
	ps.lastX, ps.lastY = vx, vy
}

// CapturePointer routes all events for pointerID to node until release.
func (s *Scene) CapturePointer(pointerID int, node *Node) {
	if pointerID >= 0 && pointerID < maxPointers {
		s.captured[pointerID] = node
	}
}

// pointerContext builds the callback context for node at viewport (vx, vy).
func (s *Scene) pointerContext(node *Node, pointerID int, vx, vy float64, button MouseButton) PointerContext {
	gx, gy := s.camera.ViewportToPage(vx, vy)
	ctx := PointerContext{
		GlobalX: gx, GlobalY: gy,
		Button: button, PointerID: pointerID,
	}
	if node != nil {
		if isFixed(node) {
			ctx.LocalX, ctx.LocalY = node.WorldToLocal(vx, vy)
		} else {
			ctx.LocalX, ctx.LocalY = node.WorldToLocal(gx, gy)
		}
		ctx.Node = node
		ctx.EntityID = node.EntityID
		ctx.UserData = node.UserData
	}
	return ctx
}
