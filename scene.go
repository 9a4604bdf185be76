package shell

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventType
	EntityID uint32
	GlobalX  float64
	GlobalY  float64
	LocalX   float64
	LocalY   float64
	Button   MouseButton
}

// UpdateHandle allows removing a callback registered with Scene.OnUpdate.
type UpdateHandle struct {
	id    uint32
	scene *Scene
}

// Remove unregisters the update callback. Safe to call more than once and
// from inside the callback itself.
func (h UpdateHandle) Remove() {
	if h.scene == nil {
		return
	}
	for i := range h.scene.updaters {
		if h.scene.updaters[i].id == h.id {
			h.scene.updaters[i].fn = nil
			return
		}
	}
}

type updater struct {
	id uint32
	fn func(dt float64)
}

// Scene is the top-level object that owns the node tree, the scroll camera,
// input state, per-frame callbacks and render buffers.
type Scene struct {
	root   *Node
	camera *Camera
	store  EntityStore
	debug  bool

	// ClearColor fills the screen before the tree is drawn. Transparent
	// leaves the screen untouched.
	ClearColor Color
	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string

	updateFunc func() error

	// Frame callbacks: frameQueue collects RequestFrame calls made during
	// the current step; they run at the start of the next step.
	frameQueue []func()
	frameRun   []func()

	updaters      []updater
	nextUpdaterID uint32

	// Render state
	rtPool   renderTexturePool
	drawOp   ebiten.DrawImageOptions
	frameNum uint64

	// Input state
	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	injectQueue  []syntheticPointerEvent
	testRunner   *TestRunner
	inputEnabled bool

	screenshotQueue []string
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		camera:        &Camera{},
		ScreenshotDir: "screenshots",
		inputEnabled:  true,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene's scroll camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Scroll returns the current page scroll offset.
func (s *Scene) Scroll() (x, y float64) {
	return s.camera.X, s.camera.Y
}

// Frame returns the number of completed steps.
func (s *Scene) Frame() uint64 {
	return s.frameNum
}

// SetUpdateFunc registers a callback invoked once per Update after input and
// frame callbacks have run. Returning an error stops Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetInputEnabled toggles reading real mouse input during Update. Injected
// input is always processed.
func (s *Scene) SetInputEnabled(enabled bool) {
	s.inputEnabled = enabled
}

// Update processes input and advances the scene by one tick (1/TPS seconds).
func (s *Scene) Update() error {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.processInput()
	s.Step(1.0 / float64(ebiten.TPS()))
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// Step advances scroll animation, frame callbacks and update callbacks by dt
// seconds without reading input. Update calls Step; tests and headless
// drivers call it directly.
func (s *Scene) Step(dt float64) {
	s.frameNum++
	s.camera.update(float32(dt))

	// Swap queues so callbacks requested while running go to the next step.
	s.frameRun, s.frameQueue = s.frameQueue, s.frameRun[:0]
	for i, fn := range s.frameRun {
		s.frameRun[i] = nil
		fn()
	}
	s.frameRun = s.frameRun[:0]

	for i := 0; i < len(s.updaters); i++ {
		if fn := s.updaters[i].fn; fn != nil {
			fn(dt)
		}
	}
	s.compactUpdaters()
}

// RequestFrame schedules fn to run at the start of the next step, after the
// current frame has been laid out and drawn.
func (s *Scene) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	s.frameQueue = append(s.frameQueue, fn)
}

// PendingFrames returns the number of callbacks waiting for the next step.
func (s *Scene) PendingFrames() int {
	return len(s.frameQueue)
}

// OnUpdate registers fn to be called every step with the elapsed seconds.
func (s *Scene) OnUpdate(fn func(dt float64)) UpdateHandle {
	s.nextUpdaterID++
	s.updaters = append(s.updaters, updater{id: s.nextUpdaterID, fn: fn})
	return UpdateHandle{id: s.nextUpdaterID, scene: s}
}

// compactUpdaters drops removed update callbacks.
func (s *Scene) compactUpdaters() {
	n := 0
	for _, u := range s.updaters {
		if u.fn != nil {
			s.updaters[n] = u
			n++
		}
	}
	clear(s.updaters[n:])
	s.updaters = s.updaters[:n]
}

// Draw clears the screen, refreshes transforms and draws the node tree.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.drawTree(screen)
	s.flushScreenshots(screen)
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// emitInteractionEvent forwards an event to the ECS bridge for nodes that
// carry an EntityID.
func (s *Scene) emitInteractionEvent(eventType EventType, ctx PointerContext) {
	if s.store == nil || ctx.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:     eventType,
		EntityID: ctx.EntityID,
		GlobalX:  ctx.GlobalX,
		GlobalY:  ctx.GlobalY,
		LocalX:   ctx.LocalX,
		LocalY:   ctx.LocalY,
		Button:   ctx.Button,
	})
}

// --- Queries ---

// Query returns every node in the tree carrying the class name, in depth-first order.
func (s *Scene) Query(class string) []*Node {
	var out []*Node
	s.root.Walk(func(n *Node) bool {
		if n.HasClass(class) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Sweep disposes every node carrying the class name and returns how many were
// removed. Matching nodes nested in other matches are disposed with their
// ancestor and counted once.
func (s *Scene) Sweep(class string) int {
	var matches []*Node
	s.root.Walk(func(n *Node) bool {
		if n.HasClass(class) {
			matches = append(matches, n)
			return false
		}
		return true
	})
	for _, n := range matches {
		n.Dispose()
	}
	if s.debug && len(matches) > 0 {
		logger.Debug().Str("class", class).Int("removed", len(matches)).Msg("sweep")
	}
	return len(matches)
}

// ViewportBounds returns the node's box relative to the viewport, computed
// from its ancestors at call time.
func (s *Scene) ViewportBounds(n *Node) Rect {
	r := n.WorldBounds()
	if isFixed(n) {
		return r
	}
	return r.Offset(-s.camera.X, -s.camera.Y)
}

// PageBounds returns the node's box in page coordinates. Fixed nodes are
// shifted by the current scroll so the result is the same wherever the page
// is scrolled.
func (s *Scene) PageBounds(n *Node) Rect {
	r := n.WorldBounds()
	if isFixed(n) {
		return r.Offset(s.camera.X, s.camera.Y)
	}
	return r
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and sweeps
// are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	debugEnabled = enabled
}

// debugEnabled mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var debugEnabled bool
