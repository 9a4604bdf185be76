package genie

import (
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/phanxgames/shell"
)

// cleanupResweep is the delay before Cleanup sweeps a second time, catching
// overlays attached by captures that were already in flight.
const cleanupResweep = 50 * time.Millisecond

// Phase is the lifecycle state of one animation.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseCapturing
	Phase1
	Phase2
	PhaseCleaningUp
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseCapturing:
		return "capturing"
	case Phase1:
		return "phase1"
	case Phase2:
		return "phase2"
	case PhaseCleaningUp:
		return "cleaning-up"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Config holds the collaborators of a Controller. Zero fields use the
// scene's rasterizer and the system clock.
type Config struct {
	Rasterizer Rasterizer
	Clock      Clock
	Sink       EventSink
}

// Controller runs genie animations on a scene. It tracks the most recently
// started animation; earlier ones keep running independently until they
// finish or time out. All methods must be called from the scene's update
// goroutine.
type Controller struct {
	scene    *shell.Scene
	capturer *Capturer
	clock    Clock
	sink     EventSink
	handle   shell.UpdateHandle

	current *Instance
	active  []*Instance
	timers  []timer
	nextID  uint64
	closed  bool
}

// NewController returns a Controller driven by scene's update loop.
func NewController(scene *shell.Scene, cfg Config) *Controller {
	c := &Controller{
		scene: scene,
		clock: cfg.Clock,
		sink:  cfg.Sink,
	}
	if c.clock == nil {
		c.clock = SystemClock
	}
	if scene != nil {
		c.capturer = NewCapturer(scene, cfg.Rasterizer)
		c.handle = scene.OnUpdate(c.tick)
	}
	return c
}

// Close detaches the controller from the scene's update loop. Animations
// still running are torn down and complete as Failed with ErrClosed, and
// later Expand and Collapse calls complete the same way.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.handle.Remove()
	c.timers = nil
	for _, inst := range slices.Clone(c.active) {
		inst.finish(Failed, ErrClosed)
	}
	c.active = nil
	c.current = nil
}

// Current returns the most recently started animation, or nil after Cleanup.
func (c *Controller) Current() *Instance {
	return c.current
}

// Active returns the number of animations that have not completed.
func (c *Controller) Active() int {
	return len(c.active)
}

// Expand grows targetWindow out of source, typically a dock item.
func (c *Controller) Expand(source, targetWindow *shell.Node, opts Options) *Completion {
	return c.start(Expand, targetWindow, source, opts, nil).completion
}

// Collapse shrinks sourceWindow into target, typically a dock item.
func (c *Controller) Collapse(sourceWindow, target *shell.Node, opts Options) *Completion {
	return c.start(Collapse, sourceWindow, target, opts, nil).completion
}

// Cleanup removes every genie overlay and capture clone now and again
// after a short delay, and forgets the current animation. It never fires
// completions: unfinished animations complete at their deadline.
func (c *Controller) Cleanup() {
	if c.scene == nil {
		return
	}
	removed := c.sweepAll()
	c.after(cleanupResweep, func() {
		if n := c.sweepAll(); n > 0 {
			logger().Debug().Int("removed", n).Msg("cleanup resweep removed stragglers")
		}
	})
	for _, inst := range c.active {
		inst.cancel()
	}
	c.current = nil
	if removed > 0 {
		logger().Debug().Int("removed", removed).Msg("cleanup")
	}
}

func (c *Controller) sweepAll() int {
	return c.scene.Sweep(ClassOverlay) + c.scene.Sweep(ClassCaptureClone)
}

// after schedules fn to run on the first frame at or past d from now.
func (c *Controller) after(d time.Duration, fn func()) {
	c.timers = append(c.timers, timer{at: c.clock.Now().Add(d), fn: fn})
}

// tick runs due timers and advances running animations.
func (c *Controller) tick(dt float64) {
	now := c.clock.Now()
	var due []func()
	c.timers = slices.DeleteFunc(c.timers, func(t timer) bool {
		if now.Before(t.at) {
			return false
		}
		due = append(due, t.fn)
		return true
	})
	for _, fn := range due {
		fn()
	}

	running := slices.Clone(c.active)
	for _, inst := range running {
		inst.advance(float32(dt))
	}
	c.active = slices.DeleteFunc(c.active, func(inst *Instance) bool {
		return inst.completion.Completed() && inst.phase == PhaseDone
	})
}

func (c *Controller) emit(e Event) {
	if c.sink != nil {
		c.sink.GenieEvent(e)
	}
}

// notify is emit for paths that must run to the end: cancellation,
// deadlines and completion. A sink panic is logged and dropped.
func (c *Controller) notify(e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger().Error().Interface("panic", r).Stringer("event", e.Type).
				Uint64("instance", e.Instance).Msg("event sink panicked")
		}
	}()
	c.emit(e)
}

// start creates and tracks a new instance and begins its capture.
func (c *Controller) start(mode Mode, window, anchor *shell.Node, opts Options, onReady func(*Snapshot)) *Instance {
	c.nextID++
	inst := &Instance{
		id:         c.nextID,
		mode:       mode,
		ctrl:       c,
		window:     window,
		anchor:     anchor,
		opts:       opts.normalized(),
		completion: newCompletion(),
		onReady:    onReady,
	}
	inst.log = logger().With().Uint64("instance", inst.id).Stringer("mode", mode).Logger()
	if opts.OnComplete != nil {
		inst.completion.OnComplete(opts.OnComplete)
	}
	c.current = inst
	c.emit(inst.event(EventStarted))

	if c.scene == nil {
		inst.finish(Failed, ErrNoScene)
		return inst
	}
	if c.closed {
		inst.finish(Failed, ErrClosed)
		return inst
	}
	c.active = append(c.active, inst)
	c.after(inst.opts.Timeout, inst.deadline)

	defer inst.recover("start")
	if _, _, err := inst.measure(); err != nil {
		inst.finish(Skipped, err)
		return inst
	}
	inst.setPhase(PhaseCapturing)
	c.capturer.Capture(window, inst.captured)
	return inst
}

// Instance is one expand or collapse.
type Instance struct {
	id     uint64
	mode   Mode
	ctrl   *Controller
	window *shell.Node
	anchor *shell.Node
	opts   Options
	log    zerolog.Logger

	phase      Phase
	plan       *Plan
	snap       *Snapshot
	overlay    *overlay
	completion *Completion
	cancelled  bool
	onReady    func(*Snapshot)
}

// ID returns the instance number, unique per controller.
func (i *Instance) ID() uint64 { return i.id }

// Mode returns whether the instance expands or collapses.
func (i *Instance) Mode() Mode { return i.mode }

// Phase returns the current lifecycle state.
func (i *Instance) Phase() Phase { return i.phase }

// Plan returns the slice plan, or nil before the snapshot is ready.
func (i *Instance) Plan() *Plan { return i.plan }

// Snapshot returns the captured snapshot, or nil before it is ready and
// after the instance finishes.
func (i *Instance) Snapshot() *Snapshot { return i.snap }

// Completion returns the instance's completion signal.
func (i *Instance) Completion() *Completion { return i.completion }

// Cancelled reports whether Cleanup was called while the instance ran.
func (i *Instance) Cancelled() bool { return i.cancelled }

// measure reads both rectangles fresh.
func (i *Instance) measure() (window, anchor Rect, err error) {
	root := i.ctrl.scene.Root()
	for _, n := range []*shell.Node{i.window, i.anchor} {
		if n == nil || !n.Attached(root) {
			return window, anchor, ErrDetached
		}
	}
	window = Measure(i.ctrl.scene, i.window)
	anchor = Measure(i.ctrl.scene, i.anchor)
	if window.Empty() || anchor.Empty() {
		return window, anchor, ErrEmptyRect
	}
	return window, anchor, nil
}

// captured receives the snapshot and builds the overlay.
func (i *Instance) captured(snap *Snapshot) {
	if i.phase != PhaseCapturing || i.cancelled {
		snap.Dispose()
		return
	}
	i.snap = snap
	defer i.recover("overlay setup")

	window, anchor, err := i.measure()
	if err != nil {
		i.finish(Skipped, err)
		return
	}
	dir := SelectDirection(anchor, window, i.opts.Quantum, i.opts.Directions)
	i.plan = NewPlan(PlanInput{
		Window:    window,
		Anchor:    anchor,
		Quantum:   i.opts.Quantum,
		Direction: dir,
		Mode:      i.mode,
	})
	if i.plan.Clamped {
		i.log.Warn().Float64("path", i.plan.Path).Stringer("direction", dir).
			Msg("travel path not positive, slice count clamped")
	}
	i.overlay = newOverlay(i.plan, snap, ClassOverlay, InstanceClass(i.id))
	i.ctrl.scene.Root().AddChild(i.overlay.container)

	e := i.event(EventCaptured)
	e.Fallback = snap.Fallback()
	i.ctrl.emit(e)
	i.log.Debug().Stringer("direction", dir).Int("slices", i.plan.Count).
		Bool("fallback", snap.Fallback()).Msg("overlay attached")

	if i.onReady != nil {
		i.onReady(snap)
	}
	i.startPhase(Phase1)
}

func (i *Instance) startPhase(p Phase) {
	kf := i.plan.Keyframes()
	to := kf[1]
	if p == Phase2 {
		i.overlay.finishAll()
		to = kf[2]
	}
	i.overlay.animate(i.plan, to, float32(i.opts.Duration.Seconds()), i.opts.Stagger.Seconds(), i.opts.easeFunc())
	i.setPhase(p)
}

// advance steps the running phase and moves on when the terminal slice's
// transition ends.
func (i *Instance) advance(dt float32) {
	if i.phase != Phase1 && i.phase != Phase2 {
		return
	}
	defer i.recover("advance")
	i.overlay.update(dt)
	if !i.overlay.ended(i.plan.TerminalSlice(), i.ctrl.scene.Root()) {
		return
	}
	if i.phase == Phase1 {
		i.startPhase(Phase2)
		return
	}
	i.setPhase(PhaseCleaningUp)
	i.finish(Finished, nil)
}

// deadline runs when the timeout expires, whether or not the instance
// already finished.
func (i *Instance) deadline() {
	if n := i.ctrl.scene.Sweep(InstanceClass(i.id)); n > 0 {
		e := i.event(EventSwept)
		e.Removed = n
		i.ctrl.notify(e)
		i.log.Debug().Int("removed", n).Msg("deadline sweep removed overlay")
	}
	if i.completion.Completed() {
		return
	}
	i.log.Warn().Stringer("phase", i.phase).Dur("timeout", i.opts.Timeout).
		Msg("animation did not finish before deadline")
	i.finish(TimedOut, nil)
}

// cancel stops the instance's overlay after Cleanup swept it. The
// completion is left for the deadline.
func (i *Instance) cancel() {
	if i.phase == PhaseDone || i.cancelled {
		return
	}
	i.cancelled = true
	i.releaseNodes()
	if i.phase != PhaseCleaningUp {
		i.phase = PhaseCleaningUp
		e := i.event(EventPhase)
		e.Phase = PhaseCleaningUp
		i.ctrl.notify(e)
	}
	i.ctrl.notify(i.event(EventCancelled))
}

// finish tears the instance down and fires its completion once.
func (i *Instance) finish(o Outcome, err error) {
	i.releaseNodes()
	i.phase = PhaseDone
	if !i.completion.complete(Result{Instance: i.id, Outcome: o, Err: err}) {
		return
	}
	switch o {
	case Failed:
		i.log.Error().Err(err).Msg("animation failed, completing")
	case Skipped:
		i.log.Debug().Err(err).Msg("animation skipped")
	default:
		i.log.Debug().Stringer("outcome", o).Msg("animation complete")
	}
	e := i.event(EventCompleted)
	e.Outcome = o
	i.ctrl.notify(e)
}

func (i *Instance) releaseNodes() {
	if i.overlay != nil {
		i.overlay.dispose()
		i.overlay = nil
	}
	if i.snap != nil {
		i.snap.Dispose()
		i.snap = nil
	}
}

// recover turns a panic in step into an immediate failed completion.
func (i *Instance) recover(step string) {
	if r := recover(); r != nil {
		i.finish(Failed, fmt.Errorf("genie: %s: %v", step, r))
	}
}

func (i *Instance) setPhase(p Phase) {
	if i.phase == p {
		return
	}
	i.phase = p
	e := i.event(EventPhase)
	e.Phase = p
	i.ctrl.emit(e)
}

func (i *Instance) event(t EventType) Event {
	e := Event{Type: t, Instance: i.id, Mode: i.mode, Phase: i.phase}
	if i.plan != nil {
		e.Direction = i.plan.Direction
		e.Slices = i.plan.Count
	}
	return e
}
