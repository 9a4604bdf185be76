package shell

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// HitShape is used for custom hit testing regions.
type HitShape interface {
	Contains(x, y float64) bool
}

// PointerContext carries pointer event data.
type PointerContext struct {
	Node      *Node
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
}

// ClickContext carries click event data.
type ClickContext struct {
	Node      *Node
	EntityID  uint32
	UserData  any
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
}

// nodeIDCounter is a plain counter (no atomic, the scene graph is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Background draws an image inside a box the way a CSS background does: the
// image is scaled to Width x Height, placed at (OffsetX, OffsetY) relative to
// the box origin, and clipped to the box.
type Background struct {
	Image *ebiten.Image
	// OffsetX and OffsetY position the scaled image's top-left corner.
	OffsetX, OffsetY float64
	// Width and Height are the scaled image size. Zero uses the image size.
	Width, Height float64
}

// size returns the effective scaled size of the background image.
func (b *Background) size() (float64, float64) {
	w, h := b.Width, b.Height
	if b.Image != nil {
		bounds := b.Image.Bounds()
		if w == 0 {
			w = float64(bounds.Dx())
		}
		if h == 0 {
			h = float64(bounds.Dy())
		}
	}
	return w, h
}

// Node is the fundamental scene graph element: a box with a local position
// and size. A single flat struct is used for all node types.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType
	// Role names the semantic purpose of a node (e.g. "traffic-light-close",
	// "lock-icon"). Snapshot patching keys off roles.
	Role    string
	classes []string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Box (local)
	X, Y          float64
	Width, Height float64
	ScaleX        float64
	ScaleY        float64
	PivotX        float64
	PivotY        float64

	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Renderable   bool
	Interactable bool
	// Fixed nodes are positioned relative to the viewport and do not move
	// when the scene scrolls.
	Fixed bool

	// Ordering
	ZIndex int

	// Metadata
	UserData any
	EntityID uint32

	// Visuals. Color fills the box; Image is stretched over the box;
	// Background is drawn with CSS background semantics.
	Color      Color
	Image      *ebiten.Image
	Background *Background

	// Hit testing
	HitShape HitShape

	// Per-node callbacks (nil by default; zero cost when unused)
	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnClick        func(ClickContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorTransparent
	n.Visible = true
	n.Renderable = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewBox creates a solid color box of the given size.
func NewBox(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeBox, Width: w, Height: h}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewImageBox creates a box that stretches img over its bounds. A nil img
// leaves the box transparent until an image is assigned.
func NewImageBox(name string, w, h float64, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeBox, Width: w, Height: h, Image: img}
	nodeDefaults(n)
	n.Color = ColorWhite
	return n
}

// NewIcon creates an icon node identified by role. Icons are drawn from Image
// when set, otherwise from Color.
func NewIcon(name, role string, size float64, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeIcon, Role: role, Width: size, Height: size, Image: img}
	nodeDefaults(n)
	n.Color = ColorWhite
	return n
}

// SetSize sets the node's box size and marks it dirty.
func (n *Node) SetSize(w, h float64) {
	n.Width = w
	n.Height = h
	n.transformDirty = true
}

// --- Classes ---

// AddClass adds one or more class names. Duplicates are ignored.
func (n *Node) AddClass(names ...string) {
	for _, name := range names {
		if name != "" && !slices.Contains(n.classes, name) {
			n.classes = append(n.classes, name)
		}
	}
}

// RemoveClass removes a class name if present.
func (n *Node) RemoveClass(name string) {
	if i := slices.Index(n.classes, name); i >= 0 {
		n.classes = slices.Delete(n.classes, i, i+1)
	}
}

// HasClass reports whether the node carries the class name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

// Classes returns the node's class names. The returned slice MUST NOT be mutated.
func (n *Node) Classes() []string {
	return n.classes
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("shell: cannot add nil child")
	}
	if debugEnabled {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("shell: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	if debugEnabled {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("shell: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("shell: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	if index < 0 || index > len(n.children) {
		panic("shell: child index out of range")
	}
	child.Parent = n
	n.children = slices.Insert(n.children, index, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("shell: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
	}
	clear(n.children)
	n.children = n.children[:0]
	n.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// Attached reports whether the node is reachable from root by walking parents.
func (n *Node) Attached(root *Node) bool {
	if n == nil || n.disposed {
		return false
	}
	return isAncestor(root, n)
}

// Walk visits n and its descendants depth-first in child order. Returning
// false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// --- Cloning ---

// Clone returns a deep copy of the subtree rooted at n. The copy has fresh
// IDs, no parent, and no event callbacks. Images are shared, not copied.
func (n *Node) Clone() *Node {
	c := &Node{
		ID:           nextNodeID(),
		Name:         n.Name,
		Type:         n.Type,
		Role:         n.Role,
		classes:      slices.Clone(n.classes),
		X:            n.X,
		Y:            n.Y,
		Width:        n.Width,
		Height:       n.Height,
		ScaleX:       n.ScaleX,
		ScaleY:       n.ScaleY,
		PivotX:       n.PivotX,
		PivotY:       n.PivotY,
		Alpha:        n.Alpha,
		Visible:      n.Visible,
		Renderable:   n.Renderable,
		Interactable: n.Interactable,
		Fixed:        n.Fixed,
		ZIndex:       n.ZIndex,
		UserData:     n.UserData,
		Color:        n.Color,
		Image:        n.Image,
		HitShape:     n.HitShape,

		transformDirty: true,
		childrenSorted: false,
	}
	if n.Background != nil {
		bg := *n.Background
		c.Background = &bg
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, 0, len(n.children))
		for _, child := range n.children {
			cc := child.Clone()
			cc.Parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.Image = nil
	n.Background = nil
	n.UserData = nil
	n.OnPointerDown = nil
	n.OnPointerUp = nil
	n.OnClick = nil
	n.OnPointerEnter = nil
	n.OnPointerLeave = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is node or an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
