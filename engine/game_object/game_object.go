package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
)

// objectCount is an atomic counter used to hand out unique object IDs.
var objectCount atomic.Uint64

// Drawable is the hook an external renderer attaches to a node. Scene traversal
// calls Draw with the node's world matrix.
type Drawable interface {
	// Draw renders the node.
	//
	// Parameters:
	//   - world: the node's world matrix (parent world * local)
	Draw(world mgl32.Mat4)
}

// DrawableFunc adapts a plain function to the Drawable interface.
type DrawableFunc func(world mgl32.Mat4)

// Draw calls f(world).
func (f DrawableFunc) Draw(world mgl32.Mat4) {
	f(world)
}

type gameObject struct {
	mu *sync.RWMutex

	id       uint64
	name     string
	enabled  atomic.Bool
	color    mgl32.Vec4
	drawable Drawable

	transform transform.Transform
	children  []GameObject
}

// GameObject is a node in the scene graph: a named local transform, an optional
// Drawable and an ordered list of children positioned relative to it.
//
// Nodes hold no parent pointer; the graph is only ever walked top-down. Transform
// returns the node's live transform and is not synchronized: it belongs to whoever
// is animating the node (normally a single Animator per frame).
type GameObject interface {
	// ID returns the object's unique identifier. It is allocated at construction
	// and never changes.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Name returns the object's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the object's name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Enabled returns whether this object and its subtree are walked.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this object and its subtree are walked.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Color returns the RGBA tint handed to renderers.
	//
	// Returns:
	//   - mgl32.Vec4: the color
	Color() mgl32.Vec4

	// SetColor sets the RGBA tint handed to renderers.
	//
	// Parameters:
	//   - c: the color
	SetColor(c mgl32.Vec4)

	// Transform returns the node's live local transform.
	//
	// Returns:
	//   - *transform.Transform: the transform
	Transform() *transform.Transform

	// Drawable returns the attached Drawable, or nil.
	//
	// Returns:
	//   - Drawable: the drawable or nil
	Drawable() Drawable

	// SetDrawable attaches a Drawable. Pass nil to detach.
	//
	// Parameters:
	//   - d: the drawable
	SetDrawable(d Drawable)

	// Children returns a copy of the node's children in attach order.
	//
	// Returns:
	//   - []GameObject: the children
	Children() []GameObject

	// Attach appends child to this node's children. Nil children and the node
	// itself are ignored.
	//
	// Parameters:
	//   - child: the node to attach
	Attach(child GameObject)

	// Detach removes child from this node's direct children.
	//
	// Parameters:
	//   - child: the node to detach
	//
	// Returns:
	//   - bool: true if child was attached
	Detach(child GameObject) bool

	// Find searches this subtree depth-first for a node with the given name.
	//
	// Parameters:
	//   - name: the name to look for
	//
	// Returns:
	//   - GameObject: the first match, or nil
	Find(name string) GameObject
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
// The object starts enabled with an identity transform, a white color and a
// freshly allocated ID.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:        &sync.RWMutex{},
		id:        objectCount.Add(1),
		color:     mgl32.Vec4{1, 1, 1, 1},
		transform: transform.Identity(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.name
}

func (g *gameObject) SetName(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.name = name
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Color() mgl32.Vec4 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.color
}

func (g *gameObject) SetColor(c mgl32.Vec4) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.color = c
}

func (g *gameObject) Transform() *transform.Transform {
	return &g.transform
}

func (g *gameObject) Drawable() Drawable {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.drawable
}

func (g *gameObject) SetDrawable(d Drawable) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drawable = d
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	copy(out, g.children)
	return out
}

func (g *gameObject) Attach(child GameObject) {
	if child == nil {
		return
	}
	if c, ok := child.(*gameObject); ok && c == g {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.children = append(g.children, child)
}

func (g *gameObject) Detach(child GameObject) bool {
	if child == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, c := range g.children {
		if c == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return true
		}
	}
	return false
}

func (g *gameObject) Find(name string) GameObject {
	if g.Name() == name {
		return g
	}
	for _, c := range g.Children() {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}
