package scene

import (
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
)

// Pose is the evaluated placement of a single node.
type Pose struct {
	ID       uint64     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	ParentID uint64     `json:"parent" yaml:"parent"`
	Depth    int        `json:"depth" yaml:"depth"`
	Color    mgl32.Vec4 `json:"color" yaml:"color,flow"`
	Local    mgl32.Mat4 `json:"local" yaml:"local,flow"`
	World    mgl32.Mat4 `json:"world" yaml:"world,flow"`
}

// VisitFunc is called for every enabled node during a walk with its world matrix,
// its parent (nil for the root) and its depth below the root.
type VisitFunc func(node, parent game_object.GameObject, world mgl32.Mat4, depth int)

// Walk visits root and its enabled descendants depth-first, parents before
// children, children in attach order. Each node's world matrix is its parent's
// world matrix times its own local matrix. Disabled nodes are skipped together
// with their subtrees.
//
// Parameters:
//   - root: the subtree to walk (nil is a no-op)
//   - visit: called once per visited node
func Walk(root game_object.GameObject, visit VisitFunc) {
	WalkFrom(mgl32.Ident4(), root, visit)
}

// WalkFrom is Walk with an explicit matrix that root is placed relative to.
//
// Parameters:
//   - base: the matrix the root is relative to
//   - root: the subtree to walk (nil is a no-op)
//   - visit: called once per visited node
func WalkFrom(base mgl32.Mat4, root game_object.GameObject, visit VisitFunc) {
	if root == nil || visit == nil {
		return
	}
	walk(NewMatrixStack(base), root, nil, visit)
}

func walk(stack *MatrixStack, node, parent game_object.GameObject, visit VisitFunc) {
	if !node.Enabled() {
		return
	}
	world := stack.Push(node.Transform().Matrix())
	visit(node, parent, world, stack.Depth()-1)
	for _, child := range node.Children() {
		walk(stack, child, node, visit)
	}
	stack.Pop()
}

// Render walks root and calls each node's Drawable with its world matrix.
// Nodes without a Drawable are still traversed.
//
// Parameters:
//   - root: the subtree to render
func Render(root game_object.GameObject) {
	Walk(root, func(node, _ game_object.GameObject, world mgl32.Mat4, _ int) {
		if d := node.Drawable(); d != nil {
			d.Draw(world)
		}
	})
}

// Poses flattens root into a list of poses in walk order.
//
// Parameters:
//   - root: the subtree to evaluate
//
// Returns:
//   - []Pose: one pose per enabled node
func Poses(root game_object.GameObject) []Pose {
	var out []Pose
	Walk(root, func(node, parent game_object.GameObject, world mgl32.Mat4, depth int) {
		p := Pose{
			ID:    node.ID(),
			Name:  node.Name(),
			Depth: depth,
			Color: node.Color(),
			Local: node.Transform().Matrix(),
			World: world,
		}
		if parent != nil {
			p.ParentID = parent.ID()
		}
		out = append(out, p)
	})
	return out
}

// WorldMatrix returns the world matrix of target by walking down from root.
//
// Parameters:
//   - root: the subtree containing target
//   - target: the node to locate
//
// Returns:
//   - mgl32.Mat4: target's world matrix
//   - bool: false if target is not reachable from root through enabled nodes
func WorldMatrix(root, target game_object.GameObject) (mgl32.Mat4, bool) {
	var (
		found bool
		out   mgl32.Mat4
	)
	Walk(root, func(node, _ game_object.GameObject, world mgl32.Mat4, _ int) {
		if !found && node == target {
			out, found = world, true
		}
	})
	return out, found
}
