package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = float32(1e-5)

func TestMatrixStackPushPopRestores(t *testing.T) {
	parent := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.7))
	local := mgl32.Translate3D(0, 1, 0).Mul4(mgl32.Scale3D(2, 2, 2))

	s := NewMatrixStack(mgl32.Ident4())
	s.Push(parent)
	before := s.Top()

	world := s.Push(local)
	assert.True(t, parent.Mul4(local).ApproxEqualThreshold(world, tol))
	assert.Equal(t, 2, s.Depth())

	require.True(t, s.Pop())
	assert.Equal(t, before, s.Top(), "pop restores the parent matrix exactly")

	require.True(t, s.Pop())
	assert.False(t, s.Pop(), "root cannot be popped")
	assert.Equal(t, mgl32.Ident4(), s.Top())
}

func TestMatrixStackReset(t *testing.T) {
	s := NewMatrixStack(mgl32.Translate3D(1, 0, 0))
	s.Push(mgl32.Translate3D(0, 1, 0))
	s.Push(mgl32.Translate3D(0, 0, 1))
	s.Reset()
	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), s.Top())
}

func TestWalkComposesParentAndLocal(t *testing.T) {
	grandchild := game_object.NewGameObject(game_object.WithName("hand"), game_object.WithPosition(0, -1, 0))
	child := game_object.NewGameObject(
		game_object.WithName("arm"),
		game_object.WithPosition(1, 0, 0),
		game_object.WithRotation(0, 0, 0.5),
		game_object.WithChildren(grandchild),
	)
	root := game_object.NewGameObject(
		game_object.WithName("torso"),
		game_object.WithPosition(0, 5, 0),
		game_object.WithScale(2, 2, 2),
		game_object.WithChildren(child),
	)

	worlds := map[string]mgl32.Mat4{}
	depths := map[string]int{}
	var order []string
	Walk(root, func(node, _ game_object.GameObject, world mgl32.Mat4, depth int) {
		worlds[node.Name()] = world
		depths[node.Name()] = depth
		order = append(order, node.Name())
	})

	assert.Equal(t, []string{"torso", "arm", "hand"}, order)
	assert.Equal(t, map[string]int{"torso": 0, "arm": 1, "hand": 2}, depths)

	rootWorld := root.Transform().Matrix()
	childWorld := rootWorld.Mul4(child.Transform().Matrix())
	handWorld := childWorld.Mul4(grandchild.Transform().Matrix())
	assert.True(t, rootWorld.ApproxEqualThreshold(worlds["torso"], tol))
	assert.True(t, childWorld.ApproxEqualThreshold(worlds["arm"], tol))
	assert.True(t, handWorld.ApproxEqualThreshold(worlds["hand"], tol))
}

func TestWalkSkipsDisabledSubtrees(t *testing.T) {
	leaf := game_object.NewGameObject(game_object.WithName("leaf"))
	hidden := game_object.NewGameObject(game_object.WithName("hidden"), game_object.WithEnabled(false), game_object.WithChildren(leaf))
	sibling := game_object.NewGameObject(game_object.WithName("sibling"), game_object.WithPosition(3, 0, 0))
	root := game_object.NewGameObject(game_object.WithName("root"), game_object.WithChildren(hidden, sibling))

	var names []string
	Walk(root, func(node, _ game_object.GameObject, _ mgl32.Mat4, _ int) {
		names = append(names, node.Name())
	})
	assert.Equal(t, []string{"root", "sibling"}, names)
}

func TestWalkNilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Walk(nil, func(game_object.GameObject, game_object.GameObject, mgl32.Mat4, int) {})
		Walk(game_object.NewGameObject(), nil)
	})
}

func TestRenderCallsDrawables(t *testing.T) {
	var drawn []mgl32.Mat4
	draw := game_object.DrawableFunc(func(world mgl32.Mat4) { drawn = append(drawn, world) })

	child := game_object.NewGameObject(game_object.WithPosition(0, 1, 0), game_object.WithDrawable(draw))
	mid := game_object.NewGameObject(game_object.WithPosition(1, 0, 0), game_object.WithChildren(child))
	root := game_object.NewGameObject(game_object.WithDrawable(draw), game_object.WithChildren(mid))

	Render(root)
	require.Len(t, drawn, 2)
	assert.Equal(t, mgl32.Ident4(), drawn[0])
	assert.True(t, mgl32.Translate3D(1, 1, 0).ApproxEqualThreshold(drawn[1], tol))
}

func TestPosesAndWorldMatrix(t *testing.T) {
	child := game_object.NewGameObject(game_object.WithName("c"), game_object.WithPosition(0, 1, 0))
	root := game_object.NewGameObject(game_object.WithName("r"), game_object.WithPosition(2, 0, 0), game_object.WithChildren(child))

	poses := Poses(root)
	require.Len(t, poses, 2)
	assert.Equal(t, root.ID(), poses[1].ParentID)
	assert.Equal(t, uint64(0), poses[0].ParentID)
	assert.True(t, mgl32.Translate3D(2, 1, 0).ApproxEqualThreshold(poses[1].World, tol))
	assert.Equal(t, child.Transform().Matrix(), poses[1].Local)

	world, ok := WorldMatrix(root, child)
	require.True(t, ok)
	assert.Equal(t, poses[1].World, world)

	_, ok = WorldMatrix(root, game_object.NewGameObject())
	assert.False(t, ok)
}
