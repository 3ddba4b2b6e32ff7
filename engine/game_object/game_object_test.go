package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameObjectDefaults(t *testing.T) {
	a := NewGameObject()
	b := NewGameObject()
	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Enabled())
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, a.Color())
	assert.True(t, mgl32.Ident4().ApproxEqual(a.Transform().Matrix()))
	assert.Nil(t, a.Drawable())
}

func TestBuilderOptions(t *testing.T) {
	obj := NewGameObject(
		WithName("arm"),
		WithPosition(1, 2, 3),
		WithRotation(0, 0.5, 0),
		WithScale(2, 2, 2),
		WithOrder(transform.OrderTRS),
		WithEnabled(false),
		WithColor(1, 0, 0, 1),
	)
	assert.NotZero(t, obj.ID())
	assert.NotEqual(t, obj.ID(), NewGameObject(WithName("arm")).ID())
	assert.Equal(t, "arm", obj.Name())
	assert.False(t, obj.Enabled())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, obj.Transform().Position())
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, obj.Transform().Rotation())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, obj.Transform().ScaleFactors())
	assert.Equal(t, transform.OrderTRS, obj.Transform().Order())
	assert.Equal(t, mgl32.Vec4{1, 0, 0, 1}, obj.Color())
}

func TestAttachIgnoresNilAndSelf(t *testing.T) {
	root := NewGameObject()
	root.Attach(nil)
	root.Attach(root)
	assert.Empty(t, root.Children())

	child := NewGameObject()
	root.Attach(child)
	require.Len(t, root.Children(), 1)
	assert.Equal(t, child, root.Children()[0])
}

func TestDetach(t *testing.T) {
	a, b := NewGameObject(), NewGameObject()
	root := NewGameObject(WithChildren(a, nil, b))
	require.Len(t, root.Children(), 2)

	assert.True(t, root.Detach(a))
	assert.False(t, root.Detach(a))
	assert.False(t, root.Detach(nil))
	assert.Equal(t, []GameObject{b}, root.Children())
}

func TestFind(t *testing.T) {
	hand := NewGameObject(WithName("hand"))
	arm := NewGameObject(WithName("arm"), WithChildren(hand))
	root := NewGameObject(WithName("root"), WithChildren(NewGameObject(WithName("leg")), arm))

	assert.Equal(t, hand, root.Find("hand"))
	assert.Equal(t, root, root.Find("root"))
	assert.Nil(t, root.Find("tail"))
}

func TestDrawableFunc(t *testing.T) {
	var got mgl32.Mat4
	obj := NewGameObject(WithDrawable(DrawableFunc(func(world mgl32.Mat4) { got = world })))
	obj.Drawable().Draw(mgl32.Translate3D(1, 0, 0))
	assert.Equal(t, mgl32.Translate3D(1, 0, 0), got)
}
