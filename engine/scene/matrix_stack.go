package scene

import "github.com/go-gl/mathgl/mgl32"

// MatrixStack composes nested local transforms into world matrices. The bottom
// entry is the root matrix (identity unless given) and can never be popped.
type MatrixStack struct {
	stack []mgl32.Mat4
}

// NewMatrixStack creates a stack whose root is root.
//
// Parameters:
//   - root: the matrix every pushed transform is relative to
//
// Returns:
//   - *MatrixStack: the new stack
func NewMatrixStack(root mgl32.Mat4) *MatrixStack {
	s := &MatrixStack{stack: make([]mgl32.Mat4, 1, 16)}
	s.stack[0] = root
	return s
}

// Push composes local onto the current top (top * local) and makes the result the new top.
//
// Parameters:
//   - local: the child's local matrix
//
// Returns:
//   - mgl32.Mat4: the new top, i.e. the child's world matrix
func (s *MatrixStack) Push(local mgl32.Mat4) mgl32.Mat4 {
	world := s.Top().Mul4(local)
	s.stack = append(s.stack, world)
	return world
}

// Pop discards the top entry, restoring the previous one exactly.
//
// Returns:
//   - bool: false if only the root remained (nothing was popped)
func (s *MatrixStack) Pop() bool {
	if len(s.stack) <= 1 {
		return false
	}
	s.stack = s.stack[:len(s.stack)-1]
	return true
}

// Top returns the current world matrix.
func (s *MatrixStack) Top() mgl32.Mat4 {
	return s.stack[len(s.stack)-1]
}

// Depth returns the number of pushed entries above the root.
func (s *MatrixStack) Depth() int {
	return len(s.stack) - 1
}

// Reset drops everything above the root.
func (s *MatrixStack) Reset() {
	s.stack = s.stack[:1]
}
