package common

// Virtual key codes for the default rig controls.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // W key (ASCII), move selected node forward
	KeyA     = 65  // A key (ASCII), move selected node left
	KeyS     = 83  // S key (ASCII), move selected node back
	KeyD     = 68  // D key (ASCII), move selected node right
	KeyQ     = 81  // Q key (ASCII), yaw selected node left
	KeyE     = 69  // E key (ASCII), yaw selected node right
	KeyP     = 80  // P key (ASCII), pause / resume playback
	KeyR     = 82  // R key (ASCII), rewind playback
	KeyTab   = 258 // Tab key (GLFW), select next node
	KeySpace = 32  // Spacebar (ASCII), snapshot a keyframe
	KeyEsc   = 256 // Escape key (GLFW)
)

// Arrow keys rotate the camera.
const (
	KeyRight = 262 // Right arrow (GLFW)
	KeyLeft  = 263 // Left arrow (GLFW)
	KeyDown  = 264 // Down arrow (GLFW)
	KeyUp    = 265 // Up arrow (GLFW)
)
