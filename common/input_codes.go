package common

// Input codes shared with the window layer. Values match GLFW.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	MouseButtonLeft = 0 // left mouse button (GLFW)

	KeySpace = 32  // Spacebar (ASCII)
	KeyEnter = 257 // Enter key (GLFW)
	KeyEsc   = 256 // Escape key (GLFW)
)
