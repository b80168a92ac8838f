package window

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/driver"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	keyEscape = uint32(common.KeyEsc)
	keySpace  = uint32(common.KeySpace)
)

// Window provides the platform window hosting the bubble, its input events and its frame pacing.
// The window is the frame source for the render loop driver: callbacks requested through
// RequestFrame run once per message loop iteration with a millisecond timestamp.
type Window interface {
	driver.FrameSource
	renderer.SurfaceSource

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetClickCallback sets the function called on a left click or the space bar.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetClickCallback(callback func())

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to exit after the current iteration.
	RequestClose()

	// Close closes the window and releases platform resources. Safe to call more than once.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Each iteration polls events, then runs the frame
	// callbacks queued before it.
	ProcessMessages()
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// size limits applied to interactive resizes.
	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	// width is the current framebuffer width in pixels.
	width int

	// height is the current framebuffer height in pixels.
	height int

	logger *slog.Logger

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	frames *frameQueue
	closed bool

	onResize  func(width, height int)
	onClick   func()
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and spawns a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: an error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.logger.Info("window ready", "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

// newEngineWindow applies the options without touching the platform.
func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-bubble",
		maxWidth:  3840,
		maxHeight: 2160,
		minWidth:  200,
		minHeight: 200,
		width:     800,
		height:    800,
		logger:    slog.Default(),
		frames:    newFrameQueue(),
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetClickCallback(callback func()) {
	w.onClick = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) RequestFrame(callback func(ts float64)) driver.FrameID {
	return w.frames.request(callback)
}

func (w *engineWindow) CancelFrame(id driver.FrameID) {
	w.frames.cancel(id)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	if w.closed {
		return nil
	}
	w.frames.clear()
	if err := platformCloseWindow(w); err != nil {
		return err
	}
	w.closed = true
	return nil
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w, w.frames.len() == 0); !succ {
			break
		}

		w.frames.run(platformNowMs(w))

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// dispatchKey routes a key press: escape closes, space clicks, everything reaches onKeyDown.
func (w *engineWindow) dispatchKey(keyCode uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
	switch keyCode {
	case keyEscape:
		w.RequestClose()
	case keySpace:
		w.click()
	}
}

func (w *engineWindow) click() {
	if w.onClick != nil {
		w.onClick()
	}
}

// resized records the new framebuffer size and notifies the resize callback.
func (w *engineWindow) resized(width, height int) {
	if width <= 0 || height <= 0 {
		// Minimised windows report 0x0.
		return
	}
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
