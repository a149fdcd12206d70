package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides the platform window hosting the effect runtime and its keyboard input.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the key code (common.Key* values)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the key code (common.Key* values)
	SetKeyUpCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor for the window, created by the wgpuglfw bridge.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	// Calling Close on an already closed window returns an error.
	Close() error

	// ProcessMessages runs the window message loop until the window is closed.
	// The update callback runs once per iteration after pending events are dispatched.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	Width() int

	// Height returns the current framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	maxWidth  int
	maxHeight int
	minWidth  int
	minHeight int

	width  int
	height int

	// closeKey closes the window when pressed; zero disables it.
	closeKey uint32

	// internalWindow holds the platform window (*glfwWindow).
	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a platform window.
// The calling goroutine is locked to its OS thread, which must also run ProcessMessages.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-addons",
		maxWidth:  1600,
		maxHeight: 1200,
		minWidth:  320,
		minHeight: 200,
		width:     1280,
		height:    720,
		closeKey:  common.KeyEsc,
	}
	for _, opt := range options {
		opt(w)
	}
	if w.minWidth > w.maxWidth || w.minHeight > w.maxHeight {
		return nil, fmt.Errorf("window size limits are inverted: min %dx%d, max %dx%d",
			w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if !platformProcessMessages(w) {
			break
		}
		if w.onUpdate != nil {
			w.onUpdate()
		}
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// dispatchKey routes a platform key event to the registered callbacks.
// Returns false when the key closed the window.
func (w *engineWindow) dispatchKey(keyCode uint32, pressed bool) bool {
	if pressed && w.closeKey != 0 && keyCode == w.closeKey {
		return false
	}
	if pressed {
		if w.onKeyDown != nil {
			w.onKeyDown(keyCode)
		}
		return true
	}
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
	return true
}
