// Package host runs an effect runtime inside a window: it routes keyboard input to the runtime and
// draws the add-on overlays once per frame.
package host

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/Carmen-Shannon/oxy-addons/engine/effect"
	"github.com/Carmen-Shannon/oxy-addons/engine/gpu"
	"github.com/Carmen-Shannon/oxy-addons/engine/overlay"
	"github.com/Carmen-Shannon/oxy-addons/engine/profiler"
)

// ErrNoWindow is returned by Run when the host was built without a window.
var ErrNoWindow = errors.New("host: no window")

// Window is the part of window.Window the host loop drives.
type Window interface {
	SetUpdateCallback(callback func())
	SetResizeCallback(callback func(width, height int))
	SetKeyDownCallback(callback func(keyCode uint32))
	SetKeyUpCallback(callback func(keyCode uint32))
	IsRunning() bool
	Close() error
	ProcessMessages()
}

// Host owns one effect runtime and the loop that drives it.
type Host interface {
	// Runtime returns the hosted effect runtime.
	Runtime() effect.Runtime

	// Window returns the host window, or nil for a headless host.
	Window() Window

	// UI returns the overlay UI add-ons draw into.
	UI() overlay.UI

	// EnableProfiler enables frame statistics logging.
	EnableProfiler()

	// DisableProfiler disables frame statistics logging.
	DisableProfiler()

	// SetSettingsVisible shows or hides the add-on settings pages.
	SetSettingsVisible(visible bool)

	// SetFrameCallback registers a function called at the start of every frame, before overlays are drawn.
	// Application logic that changes uniform values or technique states runs here.
	//
	// Parameters:
	//   - callback: function receiving the time since the previous frame in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// SetFrameLimit caps the frame rate. Pass 0 to uncap.
	//
	// Parameters:
	//   - fps: maximum frames per second
	SetFrameLimit(fps float64)

	// Frame runs one frame: the frame callback, add-on overlays, settings when visible, then the end of the
	// UI and input frames. Run calls it once per message loop iteration; headless hosts call it directly.
	Frame()

	// Run processes window messages and runs one Frame per iteration until the window closes or Quit is
	// called, then closes the host.
	//
	// Returns:
	//   - error: ErrNoWindow for a headless host, or the error from Close
	Run() error

	// Quit asks a running loop to stop after the current frame. Safe to call multiple times and from any goroutine.
	Quit()

	// Close destroys the runtime, releases the GPU context and closes the window. Safe to call multiple times.
	//
	// Returns:
	//   - error: error if closing the window fails
	Close() error
}

type host struct {
	logger *slog.Logger

	window   Window
	registry addon.Registry
	runtime  effect.Runtime
	ui       overlay.UI
	gpu      gpu.Context

	source     string
	presetPath string

	profiler         *profiler.Profiler
	profilingEnabled bool

	settingsVisible bool
	frameCallback   func(deltaTime float32)
	frameLimit      time.Duration
	lastFrame       time.Time

	quitChannel chan struct{}
	quitOnce    sync.Once
	closeOnce   sync.Once
	closeErr    error
}

var _ Host = &host{}

// NewHost creates a Host. Unless WithRuntime is given, a runtime is created over the configured registry and
// effect source, with its uniform blocks mirrored on the GPU context if one is set.
//
// Parameters:
//   - options: functional options for the host
//
// Returns:
//   - Host: the newly created host
//   - error: error if the runtime could not be created
func NewHost(options ...HostBuilderOption) (Host, error) {
	h := &host{
		logger:      common.Logger(),
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(h)
	}

	if h.registry == nil {
		h.registry = addon.NewRegistry()
	}
	if h.ui == nil {
		h.ui = overlay.NewTextUI()
	}
	if h.profiler == nil {
		h.profiler = profiler.NewProfiler()
	}
	if h.runtime == nil {
		rtOptions := []effect.RuntimeBuilderOption{
			effect.WithRegistry(h.registry),
			effect.WithLogger(h.logger),
			effect.WithPresetPath(h.presetPath),
		}
		if h.source != "" {
			rtOptions = append(rtOptions, effect.WithEffectSource(h.source))
		}
		if h.gpu != nil {
			rtOptions = append(rtOptions, effect.WithUniformBuffers(h.gpu.Device(), h.gpu.Queue()))
		}
		rt, err := effect.NewRuntime(rtOptions...)
		if err != nil {
			return nil, fmt.Errorf("create runtime: %w", err)
		}
		h.runtime = rt
	}

	if h.window != nil {
		h.window.SetKeyDownCallback(h.runtime.KeyDown)
		h.window.SetKeyUpCallback(h.runtime.KeyUp)
		h.window.SetResizeCallback(func(width, height int) {
			h.logger.Debug("host: window resized", "width", width, "height", height)
		})
	}
	return h, nil
}

func (h *host) Runtime() effect.Runtime {
	return h.runtime
}

func (h *host) Window() Window {
	return h.window
}

func (h *host) UI() overlay.UI {
	return h.ui
}

func (h *host) EnableProfiler() {
	h.profilingEnabled = true
}

func (h *host) DisableProfiler() {
	h.profilingEnabled = false
}

func (h *host) SetSettingsVisible(visible bool) {
	h.settingsVisible = visible
}

func (h *host) SetFrameCallback(callback func(deltaTime float32)) {
	h.frameCallback = callback
}

func (h *host) SetFrameLimit(fps float64) {
	h.frameLimit = frameDuration(fps)
}

func (h *host) Frame() {
	start := time.Now()
	var dt float32
	if !h.lastFrame.IsZero() {
		dt = float32(start.Sub(h.lastFrame).Seconds())
	}
	h.lastFrame = start

	if h.frameCallback != nil {
		h.frameCallback(dt)
	}

	h.runtime.DrawOverlays(h.ui)
	if h.settingsVisible {
		h.runtime.DrawSettings(h.ui)
	}
	h.ui.EndFrame()
	h.runtime.EndFrame()

	if h.profilingEnabled {
		h.profiler.Tick()
	}

	if h.frameLimit > 0 {
		if remaining := h.frameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (h *host) Run() error {
	if h.window == nil {
		return ErrNoWindow
	}
	h.window.SetUpdateCallback(h.update)
	h.window.ProcessMessages()
	h.signalQuit()
	return h.Close()
}

// update runs one loop iteration on the window thread. A panic inside a frame stops the loop.
func (h *host) update() {
	select {
	case <-h.quitChannel:
		h.closeWindow()
		return
	default:
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("host: frame recovered from panic", "panic", r)
			h.signalQuit()
		}
	}()
	h.Frame()
}

func (h *host) Quit() {
	h.signalQuit()
}

func (h *host) signalQuit() {
	h.quitOnce.Do(func() {
		close(h.quitChannel)
	})
}

func (h *host) Close() error {
	h.closeOnce.Do(func() {
		h.signalQuit()
		h.runtime.Destroy()
		if h.gpu != nil {
			h.gpu.Release()
		}
		h.closeErr = h.closeWindow()
	})
	return h.closeErr
}

// closeWindow closes the window if it is still open.
func (h *host) closeWindow() error {
	if h.window == nil || !h.window.IsRunning() {
		return nil
	}
	if err := h.window.Close(); err != nil {
		return fmt.Errorf("close window: %w", err)
	}
	return nil
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
