package host

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/Carmen-Shannon/oxy-addons/engine/effect"
	"github.com/Carmen-Shannon/oxy-addons/engine/gpu"
	"github.com/Carmen-Shannon/oxy-addons/engine/overlay"
	"github.com/Carmen-Shannon/oxy-addons/engine/profiler"
)

// HostBuilderOption is a functional option for configuring a Host.
type HostBuilderOption func(*host)

// WithWindow sets the window whose message loop drives the host. Without it the host is headless.
//
// Parameters:
//   - w: a created window, usually from window.NewWindow
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithWindow(w Window) HostBuilderOption {
	return func(h *host) {
		h.window = w
	}
}

// WithRegistry sets the add-on registry of the runtime the host creates.
//
// Parameters:
//   - registry: registry holding the add-ons to load
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithRegistry(registry addon.Registry) HostBuilderOption {
	return func(h *host) {
		h.registry = registry
	}
}

// WithEffectSource sets the effect loaded by the runtime the host creates.
func WithEffectSource(source string) HostBuilderOption {
	return func(h *host) {
		h.source = source
	}
}

// WithPresetPath sets the initial preset path of the runtime the host creates.
func WithPresetPath(path string) HostBuilderOption {
	return func(h *host) {
		h.presetPath = path
	}
}

// WithRuntime hosts an existing runtime instead of creating one.
// The registry, effect source, preset path and GPU context options then only affect Close.
//
// Parameters:
//   - rt: the runtime to host; Close destroys it
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithRuntime(rt effect.Runtime) HostBuilderOption {
	return func(h *host) {
		h.runtime = rt
	}
}

// WithGPU mirrors uniform blocks into buffers on the given context. Close releases the context.
func WithGPU(ctx gpu.Context) HostBuilderOption {
	return func(h *host) {
		h.gpu = ctx
	}
}

// WithUI sets the overlay UI. Defaults to an overlay.TextUI.
func WithUI(ui overlay.UI) HostBuilderOption {
	return func(h *host) {
		h.ui = ui
	}
}

// WithProfiler sets the profiler and enables it.
//
// Parameters:
//   - p: the profiler ticked once per frame
//
// Returns:
//   - HostBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) HostBuilderOption {
	return func(h *host) {
		h.profiler = p
		h.profilingEnabled = p != nil
	}
}

// WithProfiling enables or disables frame statistics logging with the default profiler.
func WithProfiling(enabled bool) HostBuilderOption {
	return func(h *host) {
		h.profilingEnabled = enabled
	}
}

// WithSettingsVisible sets whether add-on settings pages are drawn each frame.
func WithSettingsVisible(visible bool) HostBuilderOption {
	return func(h *host) {
		h.settingsVisible = visible
	}
}

// WithFrameLimit caps the frame rate in frames per second. Pass 0 to uncap (default).
func WithFrameLimit(fps float64) HostBuilderOption {
	return func(h *host) {
		h.frameLimit = frameDuration(fps)
	}
}

// WithLogger overrides the package-wide logger for the host and the runtime it creates.
func WithLogger(logger *slog.Logger) HostBuilderOption {
	return func(h *host) {
		if logger != nil {
			h.logger = logger
		}
	}
}
