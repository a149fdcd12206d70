package effect

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/cogentcore/webgpu/wgpu"
)

// RuntimeBuilderOption is a functional option for configuring a Runtime.
type RuntimeBuilderOption func(*runtime)

// WithRegistry sets the add-on registry whose handlers receive the runtime's events.
// Without it the runtime uses an empty registry.
//
// Parameters:
//   - registry: the add-on registry
//
// Returns:
//   - RuntimeBuilderOption: a function that applies the registry to a runtime
func WithRegistry(registry addon.Registry) RuntimeBuilderOption {
	return func(rt *runtime) {
		rt.registry = registry
	}
}

// WithEffectSource sets the WGSL effect loaded when the runtime is created.
//
// Parameters:
//   - source: WGSL effect source with @oxy: directives
//
// Returns:
//   - RuntimeBuilderOption: a function that applies the source to a runtime
func WithEffectSource(source string) RuntimeBuilderOption {
	return func(rt *runtime) {
		rt.source = source
	}
}

// WithLogger overrides the package-wide logger for this runtime.
func WithLogger(logger *slog.Logger) RuntimeBuilderOption {
	return func(rt *runtime) {
		rt.logger = logger
	}
}

// WithUniformBuffers mirrors uniform values into GPU uniform buffers created on device.
//
// Parameters:
//   - device: the device that owns the buffers
//   - queue: the queue used for buffer writes
//
// Returns:
//   - RuntimeBuilderOption: a function that enables GPU mirroring on a runtime
func WithUniformBuffers(device *wgpu.Device, queue *wgpu.Queue) RuntimeBuilderOption {
	return func(rt *runtime) {
		if device == nil || queue == nil {
			return
		}
		rt.gpu = newUniformBuffers(device, queue)
	}
}

// WithPresetPath sets the initial preset path without notifying add-ons.
func WithPresetPath(path string) RuntimeBuilderOption {
	return func(rt *runtime) {
		rt.presetPath = path
	}
}
