package gpu

import "log/slog"

// ContextBuilderOption is a functional option for configuring a Context.
type ContextBuilderOption func(*gpuContext)

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: if true, only a fallback adapter is accepted
//
// Returns:
//   - ContextBuilderOption: option function to apply
func WithForceFallbackAdapter(force bool) ContextBuilderOption {
	return func(c *gpuContext) {
		c.forceFallbackAdapter = force
	}
}

// WithLabel sets the debug label of the device.
func WithLabel(label string) ContextBuilderOption {
	return func(c *gpuContext) {
		if label != "" {
			c.label = label
		}
	}
}

// WithLogger sets the logger used for device events. A nil logger keeps the shared logger.
func WithLogger(l *slog.Logger) ContextBuilderOption {
	return func(c *gpuContext) {
		if l != nil {
			c.logger = l
		}
	}
}
