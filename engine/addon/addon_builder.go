package addon

// AddonBuilderOption is a functional option for configuring an Addon.
// Use the With* functions to subscribe event handlers.
type AddonBuilderOption func(a *Addon)

// WithDescription sets the human readable add-on description.
//
// Parameters:
//   - description: the description text
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithDescription(description string) AddonBuilderOption {
	return func(a *Addon) {
		a.Description = description
	}
}

// WithInitRuntime subscribes to runtime creation.
//
// Parameters:
//   - fn: handler called once per runtime instance after creation
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithInitRuntime(fn InitRuntimeFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.onInitRuntime = fn
	}
}

// WithDestroyRuntime subscribes to runtime destruction.
//
// Parameters:
//   - fn: handler called once per runtime instance before destruction
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithDestroyRuntime(fn DestroyRuntimeFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.onDestroyRuntime = fn
	}
}

// WithSetUniformValue subscribes to uniform value changes.
//
// Parameters:
//   - fn: handler called before a uniform value is written
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithSetUniformValue(fn SetUniformValueFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.onSetUniformValue = fn
	}
}

// WithSetTechniqueState subscribes to technique enable/disable changes.
//
// Parameters:
//   - fn: handler called before a technique state changes
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithSetTechniqueState(fn SetTechniqueStateFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.onSetTechniqueState = fn
	}
}

// WithSetCurrentPresetPath subscribes to active preset changes.
//
// Parameters:
//   - fn: handler called after the active preset changed
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithSetCurrentPresetPath(fn SetCurrentPresetPathFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.onSetCurrentPresetPath = fn
	}
}

// WithOverlay adds an overlay window drawn every frame under title.
//
// Parameters:
//   - title: the overlay window title
//   - fn: the draw callback
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithOverlay(title string, fn OverlayFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.overlays = append(a.overlays, namedOverlay{title: title, draw: fn})
	}
}

// WithSettings sets the callback drawing the add-on's section of the host settings page.
//
// Parameters:
//   - fn: the draw callback
//
// Returns:
//   - AddonBuilderOption: option function to apply
func WithSettings(fn OverlayFunc) AddonBuilderOption {
	return func(a *Addon) {
		a.settings = fn
	}
}
