package addon

import (
	"github.com/Carmen-Shannon/oxy-addons/common"
)

// InitRuntimeFunc is called after an effect runtime instance has been created.
type InitRuntimeFunc func(rt Runtime)

// DestroyRuntimeFunc is called before an effect runtime instance is destroyed.
type DestroyRuntimeFunc func(rt Runtime)

// SetUniformValueFunc is called before a uniform variable receives a new value.
// value holds the raw little-endian component bytes about to be written. Returning true blocks the write.
type SetUniformValueFunc func(rt Runtime, v common.VariableHandle, value []byte) bool

// SetTechniqueStateFunc is called before a technique is enabled or disabled. Returning true blocks the change.
type SetTechniqueStateFunc func(rt Runtime, t common.TechniqueHandle, enabled bool) bool

// SetCurrentPresetPathFunc is called after the active preset of a runtime changed.
type SetCurrentPresetPathFunc func(rt Runtime, path string)

// OverlayFunc draws add-on UI into the host overlay for one frame.
type OverlayFunc func(rt Runtime, ui OverlayUI)

// namedOverlay pairs an overlay callback with the window title it is drawn under.
type namedOverlay struct {
	title string
	draw  OverlayFunc
}

// Addon describes a registered add-on: its identity and the event handlers it subscribes to.
// Handlers left nil are not invoked.
type Addon struct {
	// Name uniquely identifies the add-on within a Registry.
	Name string

	// Description is a human readable summary shown by the host.
	Description string

	onInitRuntime          InitRuntimeFunc
	onDestroyRuntime       DestroyRuntimeFunc
	onSetUniformValue      SetUniformValueFunc
	onSetTechniqueState    SetTechniqueStateFunc
	onSetCurrentPresetPath SetCurrentPresetPathFunc
	overlays               []namedOverlay
	settings               OverlayFunc
}

// NewAddon creates an add-on descriptor with the provided options.
//
// Parameters:
//   - name: the unique add-on name
//   - options: functional options subscribing handlers
//
// Returns:
//   - *Addon: the add-on descriptor, ready for Registry.Register
func NewAddon(name string, options ...AddonBuilderOption) *Addon {
	a := &Addon{Name: name}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// OverlayTitles returns the window titles of the overlays this add-on draws, in registration order.
//
// Returns:
//   - []string: the overlay titles
func (a *Addon) OverlayTitles() []string {
	titles := make([]string, 0, len(a.overlays))
	for _, o := range a.overlays {
		titles = append(titles, o.title)
	}
	return titles
}

// HasSettings reports whether the add-on draws a settings section.
func (a *Addon) HasSettings() bool {
	return a.settings != nil
}
