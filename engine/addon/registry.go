package addon

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-addons/common"
)

// ErrAddonExists is returned by Register when an add-on with the same name is already registered.
var ErrAddonExists = errors.New("add-on already registered")

// registry is the implementation of the Registry interface.
type registry struct {
	mu     sync.RWMutex
	addons []*Addon
}

// Registry holds the registered add-ons and dispatches host events to their handlers.
// Handlers run synchronously on the calling goroutine, in registration order. Registration
// may happen from any goroutine; dispatch works on a snapshot so handlers may register or
// unregister add-ons without deadlocking.
type Registry interface {
	// Register adds an add-on.
	//
	// Parameters:
	//   - a: the add-on descriptor
	//
	// Returns:
	//   - error: ErrAddonExists if the name is taken, or an error for a nil/unnamed add-on
	Register(a *Addon) error

	// Unregister removes the add-on with the given name.
	//
	// Parameters:
	//   - name: the add-on name
	//
	// Returns:
	//   - bool: true if an add-on was removed
	Unregister(name string) bool

	// Addons returns the registered add-ons in registration order.
	//
	// Returns:
	//   - []*Addon: a copy of the registration list
	Addons() []*Addon

	// InitRuntime notifies every add-on that rt was created.
	InitRuntime(rt Runtime)

	// DestroyRuntime notifies every add-on that rt is about to be destroyed, in reverse registration order.
	DestroyRuntime(rt Runtime)

	// SetUniformValue notifies every add-on that v is about to receive value.
	//
	// Returns:
	//   - bool: true if any handler blocked the write
	SetUniformValue(rt Runtime, v common.VariableHandle, value []byte) bool

	// SetTechniqueState notifies every add-on that t is about to be enabled or disabled.
	//
	// Returns:
	//   - bool: true if any handler blocked the change
	SetTechniqueState(rt Runtime, t common.TechniqueHandle, enabled bool) bool

	// SetCurrentPresetPath notifies every add-on that the active preset of rt changed.
	SetCurrentPresetPath(rt Runtime, path string)

	// DrawOverlays draws every add-on overlay window for one frame.
	DrawOverlays(rt Runtime, ui OverlayUI)

	// DrawSettings draws every add-on settings section for one frame, each inside a window titled with the add-on name.
	DrawSettings(rt Runtime, ui OverlayUI)
}

var _ Registry = &registry{}

// NewRegistry creates an empty add-on registry.
//
// Returns:
//   - Registry: the new registry
func NewRegistry() Registry {
	return &registry{}
}

func (r *registry) Register(a *Addon) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("register add-on: missing name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.ContainsFunc(r.addons, func(existing *Addon) bool { return existing.Name == a.Name }) {
		return fmt.Errorf("register add-on %q: %w", a.Name, ErrAddonExists)
	}
	r.addons = append(r.addons, a)
	common.Logger().Info("add-on registered", "name", a.Name)
	return nil
}

func (r *registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.addons, func(a *Addon) bool { return a.Name == name })
	if i < 0 {
		return false
	}
	r.addons = slices.Delete(r.addons, i, i+1)
	common.Logger().Info("add-on unregistered", "name", name)
	return true
}

func (r *registry) Addons() []*Addon {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.addons)
}

func (r *registry) InitRuntime(rt Runtime) {
	for _, a := range r.Addons() {
		if a.onInitRuntime != nil {
			a.onInitRuntime(rt)
		}
	}
}

func (r *registry) DestroyRuntime(rt Runtime) {
	addons := r.Addons()
	for i := len(addons) - 1; i >= 0; i-- {
		if addons[i].onDestroyRuntime != nil {
			addons[i].onDestroyRuntime(rt)
		}
	}
}

func (r *registry) SetUniformValue(rt Runtime, v common.VariableHandle, value []byte) bool {
	for _, a := range r.Addons() {
		if a.onSetUniformValue != nil && a.onSetUniformValue(rt, v, value) {
			return true
		}
	}
	return false
}

func (r *registry) SetTechniqueState(rt Runtime, t common.TechniqueHandle, enabled bool) bool {
	for _, a := range r.Addons() {
		if a.onSetTechniqueState != nil && a.onSetTechniqueState(rt, t, enabled) {
			return true
		}
	}
	return false
}

func (r *registry) SetCurrentPresetPath(rt Runtime, path string) {
	for _, a := range r.Addons() {
		if a.onSetCurrentPresetPath != nil {
			a.onSetCurrentPresetPath(rt, path)
		}
	}
}

func (r *registry) DrawOverlays(rt Runtime, ui OverlayUI) {
	for _, a := range r.Addons() {
		for _, o := range a.overlays {
			ui.Begin(o.title)
			o.draw(rt, ui)
			ui.End()
		}
	}
}

func (r *registry) DrawSettings(rt Runtime, ui OverlayUI) {
	for _, a := range r.Addons() {
		if a.settings == nil {
			continue
		}
		ui.Begin(a.Name)
		a.settings(rt, ui)
		ui.End()
	}
}
