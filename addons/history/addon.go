package history

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/Carmen-Shannon/oxy-addons/engine/addon"
	"github.com/Carmen-Shannon/oxy-addons/engine/config"
	"github.com/google/uuid"
)

const (
	// Name is the add-on name shown by the host.
	Name = "History Window"

	// Description is the add-on description shown by the host.
	Description = "Adds an overlay that keeps track of changes to techniques and uniform variables and allows reverting and redoing them."

	configSection   = "history_window"
	configToggleKey = "toggle_key"
)

// PrivateDataKey identifies the history state attached to each runtime instance.
var PrivateDataKey = uuid.MustParse("ee32daa4-6b5c-47e6-9409-f87cca0e5797")

// Instance is the history state attached to one runtime instance.
type Instance struct {
	Tracker Tracker
	UI      *UIState
}

// historyAddon carries the configuration shared by every runtime instance.
type historyAddon struct {
	store   config.Store
	limit   int
	logger  *slog.Logger
	visible bool
}

// NewAddon creates the History Window add-on. Register it with the host's registry; every runtime
// it is initialized with gets its own Tracker and UIState.
//
// Parameters:
//   - options: functional options (config store, limit, logger)
//
// Returns:
//   - *addon.Addon: the add-on descriptor
func NewAddon(options ...AddonBuilderOption) *addon.Addon {
	h := &historyAddon{limit: DefaultLimit, visible: true}
	for _, opt := range options {
		opt(h)
	}
	if h.logger == nil {
		h.logger = common.Logger()
	}

	return addon.NewAddon(Name,
		addon.WithDescription(Description),
		addon.WithInitRuntime(h.onInit),
		addon.WithDestroyRuntime(h.onDestroy),
		addon.WithSetCurrentPresetPath(h.onSetCurrentPresetPath),
		addon.WithSetUniformValue(h.onSetUniformValue),
		addon.WithSetTechniqueState(h.onSetTechniqueState),
		addon.WithOverlay("OSD", h.drawOSD),
		addon.WithSettings(h.drawSettings),
	)
}

// InstanceOf returns the history state attached to rt.
//
// Returns:
//   - *Instance: the state
//   - bool: false if the add-on was not initialized with rt
func InstanceOf(rt addon.Runtime) (*Instance, bool) {
	return addon.PrivateDataOf[*Instance](rt, PrivateDataKey)
}

func (h *historyAddon) onInit(rt addon.Runtime) {
	ui := &UIState{DrawWindow: h.visible}
	if h.store != nil {
		if key, ok := h.store.Int(configSection, configToggleKey); ok {
			if common.IsValidKey(key) {
				ui.ToggleKey[0] = uint32(key)
			} else if key != 0 {
				h.logger.Warn("ignoring invalid toggle key", "toggle_key", key)
			}
		}
	}
	rt.CreatePrivateData(PrivateDataKey, &Instance{
		Tracker: NewTracker(rt, WithLimit(h.limit), WithTrackerLogger(h.logger)),
		UI:      ui,
	})
	h.logger.Info("history attached to runtime", "toggle_key", ui.ToggleKey[0])
}

func (h *historyAddon) onDestroy(rt addon.Runtime) {
	rt.DestroyPrivateData(PrivateDataKey)
	h.logger.Info("history detached from runtime")
}

func (h *historyAddon) onSetCurrentPresetPath(rt addon.Runtime, path string) {
	if inst, ok := InstanceOf(rt); ok {
		inst.Tracker.Reset()
		h.logger.Debug("history cleared for preset", "path", path)
	}
}

func (h *historyAddon) onSetUniformValue(rt addon.Runtime, v common.VariableHandle, value []byte) bool {
	inst, ok := InstanceOf(rt)
	if !ok {
		return false
	}
	return inst.Tracker.OnSetUniformValue(v, value)
}

func (h *historyAddon) onSetTechniqueState(rt addon.Runtime, t common.TechniqueHandle, enabled bool) bool {
	inst, ok := InstanceOf(rt)
	if !ok {
		return false
	}
	return inst.Tracker.OnSetTechniqueState(t, enabled)
}

func (h *historyAddon) drawOSD(rt addon.Runtime, ui addon.OverlayUI) {
	if inst, ok := InstanceOf(rt); ok {
		drawOSD(rt, ui, inst.Tracker, inst.UI)
	}
}

func (h *historyAddon) drawSettings(rt addon.Runtime, ui addon.OverlayUI) {
	inst, ok := InstanceOf(rt)
	if !ok {
		return
	}
	if drawSettings(rt, ui, inst.Tracker, inst.UI) && h.store != nil {
		h.store.SetInt(configSection, configToggleKey, int(inst.UI.ToggleKey[0]))
	}
}
