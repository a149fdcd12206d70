package history

import (
	"log/slog"

	"github.com/Carmen-Shannon/oxy-addons/engine/config"
)

// AddonBuilderOption is a functional option for configuring the History Window add-on.
type AddonBuilderOption func(*historyAddon)

// WithConfig sets the store the toggle key is loaded from and saved to. Without a store the
// toggle key starts unset and is not persisted.
//
// Parameters:
//   - store: the config store
//
// Returns:
//   - AddonBuilderOption: a function that applies the store to the add-on
func WithConfig(store config.Store) AddonBuilderOption {
	return func(h *historyAddon) {
		h.store = store
	}
}

// WithHistoryLimit sets the per-runtime entry limit.
func WithHistoryLimit(limit int) AddonBuilderOption {
	return func(h *historyAddon) {
		if limit > 0 {
			h.limit = limit
		}
	}
}

// WithWindowVisible sets whether the history window starts as its own overlay window.
func WithWindowVisible(visible bool) AddonBuilderOption {
	return func(h *historyAddon) {
		h.visible = visible
	}
}

// WithLogger overrides the package-wide logger for the add-on and its trackers.
func WithLogger(logger *slog.Logger) AddonBuilderOption {
	return func(h *historyAddon) {
		h.logger = logger
	}
}
