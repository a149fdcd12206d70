package config

import "log/slog"

// StoreBuilderOption is a functional option for configuring a Store.
type StoreBuilderOption func(*store)

// WithEnvPrefix sets the prefix of environment overrides. An empty prefix disables them.
// The default prefix is "OXY", so history_window.toggle_key is overridden by OXY_HISTORY_WINDOW_TOGGLE_KEY.
//
// Parameters:
//   - prefix: the environment variable prefix
//
// Returns:
//   - StoreBuilderOption: a function that applies the prefix to a store
func WithEnvPrefix(prefix string) StoreBuilderOption {
	return func(s *store) {
		s.envPrefix = prefix
	}
}

// WithAutoSave controls whether every Set schedules a write. Enabled by default.
func WithAutoSave(enabled bool) StoreBuilderOption {
	return func(s *store) {
		s.autoSave = enabled
	}
}

// WithWorkers sets the number of background writers.
func WithWorkers(n int) StoreBuilderOption {
	return func(s *store) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger overrides the package-wide logger for this store.
func WithLogger(logger *slog.Logger) StoreBuilderOption {
	return func(s *store) {
		s.logger = logger
	}
}
