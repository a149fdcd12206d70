package history

import "log/slog"

// TrackerBuilderOption is a functional option for configuring a Tracker.
type TrackerBuilderOption func(*tracker)

// WithLimit sets the maximum number of recorded entries. Values below 1 keep DefaultLimit.
//
// Parameters:
//   - limit: the maximum number of entries
//
// Returns:
//   - TrackerBuilderOption: a function that applies the limit to a tracker
func WithLimit(limit int) TrackerBuilderOption {
	return func(t *tracker) {
		if limit > 0 {
			t.limit = limit
		}
	}
}

// WithTrackerLogger overrides the package-wide logger for a tracker.
func WithTrackerLogger(logger *slog.Logger) TrackerBuilderOption {
	return func(t *tracker) {
		t.logger = logger
	}
}
