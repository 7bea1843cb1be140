package live

import "toonbench/internal/trial"

// EventKind identifies the type of live UI event.
type EventKind int

const (
	// EventTrialStart signals the start of a trial in the series.
	EventTrialStart EventKind = iota
	// EventFormat delivers a per-format status update.
	EventFormat
	// EventTrialEnd signals trial completion.
	EventTrialEnd
	// EventSeriesEnd signals that no further trials will run.
	EventSeriesEnd
)

// Event carries a UI update payload.
type Event struct {
	Kind   EventKind
	Trial  int
	Total  int
	Model  string
	Format trial.Event
	Error  string
}
