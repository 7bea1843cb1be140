package trial

import "time"

// EventType identifies a per-format status update for observers.
type EventType string

const (
	// EventWaiting marks a sub-task queued behind the rate limiter.
	EventWaiting EventType = "waiting"
	// EventCounting marks the pre-flight token count in progress.
	EventCounting EventType = "counting"
	// EventGenerating marks an active generation call.
	EventGenerating EventType = "generating"
	// EventDone marks a completed format sub-task.
	EventDone EventType = "done"
	// EventFailed marks a failed format sub-task.
	EventFailed EventType = "failed"
)

// Event carries a single status update for one format sub-task.
type Event struct {
	Format    Format
	Type      EventType
	Tokens    int
	LatencyMs float64
	Error     string
	EmittedAt time.Time
}

// Observer receives trial lifecycle events for UI or logging.
type Observer interface {
	// OnTrialStart signals the start of trial number index out of total.
	OnTrialStart(index, total int, model string)
	// OnFormatEvent delivers a per-format status update.
	OnFormatEvent(event Event)
	// OnTrialEnd signals trial completion; err is nil on success.
	OnTrialEnd(summary TrialSummary, err error)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnTrialStart(int, int, string) {}
func (NoopObserver) OnFormatEvent(Event) {}
func (NoopObserver) OnTrialEnd(TrialSummary, error) {}
