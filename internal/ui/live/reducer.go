package live

import (
	"fmt"

	"toonbench/internal/trial"
)

// Reduce applies a format event to the UI state.
func Reduce(state State, event trial.Event) State {
	state = ensureRows(state)
	state = applyFormatEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRows seeds one row per format in the fixed benchmark order.
func ensureRows(state State) State {
	if len(state.Rows) > 0 {
		return state
	}
	formats := trial.Formats()
	rows := make([]FormatRow, len(formats))
	for i, format := range formats {
		rows[i] = FormatRow{Format: format, Status: trial.EventWaiting}
	}
	state.Rows = rows
	return state
}

// resetRows returns all rows to the waiting state for the next trial.
func resetRows(state State) State {
	state.Rows = nil
	state = ensureRows(state)
	state.Counts = recount(state.Rows)
	return state
}

// applyFormatEvent updates the row matching the event's format.
func applyFormatEvent(state State, event trial.Event) State {
	for i, row := range state.Rows {
		if row.Format != event.Format {
			continue
		}
		row.Status = event.Type
		switch event.Type {
		case trial.EventGenerating:
			row.Tokens = event.Tokens
			if row.StartedAt.IsZero() {
				row.StartedAt = event.EmittedAt
			}
		case trial.EventDone:
			row.Tokens = event.Tokens
			row.LatencyMs = event.LatencyMs
			row.FinishedAt = event.EmittedAt
		case trial.EventFailed:
			row.Error = event.Error
			row.FinishedAt = event.EmittedAt
		}
		state.Rows[i] = row
		return state
	}
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []FormatRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case trial.EventWaiting:
			counts.Waiting++
		case trial.EventCounting:
			counts.Counting++
		case trial.EventGenerating:
			counts.Generating++
		case trial.EventDone:
			counts.Done++
		case trial.EventFailed:
			counts.Failed++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event trial.Event) string {
	switch event.Type {
	case trial.EventCounting:
		return fmt.Sprintf("%s counting tokens", event.Format)
	case trial.EventGenerating:
		if event.Tokens > 0 {
			return fmt.Sprintf("%s generating (%d tokens sent)", event.Format, event.Tokens)
		}
		return fmt.Sprintf("%s generating", event.Format)
	case trial.EventDone:
		return fmt.Sprintf("%s done in %s", event.Format, formatLatency(event.LatencyMs))
	case trial.EventFailed:
		return fmt.Sprintf("%s failed: %s", event.Format, event.Error)
	}
	return ""
}
