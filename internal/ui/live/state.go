package live

import (
	"time"

	"toonbench/internal/trial"
)

// FormatRow holds UI state for a single format sub-task.
type FormatRow struct {
	Format     trial.Format
	Status     trial.EventType
	Tokens     int
	LatencyMs  float64
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// StatusCounts aggregates format rows by status bucket.
type StatusCounts struct {
	Waiting    int
	Counting   int
	Generating int
	Done       int
	Failed     int
}

// State captures the live UI state for a benchmark series.
type State struct {
	Model     string
	Trial     int
	Total     int
	StartedAt time.Time
	LastEvent string
	Rows      []FormatRow
	Counts    StatusCounts
}
