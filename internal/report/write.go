// Package report persists benchmark trials as Markdown plus a structured
// JSON snapshot, reads stored reports back, and aggregates them into
// averaged summaries.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"toonbench/internal/trial"
)

// rawPlaceholder replaces a raw response that cannot be serialized; report
// persistence never fails because of a bad payload.
const rawPlaceholder = `{"error":"raw response was not serializable"}`

// WriteTrial stores one trial: the canonical Markdown report, the JSON
// snapshot, and one raw-response audit file per format.
func WriteTrial(dir string, summary trial.TrialSummary) (OutputPaths, error) {
	paths, err := NewOutputPaths(dir, summary.Timestamp)
	if err != nil {
		return OutputPaths{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(paths.ReportPath(), []byte(RenderTrial(summary)), 0o644); err != nil {
		return OutputPaths{}, fmt.Errorf("write report: %w", err)
	}
	if err := writeSnapshot(paths.SnapshotPath(), summary); err != nil {
		return OutputPaths{}, err
	}
	for _, metrics := range summary.Formats {
		if err := os.WriteFile(paths.RawPath(metrics.Format), rawPayload(metrics.Raw), 0o644); err != nil {
			return OutputPaths{}, fmt.Errorf("write raw response: %w", err)
		}
	}
	return paths, nil
}

// WriteAggregate stores the averaged summary, overwriting the previous one.
// Output is deterministic for a given input set.
func WriteAggregate(dir string, agg AggregatedSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(SummaryReportPath(dir), []byte(RenderAggregate(agg)), 0o644); err != nil {
		return fmt.Errorf("write summary report: %w", err)
	}
	return writeSnapshot(SummarySnapshotPath(dir), agg)
}

func writeSnapshot(path string, value any) error {
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func rawPayload(raw json.RawMessage) []byte {
	if len(raw) == 0 || !json.Valid(raw) {
		return []byte(rawPlaceholder)
	}
	return raw
}
