package report

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"toonbench/internal/trial"
)

// tableAnchor is the column name used to locate the metrics table header.
const tableAnchor = "Input Tokens Sent"

// ParseTrial recovers a TrialSummary from a stored Markdown report.
// Numeric fields are read back from their formatted forms; deltas are
// recomputed from the parsed metrics so table and deltas can never
// disagree, with conversion overhead taken from its dedicated line when one
// is present.
func ParseTrial(data []byte) (trial.TrialSummary, error) {
	lines := strings.Split(string(data), "\n")
	summary := trial.TrialSummary{
		Model:     metadataValue(lines, "Model"),
		Dataset:   metadataValue(lines, "Dataset"),
		Timestamp: metadataValue(lines, "Timestamp"),
	}
	if summary.Timestamp == "" {
		return trial.TrialSummary{}, fmt.Errorf("missing Timestamp metadata line")
	}

	formats, err := parseMetricsTable(lines)
	if err != nil {
		return trial.TrialSummary{}, err
	}
	if len(formats) != len(trial.Formats()) {
		return trial.TrialSummary{}, fmt.Errorf("expected %d metrics rows, found %d", len(trial.Formats()), len(formats))
	}
	summary.Formats = formats
	summary.Deltas = trial.ComputeDeltas(formats)
	applyOverheadLines(lines, summary.Deltas)
	return summary, nil
}

// ParseTrialFile reads and parses one stored report.
func ParseTrialFile(path string) (trial.TrialSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return trial.TrialSummary{}, err
	}
	summary, err := ParseTrial(data)
	if err != nil {
		return trial.TrialSummary{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return summary, nil
}

// metadataValue extracts the value of a `**Label:** value` line.
func metadataValue(lines []string, label string) string {
	prefix := "**" + label + ":** "
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}

func parseMetricsTable(lines []string) ([]trial.FormatMetrics, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, "|") && strings.Contains(line, tableAnchor) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("metrics table not found")
	}

	formats := make([]trial.FormatMetrics, 0, len(trial.Formats()))
	for _, line := range lines[start:] {
		if strings.HasPrefix(line, "##") {
			break
		}
		cells := splitRow(line)
		if len(cells) == 0 || isSeparatorRow(cells) {
			continue
		}
		metrics, err := parseMetricsRow(cells)
		if err != nil {
			return nil, err
		}
		formats = append(formats, metrics)
	}
	return formats, nil
}

// splitRow splits a pipe-delimited row, trimming cells and dropping the
// empty fragments produced by the leading and trailing pipes.
func splitRow(line string) []string {
	if !strings.Contains(line, "|") {
		return nil
	}
	fragments := strings.Split(line, "|")
	cells := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}
		cells = append(cells, trimmed)
	}
	return cells
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		if strings.Trim(cell, "-: ") != "" {
			return false
		}
	}
	return true
}

func parseMetricsRow(cells []string) (trial.FormatMetrics, error) {
	if len(cells) != len(metricsColumns) {
		return trial.FormatMetrics{}, fmt.Errorf("metrics row has %d cells, expected %d", len(cells), len(metricsColumns))
	}
	preflight, err := parseTokenCell(cells[1])
	if err != nil {
		return trial.FormatMetrics{}, err
	}
	prompt, err := parseTokenCell(cells[2])
	if err != nil {
		return trial.FormatMetrics{}, err
	}
	total, err := parseTokenCell(cells[3])
	if err != nil {
		return trial.FormatMetrics{}, err
	}
	conversion, err := parseMsCell(cells[4])
	if err != nil {
		return trial.FormatMetrics{}, err
	}
	latency, err := parseMsCell(cells[5])
	if err != nil {
		return trial.FormatMetrics{}, err
	}
	return trial.FormatMetrics{
		Format:          trial.Format(cells[0]),
		PreflightTokens: preflight,
		PromptTokens:    prompt,
		TotalTokens:     total,
		ConversionMs:    conversion,
		LatencyMs:       latency,
	}, nil
}

// parseTokenCell normalizes thousands separators and maps the n/a marker
// back to zero.
func parseTokenCell(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if strings.EqualFold(cell, "n/a") {
		return 0, nil
	}
	cell = strings.ReplaceAll(cell, ",", "")
	value, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("parse token count %q: %w", cell, err)
	}
	return value, nil
}

// parseMsCell parses the trailing numeric portion before the ms suffix.
func parseMsCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	trimmed := strings.TrimSuffix(cell, "ms")
	if idx := strings.LastIndexByte(trimmed, ' '); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", cell, err)
	}
	return value, nil
}

// applyOverheadLines overrides computed conversion overheads with the
// dedicated signed lines from the deltas section when they exist.
func applyOverheadLines(lines []string, deltas []trial.PairDelta) {
	for i := range deltas {
		if value, ok := overheadFor(lines, deltas[i].Label()); ok {
			deltas[i].ConversionOverheadMs = value
		}
	}
}

func overheadFor(lines []string, label string) (float64, bool) {
	heading := "### " + label
	inSection := false
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "### "):
			inSection = strings.TrimSpace(line) == heading
		case strings.HasPrefix(line, "## "):
			inSection = false
		case inSection && strings.Contains(line, "Conversion overhead:"):
			_, rest, found := strings.Cut(line, "Conversion overhead:")
			if !found {
				continue
			}
			value, err := parseMsCell(strings.TrimPrefix(strings.TrimSpace(rest), "+"))
			if err != nil {
				continue
			}
			return value, true
		}
	}
	return 0, false
}
