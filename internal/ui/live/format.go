package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"toonbench/internal/trial"
)

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// statusLabel maps status codes to display labels.
func statusLabel(status trial.EventType) string {
	switch status {
	case trial.EventWaiting:
		return "waiting"
	case trial.EventCounting:
		return "counting"
	case trial.EventGenerating:
		return "generating"
	case trial.EventDone:
		return "done"
	case trial.EventFailed:
		return "failed"
	default:
		return string(status)
	}
}

// formatStatus renders the status cell for a row.
func formatStatus(row FormatRow, noColor bool) string {
	label := statusLabel(row.Status)
	if row.Status == trial.EventFailed && row.Error != "" {
		label = label + ": " + row.Error
	}
	return stylizeStatus(label, row.Status, noColor)
}

// formatTokens formats token counts for display.
func formatTokens(tokens int) string {
	if tokens <= 0 {
		return "n/a"
	}
	return fmtInt(tokens)
}

// formatLatency renders a millisecond measurement for display.
func formatLatency(ms float64) string {
	if ms <= 0 {
		return ""
	}
	return strconv.FormatFloat(ms, 'f', 1, 64) + "ms"
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row FormatRow, now time.Time) string {
	if row.LatencyMs > 0 {
		return formatLatency(row.LatencyMs)
	}
	if !row.StartedAt.IsZero() && row.FinishedAt.IsZero() {
		return now.Sub(row.StartedAt).Round(100 * time.Millisecond).String()
	}
	return ""
}

// formatTrialEnd formats a trial completion message.
func formatTrialEnd(trialNum int, err string) string {
	if err != "" {
		return "Trial " + fmtInt(trialNum) + " failed (" + err + ")"
	}
	return "Trial " + fmtInt(trialNum) + " completed"
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status trial.EventType, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status trial.EventType) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case trial.EventDone:
		color = lipgloss.Color("42")
	case trial.EventFailed:
		color = lipgloss.Color("196")
	case trial.EventWaiting:
		color = lipgloss.Color("39")
	case trial.EventCounting:
		color = lipgloss.Color("201")
	case trial.EventGenerating:
		color = lipgloss.Color("33")
	}
	return lipgloss.NewStyle().Foreground(color)
}
