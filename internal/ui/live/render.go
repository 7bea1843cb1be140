package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the series header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Token format benchmark"
	if state.Model != "" {
		line += " | Model: " + state.Model
	}
	if state.Total > 0 {
		line += " | Trial " + fmtInt(state.Trial) + "/" + fmtInt(state.Total)
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Waiting: " + fmtInt(counts.Waiting) +
		" Counting: " + fmtInt(counts.Counting) +
		" Generating: " + fmtInt(counts.Generating) +
		" Done: " + fmtInt(counts.Done) +
		" Failed: " + fmtInt(counts.Failed)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
