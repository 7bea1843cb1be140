package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// defaultColumns returns the format table layout.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Format", Width: 10},
		{Title: "Status", Width: 32},
		{Title: "Tokens", Width: 8},
		{Title: "Time", Width: 12},
	}
}

// columnsForWidth widens the status column to fill the terminal.
func columnsForWidth(width int) []table.Column {
	columns := defaultColumns()
	fixed := 0
	for i, column := range columns {
		if i != 1 {
			fixed += column.Width
		}
	}
	if remaining := width - fixed - 8; remaining > columns[1].Width {
		columns[1].Width = remaining
	}
	return columns
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			string(row.Format),
			formatStatus(row, noColor),
			formatTokens(row.Tokens),
			formatRowDuration(row, now),
		})
	}
	return rows
}
