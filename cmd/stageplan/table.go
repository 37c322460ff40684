package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	warnStyle   = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("208"))
)

// renderTable draws rows with a rounded border. Rows listed in highlight
// are drawn in the warning colour.
func renderTable(headers []string, rows [][]string, highlight map[int]bool) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlight[row]:
				return warnStyle
			default:
				return cellStyle
			}
		}).
		String()
}
