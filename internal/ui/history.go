package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nhle/mailwatch/internal/model"
	"github.com/nhle/mailwatch/internal/theme"
)

// RenderAlerts renders alert history as a table, newest first.
func (l Layout) RenderAlerts(alerts []model.Alert) string {
	if len(alerts) == 0 {
		return theme.DimmedStyle.Render("No alerts recorded.")
	}

	// Fixed columns take roughly 30 cells; the rest is split between
	// sender and subject.
	flexible := l.Width - 30
	if flexible < 20 {
		flexible = 20
	}
	senderWidth := flexible / 3
	subjectWidth := flexible - senderWidth

	rows := make([][]string, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, []string{
			a.CreatedAt.Local().Format("2006-01-02 15:04"),
			a.Job,
			truncate(a.From, senderWidth),
			truncate(subjectOrPlaceholder(a.Subject), subjectWidth),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("WHEN", "JOB", "FROM", "SUBJECT").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			switch col {
			case 0:
				return theme.DimmedStyle.Padding(0, 1)
			case 1:
				if row >= 0 && row < len(rows) {
					return theme.JobLabelStyle(rows[row][1])
				}
				return lipgloss.NewStyle().Padding(0, 1)
			case 2:
				return theme.SenderStyle.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})

	return t.String()
}
