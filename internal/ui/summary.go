package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailwatch/internal/model"
	"github.com/nhle/mailwatch/internal/theme"
)

// RenderSummary renders a human-readable digest of a report: the counts
// followed by each important message.
func (l Layout) RenderSummary(report *model.Report) string {
	header := l.RenderHeader(
		"mailwatch "+report.Job,
		report.CheckedAt.Local().Format("2006-01-02 15:04"),
	)

	counts := fmt.Sprintf("%s unread  %s new  %s important",
		theme.CountStyle.Render(fmt.Sprint(report.UnreadCount)),
		theme.CountStyle.Render(fmt.Sprint(report.NewUnreadCount)),
		theme.CountStyle.Render(fmt.Sprint(report.ImportantNewCount)),
	)

	if len(report.ImportantNew) == 0 {
		body := theme.DimmedStyle.Render("Nothing important since the last check.")
		return lipgloss.JoinVertical(lipgloss.Left, header, counts, body)
	}

	inner := l.Width - 4
	lines := make([]string, 0, len(report.ImportantNew)*2+1)
	for _, m := range report.ImportantNew {
		lines = append(lines,
			theme.ImportantStyle.Render(truncate(subjectOrPlaceholder(m.Subject), inner)),
			theme.SenderStyle.Render(truncate(m.From, inner))+"  "+theme.DimmedStyle.Render(m.Date),
		)
	}
	if hidden := report.ImportantNewCount - len(report.ImportantNew); hidden > 0 {
		lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("… and %d more", hidden)))
	}

	panel := theme.BorderStyle.Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, counts, panel)
}

func subjectOrPlaceholder(subject string) string {
	if subject == "" {
		return "(no subject)"
	}
	return subject
}
