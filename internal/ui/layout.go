package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mailwatch/internal/theme"
)

// defaultWidth is used when the terminal width is unknown.
const defaultWidth = 100

// Layout holds the output width the renderers fit into.
type Layout struct {
	Width int
}

// NewLayout creates a Layout for the given terminal width. A width of zero
// or less falls back to defaultWidth.
func NewLayout(width int) Layout {
	if width <= 0 {
		width = defaultWidth
	}
	return Layout{Width: width}
}

// RenderHeader renders a title bar with a right-aligned status.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)
	statusRendered := theme.DimmedStyle.Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 1 {
		gap = 1
	}

	filler := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// truncate shortens s to at most max display cells, marking the cut.
func truncate(s string, max int) string {
	if max <= 0 || lipgloss.Width(s) <= max {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > max {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
