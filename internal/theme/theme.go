package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the title line of a summary or table.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// CountStyle renders the numbers in the run summary.
var CountStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// ImportantStyle highlights important message subjects.
var ImportantStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// SenderStyle is used for the sender column.
var SenderStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// DimmedStyle is used for dates and secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// JobLabelStyle returns a color-coded style for a job name.
func JobLabelStyle(job string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch job {
	case "check":
		return base.Foreground(ColorBlue)
	case "ing":
		return base.Foreground(ColorGreen)
	default:
		return base.Foreground(ColorGray)
	}
}
