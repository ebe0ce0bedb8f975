package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("39")  // blue
	colorMuted  = lipgloss.Color("240") // gray
	colorError  = lipgloss.Color("196") // red
	colorLive   = lipgloss.Color("196") // red, lit phase of the indicator
	colorIdle   = lipgloss.Color("238") // dark gray, unlit phase
	colorSHA    = lipgloss.Color("214") // orange
	colorRepo   = lipgloss.Color("135") // purple
	colorTime   = lipgloss.Color("244") // light gray

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	panelErrorStyle = panelStyle.BorderForeground(colorError)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	liveOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorLive)
	liveOffStyle = lipgloss.NewStyle().Foreground(colorIdle)

	clockStyle = lipgloss.NewStyle().Foreground(colorMuted)
	glyphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	shaStyle     = lipgloss.NewStyle().Foreground(colorSHA)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	repoStyle    = lipgloss.NewStyle().Foreground(colorRepo)
	timeStyle    = lipgloss.NewStyle().Foreground(colorTime)

	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)

	footerStyle = lipgloss.NewStyle().Foreground(colorMuted)

	emptyStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(colorAccent)
)
