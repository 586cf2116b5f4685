package tui

import "github.com/charmbracelet/lipgloss"

const headerBackgroundColor = "#1e7ba0"

var (
	colorLightOn  = lipgloss.Color("#FBBF24")
	colorLightOff = lipgloss.Color("#4A4A5A")
	colorMuted    = lipgloss.Color("#A0A0B0")
	colorPlaying  = lipgloss.Color("#68D391")
	colorError    = lipgloss.Color("#FC8181")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(headerBackgroundColor)).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color(headerBackgroundColor))

	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	roomStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	onStyle     = lipgloss.NewStyle().Foreground(colorLightOn)
	offStyle    = lipgloss.NewStyle().Foreground(colorLightOff)
	playStyle   = lipgloss.NewStyle().Foreground(colorPlaying).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)
