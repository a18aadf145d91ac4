package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the tracker uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
)

const (
	colorAccent   = colorPink
	colorSuccess  = colorGreen
	colorError    = colorRed
	colorFocus    = colorYellow
	colorEnabled  = colorBlue
	colorDisabled = colorSurface1
)

var (
	titleStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true)
	buttonStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder())
	enabledStyle   = buttonStyle.BorderForeground(colorEnabled).Foreground(colorText)
	disabledStyle  = buttonStyle.BorderForeground(colorDisabled).Foreground(colorOverlay0)
	snackStyle     = lipgloss.NewStyle().Foreground(colorText).Background(colorSurface0).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(colorSubtext0)
	statusOKStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrStyle = lipgloss.NewStyle().Foreground(colorError)
	cursorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
)
