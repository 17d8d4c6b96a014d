package cmd

import "github.com/charmbracelet/lipgloss"

// Colors used by the CLI output.
var (
	colorRed    = lipgloss.Color("#FF0000")
	colorCyan   = lipgloss.Color("#00FFFF")
	colorGray   = lipgloss.Color("#666666")
	colorYellow = lipgloss.Color("#FFFF00")
)

// Styles reused across commands.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	tagStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	recordingDotStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				Bold(true)

	thoughtsStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)
)
