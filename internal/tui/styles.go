package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorWhite     = lipgloss.Color("#FFFFFF")
	colorLightGray = lipgloss.Color("#CCCCCC")
	colorGray      = lipgloss.Color("#888888")
	colorDarkGray  = lipgloss.Color("#444444")
	colorPink      = lipgloss.Color("#d6336c")
	colorBlue      = lipgloss.Color("#1971c2")

	// blank board
	colorPaper = "#FFFFFF"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Align(lipgloss.Center).
			MarginTop(1).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorLightGray).
			Align(lipgloss.Center).
			MarginBottom(2)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorLightGray)

	inputStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDarkGray).
			Italic(true).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorBlue).
			Bold(true)

	eraserStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorPink).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorPink).
			Bold(true)
)

const logo = `
  ┌─┐┌─┐┬  ┬  ┌─┐┌┐ ┌┐ ┌─┐┌─┐┬─┐┌┬┐
  │  │ ││  │  ├─┤├┴┐├┴┐│ │├─┤├┬┘ ││
  └─┘└─┘┴─┘┴─┘┴ ┴└─┘└─┘└─┘┴ ┴┴└──┴┘
`
