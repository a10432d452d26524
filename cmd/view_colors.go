package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

var colorSuccess = lipgloss.Color("#00B785")
var colorWarning = lipgloss.Color("#F5A623")
var colorFailure = lipgloss.Color("#E1244C")

var stylePassed = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
var styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("#e08dff")).Bold(true)
var styleFailed = lipgloss.NewStyle().Foreground(colorFailure).Bold(true)
var styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("#407FF8")).Bold(true)
var styleNotSet = lipgloss.NewStyle().Foreground(lipgloss.Color("#5D689C"))

var styleCommand = lipgloss.NewStyle().Foreground(lipgloss.Color("#407FF8")).Bold(true)
var styleCommandBlock = lipgloss.NewStyle().Margin(1, 0).PaddingLeft(2)
var styleParam = lipgloss.NewStyle().Foreground(lipgloss.Color("#00B785"))

var styleHeading = lipgloss.NewStyle().Margin(1, 0, 0, 0)
var styleListItem = lipgloss.NewStyle().Padding(0, 2)
var styleDetail = lipgloss.NewStyle().PaddingLeft(6).Foreground(lipgloss.Color("#5D689C"))
