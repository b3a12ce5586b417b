package main

import "github.com/charmbracelet/lipgloss"

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808A94"))
)
