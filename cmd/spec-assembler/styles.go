// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "github.com/charmbracelet/lipgloss"

// Styles for the few lines the CLI writes to stderr itself. lipgloss drops
// the colour when stderr is not a terminal.
var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)
