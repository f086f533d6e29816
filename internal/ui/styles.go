// Package ui renders dfac's human-readable status lines.
//
// Color palette:
//   - Default terminal color for primary text
//   - Accent (soft purple) for paths and app names
//   - Muted (gray) for hints and secondary info
//
// Success/error state is carried by unicode symbols, not color, so the
// output stays legible in logs and on monochrome terminals.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Accent highlights file paths, directory names, and app names.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted renders hints and secondary info.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold emphasizes headers.
	Bold = lipgloss.NewStyle().Bold(true)
)

// DisableStyles strips all styling; used when stdout is not a terminal.
func DisableStyles() {
	Accent = lipgloss.NewStyle()
	Muted = lipgloss.NewStyle()
	Bold = lipgloss.NewStyle()
}
