package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// truncate shortens s to maxWidth terminal cells, adding "..." if truncated
func truncate(s string, maxWidth int) string {
	return runewidth.Truncate(s, maxWidth, "...")
}

var (
	// Colors
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#06B6D4")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

// styles are bound to one renderer so the color profile follows the
// writer being rendered to.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	accent   lipgloss.Style
	success  lipgloss.Style
	err      lipgloss.Style
	muted    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Foreground(colorPrimary).
			Bold(true),
		subtitle: r.NewStyle().
			Foreground(colorMuted),
		accent: r.NewStyle().
			Foreground(colorSecondary).
			Bold(true),
		success: r.NewStyle().
			Foreground(colorSuccess),
		err: r.NewStyle().
			Foreground(colorError).
			Bold(true),
		muted: r.NewStyle().
			Foreground(colorMuted),
	}
}
