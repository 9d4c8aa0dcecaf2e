package tui

import (
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders a one-line key legend.
func renderHelp(bindings []key.Binding, theme themes.Theme) string {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Secondary)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h.ShortHelpView(bindings)
}
