package components

import (
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// RenderCameraModal renders the QR reader overlay. input is the manual
// payload entry, empty when the scanner has no manual feed. The back
// control shows spin while a redemption is in flight.
func RenderCameraModal(input string, fetching bool, spin string, width, height int, theme themes.Theme) string {
	viewfinder := theme.BorderedBox.
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(theme.Primary).
		Width(24).
		Height(8).
		Align(lipgloss.Center, lipgloss.Center).
		Render("Point the camera\nat the QR code")

	back := theme.Chip.Render("Back [Esc]")
	if fetching {
		back = theme.Chip.Render(spin + " Back")
	}

	sections := []string{theme.Title.Render("Read QR code"), viewfinder}
	if input != "" {
		sections = append(sections, "", input)
	}
	sections = append(sections, "", back)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, sections...))
}
