package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// VenueListModel is a scrollable list of venues with their distance from
// a reference point.
type VenueListModel struct {
	theme  themes.Theme
	venues []model.Venue
	origin model.Coordinate
	cursor int
	offset int
	width  int
	height int
}

// NewVenueListModel creates an empty venue list.
func NewVenueListModel(origin model.Coordinate, theme themes.Theme) VenueListModel {
	return VenueListModel{
		theme:  theme,
		origin: origin,
		width:  40,
		height: 10,
	}
}

// SetVenues replaces the list contents.
func (m *VenueListModel) SetVenues(venues []model.Venue) {
	m.venues = venues
	m.cursor = 0
	m.offset = 0
}

// Venues returns the listed venues.
func (m VenueListModel) Venues() []model.Venue {
	return m.venues
}

// Cursor returns the highlighted index.
func (m VenueListModel) Cursor() int {
	return m.cursor
}

// Selected returns the highlighted venue.
func (m VenueListModel) Selected() (model.Venue, bool) {
	if m.cursor < 0 || m.cursor >= len(m.venues) {
		return model.Venue{}, false
	}
	return m.venues[m.cursor], true
}

// MoveUp moves the cursor up.
func (m *VenueListModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
}

// MoveDown moves the cursor down.
func (m *VenueListModel) MoveDown() {
	if m.cursor < len(m.venues)-1 {
		m.cursor++
	}
	if visible := m.visibleRows(); m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// Resize updates the component size.
func (m *VenueListModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Each venue takes two lines.
func (m VenueListModel) visibleRows() int {
	return max(1, m.height/2)
}

// View renders the list.
func (m VenueListModel) View() string {
	if len(m.venues) == 0 {
		return m.theme.StatusPending.Render("No venues in this category")
	}

	end := min(len(m.venues), m.offset+m.visibleRows())
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		v := m.venues[i]
		distance := formatDistance(m.origin.DistanceTo(v.Position()))

		name := m.theme.Bold.Render(v.Name)
		prefix := "  "
		if i == m.cursor {
			prefix = lipgloss.NewStyle().Foreground(m.theme.Primary).Render("> ")
			name = m.theme.Selected.Render(v.Name)
		}

		rows = append(rows, fmt.Sprintf("%s%s %s\n    %s",
			prefix,
			name,
			lipgloss.NewStyle().Foreground(m.theme.Muted).Render(distance),
			m.theme.Subtitle.Render(truncate(v.Address, m.width-4)),
		))
	}

	return strings.Join(rows, "\n")
}

func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func truncate(s string, width int) string {
	if width <= 1 || len([]rune(s)) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
