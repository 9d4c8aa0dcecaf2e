package components

import (
	"math"
	"strings"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

const (
	tileSize = 256.0
	// A terminal cell is roughly twice as tall as it is wide.
	cellWidthPx  = 16.0
	cellHeightPx = 32.0
)

// MapModel plots venue markers on a text grid centred on the camera.
type MapModel struct {
	theme      themes.Theme
	markers    []model.Venue
	center     model.Coordinate
	origin     model.Coordinate
	zoom       float64
	selected   int
	animations int
	width      int
	height     int
}

// NewMapModel creates a map with the camera at origin.
func NewMapModel(origin model.Coordinate, zoom float64, theme themes.Theme) MapModel {
	return MapModel{
		theme:    theme,
		center:   origin,
		origin:   origin,
		zoom:     zoom,
		selected: -1,
		width:    40,
		height:   12,
	}
}

// AnimateCamera moves the camera.
func (m *MapModel) AnimateCamera(center model.Coordinate, zoom float64) {
	m.center = center
	m.zoom = zoom
	m.animations++
}

// Animations returns how many times the camera was moved.
func (m MapModel) Animations() int {
	return m.animations
}

// Center returns the camera position.
func (m MapModel) Center() (model.Coordinate, float64) {
	return m.center, m.zoom
}

// SetMarkers replaces the plotted venues.
func (m *MapModel) SetMarkers(venues []model.Venue) {
	m.markers = venues
	if m.selected >= len(venues) {
		m.selected = -1
	}
}

// Markers returns the plotted venues.
func (m MapModel) Markers() []model.Venue {
	return m.markers
}

// Highlight marks one marker as selected; -1 clears it.
func (m *MapModel) Highlight(index int) {
	m.selected = index
}

// Resize updates the component size.
func (m *MapModel) Resize(width, height int) {
	m.width = max(width, 3)
	m.height = max(height, 3)
}

// worldPixel projects a coordinate to Web Mercator pixels at zoom.
func worldPixel(c model.Coordinate, zoom float64) (float64, float64) {
	scale := tileSize * math.Pow(2, zoom)
	lat := c.Latitude * math.Pi / 180
	x := (c.Longitude + 180) / 360 * scale
	y := (1 - math.Log(math.Tan(lat)+1/math.Cos(lat))/math.Pi) / 2 * scale
	return x, y
}

// Project returns the grid cell of c, and false when it falls outside the
// visible area.
func (m MapModel) Project(c model.Coordinate) (col, row int, ok bool) {
	cx, cy := worldPixel(m.center, m.zoom)
	px, py := worldPixel(c, m.zoom)

	col = m.width/2 + int(math.Round((px-cx)/cellWidthPx))
	row = m.height/2 + int(math.Round((py-cy)/cellHeightPx))

	return col, row, col >= 0 && col < m.width && row >= 0 && row < m.height
}

// View renders the map.
func (m MapModel) View() string {
	grid := make([][]string, m.height)
	for r := range grid {
		grid[r] = make([]string, m.width)
		for c := range grid[r] {
			grid[r][c] = lipgloss.NewStyle().Foreground(m.theme.Border).Render("·")
		}
	}

	if col, row, ok := m.Project(m.origin); ok {
		grid[row][col] = m.theme.Origin.Render("◎")
	}

	// Selected marker drawn last so it stays on top.
	for i, v := range m.markers {
		if i == m.selected {
			continue
		}
		if col, row, ok := m.Project(v.Position()); ok {
			grid[row][col] = m.theme.Marker.Render("●")
		}
	}
	if m.selected >= 0 && m.selected < len(m.markers) {
		if col, row, ok := m.Project(m.markers[m.selected].Position()); ok {
			grid[row][col] = m.theme.MarkerSelected.Render("◆")
		}
	}

	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = strings.Join(row, "")
	}

	return m.theme.BorderedBox.Render(strings.Join(lines, "\n"))
}
