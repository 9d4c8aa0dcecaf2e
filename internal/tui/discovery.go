package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/service"
	"github.com/Veraticus/nearby/internal/tui/components"
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DiscoveryModel is the home screen: category filter, venue map and list.
type DiscoveryModel struct {
	ctx        context.Context
	gateway    service.Gateway
	cancel     context.CancelFunc
	keys       KeyMap
	theme      themes.Theme
	camera     Camera
	selected   string
	categories []model.Category
	venues     []model.Venue
	alerts     components.AlertModel
	mapView    components.MapModel
	list       components.VenueListModel
	env        envelope
	generation uint64
	width      int
	height     int
}

// NewDiscoveryModel creates the discovery screen. Its commands run under a
// child of ctx that Close cancels.
func NewDiscoveryModel(ctx context.Context, session uint64, cfg Config) DiscoveryModel {
	ctx, cancel := context.WithCancel(ctx)

	m := DiscoveryModel{
		ctx:     ctx,
		cancel:  cancel,
		env:     envelope{session: session},
		gateway: cfg.Gateway,
		keys:    DefaultKeyMap(),
		theme:   cfg.Theme,
		camera:  cfg.Camera,
		alerts:  components.NewAlertModel(cfg.Theme),
		mapView: components.NewMapModel(ReferenceLocation, 1, cfg.Theme),
		list:    components.NewVenueListModel(ReferenceLocation, cfg.Theme),
	}
	m.Resize(cfg.Width, cfg.Height)
	return m
}

// Init loads categories and venues once and moves the map camera to the
// reference point.
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(
		m.loadCategories(),
		m.loadVenues(),
		m.animateCamera(),
	)
}

// Close cancels every in-flight command of the screen.
func (m DiscoveryModel) Close() {
	m.cancel()
}

// Update handles messages.
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		return m, m.handleCategories(msg)

	case venuesLoadedMsg:
		m.handleVenues(msg)
		return m, nil

	case animateCameraMsg:
		m.mapView.AnimateCamera(msg.center, msg.zoom)
		return m, nil

	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if m.alerts.Active() {
			var cmd tea.Cmd
			m.alerts, cmd = m.alerts.Update(msg)
			return m, cmd
		}
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *DiscoveryModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.NextCategory):
		return m.cycleCategory(1)

	case key.Matches(msg, m.keys.PrevCategory):
		return m.cycleCategory(-1)

	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
		m.mapView.Highlight(m.list.Cursor())

	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
		m.mapView.Highlight(m.list.Cursor())

	case key.Matches(msg, m.keys.Open):
		if venue, ok := m.list.Selected(); ok {
			return emit(openVenueMsg{envelope: m.env, venueID: venue.ID})
		}
	}
	return nil
}

func (m *DiscoveryModel) cycleCategory(step int) tea.Cmd {
	n := len(m.categories)
	if n == 0 {
		return nil
	}

	current := 0
	for i, c := range m.categories {
		if c.ID == m.selected {
			current = i
			break
		}
	}
	return m.selectCategory(m.categories[((current+step)%n+n)%n].ID)
}

// selectCategory changes the filter. Venues are refetched only when the
// value actually changes.
func (m *DiscoveryModel) selectCategory(id string) tea.Cmd {
	if id == m.selected {
		return nil
	}
	m.selected = id
	return m.loadVenues()
}

// loadCategories fetches the category list.
func (m DiscoveryModel) loadCategories() tea.Cmd {
	ctx, env, gateway := m.ctx, m.env, m.gateway
	return func() tea.Msg {
		if gateway == nil {
			return categoriesLoadedMsg{envelope: env, err: fmt.Errorf("gateway not configured")}
		}

		categories, err := gateway.ListCategories(ctx)
		return categoriesLoadedMsg{envelope: env, categories: categories, err: err}
	}
}

// loadVenues fetches the venues of the selected category. Each request is
// stamped with a new generation; only the latest one is applied.
func (m *DiscoveryModel) loadVenues() tea.Cmd {
	if m.selected == "" {
		return nil
	}

	m.generation++
	ctx, env, gateway := m.ctx, m.env, m.gateway
	generation, categoryID := m.generation, m.selected

	return func() tea.Msg {
		msg := venuesLoadedMsg{envelope: env, generation: generation, categoryID: categoryID}
		if gateway == nil {
			msg.err = fmt.Errorf("gateway not configured")
			return msg
		}

		msg.venues, msg.err = gateway.ListVenuesByCategory(ctx, categoryID)
		return msg
	}
}

func (m DiscoveryModel) animateCamera() tea.Cmd {
	return emit(animateCameraMsg{envelope: m.env, center: m.camera.Center, zoom: m.camera.Zoom})
}

func (m *DiscoveryModel) handleCategories(msg categoriesLoadedMsg) tea.Cmd {
	if msg.err != nil {
		m.fail("load_categories", msg.err, "Could not load the categories.")
		return nil
	}

	m.categories = msg.categories
	if m.selected == "" && len(m.categories) > 0 {
		return m.selectCategory(m.categories[0].ID)
	}
	return nil
}

func (m *DiscoveryModel) handleVenues(msg venuesLoadedMsg) {
	if msg.generation != m.generation || msg.categoryID != m.selected {
		common.LogDebug("discarding stale venue response", common.Fields{
			"category":   msg.categoryID,
			"generation": msg.generation,
			"current":    m.generation,
		})
		return
	}

	if msg.err != nil {
		m.fail("load_venues", msg.err, "Could not load the venues")
		return
	}

	m.venues = msg.venues
	m.list.SetVenues(msg.venues)
	m.mapView.SetMarkers(msg.venues)
	if len(msg.venues) > 0 {
		m.mapView.Highlight(0)
	}
}

// fail alerts the user about a failed load. Loads aborted by the screen
// going away are not reported.
func (m *DiscoveryModel) fail(op string, err error, message string) {
	if errors.Is(err, context.Canceled) {
		return
	}

	err = fmt.Errorf("%w: %w", common.ErrLoadFailure, err)
	common.LogWarn(err, "discovery load failed", common.Fields{"operation": op})
	m.alerts.Push(components.Alert{
		Title:   "Error",
		Message: common.UserMessage(err, message),
		Error:   true,
	})
}

// Resize updates the layout.
func (m *DiscoveryModel) Resize(width, height int) {
	m.width = width
	m.height = height
	m.alerts.Resize(width, height)

	body := max(height-6, 6)
	if width >= 100 {
		m.mapView.Resize(width/2-4, body-2)
		m.list.Resize(width/2-2, body)
		return
	}
	m.mapView.Resize(width-4, body/2-2)
	m.list.Resize(width-2, body/2)
}

// View renders the screen.
func (m DiscoveryModel) View() string {
	if m.alerts.Active() {
		return m.alerts.View()
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render("📍 Nearby"),
		components.RenderCategoryBar(m.categories, m.selected, m.theme),
	)

	var body string
	if m.width >= 100 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.mapView.View(), "  ", m.list.View())
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.mapView.View(), m.list.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", renderHelp(m.keys.DiscoveryHelp(), m.theme))
}
