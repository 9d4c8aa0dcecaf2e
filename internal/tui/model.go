package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies the mounted screen.
type Screen int

const (
	ScreenDiscovery Screen = iota
	ScreenVenue
)

// Model is the root of the program. It owns the two-screen stack and routes
// every screen message to the screen instance it was issued by.
type Model struct {
	ctx         context.Context
	redemption  *RedemptionModel
	config      Config
	keymap      KeyMap
	discovery   DiscoveryModel
	nextSession uint64
	width       int
	height      int
	quitting    bool
}

// newModel creates the root model with discovery mounted.
func newModel(ctx context.Context, cfg Config) Model {
	m := Model{
		ctx:    ctx,
		config: cfg,
		keymap: DefaultKeyMap(),
		width:  cfg.Width,
		height: cfg.Height,
	}
	m.discovery = NewDiscoveryModel(ctx, m.session(), cfg)
	return m
}

func (m *Model) session() uint64 {
	m.nextSession++
	return m.nextSession
}

// Init starts the discovery screen.
func (m Model) Init() tea.Cmd {
	return m.discovery.Init()
}

// Screen returns the screen on top of the stack.
func (m Model) Screen() Screen {
	if m.redemption != nil {
		return ScreenVenue
	}
	return ScreenDiscovery
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) ||
			(key.Matches(msg, m.keymap.Quit) && m.redemption == nil && !m.discovery.alerts.Active()) {
			m.shutdown()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.Width = msg.Width
		m.config.Height = msg.Height

		var cmd tea.Cmd
		m.discovery, cmd = m.discovery.Update(msg)
		if m.redemption != nil {
			m.redemption.Resize(msg.Width, msg.Height)
		}
		return m, cmd

	case openVenueMsg:
		if msg.screenSession() != m.discovery.env.session || m.redemption != nil {
			return m, nil
		}
		return m, m.push(msg.venueID)

	case navigateBackMsg:
		m.pop(msg.screenSession())
		return m, nil

	case redirectHomeMsg:
		m.pop(msg.screenSession())
		return m, nil

	case screenMsg:
		return m, m.route(msg)
	}

	// Input and widget ticks go to the screen on top.
	if m.redemption != nil {
		r, cmd := m.redemption.Update(msg)
		m.redemption = &r
		return m, cmd
	}

	var cmd tea.Cmd
	m.discovery, cmd = m.discovery.Update(msg)
	return m, cmd
}

func (m *Model) route(msg screenMsg) tea.Cmd {
	switch session := msg.screenSession(); {
	case session == m.discovery.env.session:
		var cmd tea.Cmd
		m.discovery, cmd = m.discovery.Update(msg)
		return cmd

	case m.redemption != nil && session == m.redemption.env.session:
		r, cmd := m.redemption.Update(msg)
		m.redemption = &r
		return cmd
	}

	slog.Debug("dropping message for unmounted screen", "session", msg.screenSession(), "type", fmt.Sprintf("%T", msg))
	return nil
}

// push mounts the venue screen.
func (m *Model) push(venueID string) tea.Cmd {
	r := NewRedemptionModel(m.ctx, m.session(), venueID, m.config)
	m.redemption = &r
	return m.redemption.Init()
}

// pop unmounts the venue screen if session still identifies it.
func (m *Model) pop(session uint64) {
	if m.redemption == nil || m.redemption.env.session != session {
		return
	}
	m.redemption.Close()
	m.redemption = nil
}

func (m *Model) shutdown() {
	m.quitting = true
	if m.redemption != nil {
		m.redemption.Close()
	}
	m.discovery.Close()
}

// View renders the screen on top of the stack.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.redemption != nil {
		return m.redemption.View()
	}
	return m.discovery.View()
}
