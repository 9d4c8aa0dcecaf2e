package components

import (
	"github.com/Veraticus/nearby/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Alert is a blocking message. OnAck, when set, is emitted once the user
// acknowledges it.
type Alert struct {
	OnAck   tea.Msg
	Title   string
	Message string
	Error   bool
}

// AlertModel shows alerts one at a time, in the order they were pushed.
type AlertModel struct {
	theme  themes.Theme
	queue  []Alert
	width  int
	height int
}

// NewAlertModel creates an empty alert queue.
func NewAlertModel(theme themes.Theme) AlertModel {
	return AlertModel{theme: theme}
}

// Push enqueues an alert.
func (m *AlertModel) Push(alert Alert) {
	m.queue = append(m.queue, alert)
}

// Active reports whether an alert is waiting for acknowledgement.
func (m AlertModel) Active() bool {
	return len(m.queue) > 0
}

// Current returns the alert on screen.
func (m AlertModel) Current() (Alert, bool) {
	if len(m.queue) == 0 {
		return Alert{}, false
	}
	return m.queue[0], true
}

// Len returns the number of pending alerts.
func (m AlertModel) Len() int {
	return len(m.queue)
}

// Update acknowledges the current alert on enter, esc or space.
func (m AlertModel) Update(msg tea.Msg) (AlertModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if len(m.queue) == 0 {
			return m, nil
		}
		switch msg.String() {
		case "enter", "esc", " ", "o":
			acked := m.queue[0]
			m.queue = m.queue[1:]
			if acked.OnAck != nil {
				ack := acked.OnAck
				return m, func() tea.Msg { return ack }
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the current alert, or nothing.
func (m AlertModel) View() string {
	alert, ok := m.Current()
	if !ok {
		return ""
	}

	title := m.theme.StatusInfo.Render(alert.Title)
	if alert.Error {
		title = m.theme.StatusError.Render(alert.Title)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		m.theme.Normal.Width(max(20, min(m.width-8, 50))).Render(alert.Message),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[Enter] OK"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.theme.RoundedBox.Render(content))
}

// Resize updates the component size.
func (m *AlertModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
