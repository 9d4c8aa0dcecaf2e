package components

import (
	"github.com/Veraticus/nearby/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a binary yes/no dialog. The cursor starts on the
// negative answer.
type ConfirmModel struct {
	theme     themes.Theme
	title     string
	message   string
	negative  string
	positive  string
	cursor    int
	width     int
	height    int
	complete  bool
	confirmed bool
}

// NewConfirmModel creates a confirmation dialog.
func NewConfirmModel(title, message, negative, positive string, theme themes.Theme) ConfirmModel {
	return ConfirmModel{
		theme:    theme,
		title:    title,
		message:  message,
		negative: negative,
		positive: positive,
	}
}

// Update handles messages.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	if m.complete {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "right", "h", "l", "tab", "shift+tab":
			m.cursor = 1 - m.cursor

		case "y":
			m.cursor = 1
			m.complete = true

		case "n", "esc":
			m.cursor = 0
			m.complete = true

		case "enter", " ":
			m.complete = true
		}
		m.confirmed = m.complete && m.cursor == 1

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// View renders the dialog.
func (m ConfirmModel) View() string {
	buttons := make([]string, 0, 2)
	for i, label := range []string{m.negative, m.positive} {
		style := m.theme.Chip
		if i == m.cursor {
			style = m.theme.ChipSelected
		}
		buttons = append(buttons, style.Render(label))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		m.theme.Title.Render(m.title),
		m.theme.Normal.Width(max(20, min(m.width-8, 50))).Render(m.message),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, buttons[0], "  ", buttons[1]),
		"",
		lipgloss.NewStyle().Foreground(m.theme.Muted).Render("[←→] Choose | [y/n] Answer | [Enter] Confirm"),
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.theme.RoundedBox.Render(content))
}

// IsComplete returns whether an answer was given.
func (m ConfirmModel) IsComplete() bool {
	return m.complete
}

// Confirmed reports whether the positive answer was chosen.
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// Resize updates the component size.
func (m *ConfirmModel) Resize(width, height int) {
	m.width = width
	m.height = height
}
