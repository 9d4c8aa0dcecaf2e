package components

import (
	"testing"

	"github.com/Veraticus/nearby/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name      string
		keys      []string
		complete  bool
		confirmed bool
	}{
		{"enter defaults to no", []string{"enter"}, true, false},
		{"y confirms", []string{"y"}, true, true},
		{"n cancels", []string{"n"}, true, false},
		{"esc cancels", []string{"esc"}, true, false},
		{"move then enter", []string{"right", "enter"}, true, true},
		{"move twice then enter", []string{"right", "left", "enter"}, true, false},
		{"navigation only", []string{"right"}, false, false},
		{"answer is final", []string{"y", "left", "n"}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel("Coupon", "Redeem?", "No", "Yes", themes.Default)
			for _, k := range tt.keys {
				m, _ = m.Update(key(k))
			}
			assert.Equal(t, tt.complete, m.IsComplete())
			assert.Equal(t, tt.confirmed, m.Confirmed())
		})
	}
}

func TestConfirmModel_View(t *testing.T) {
	m := NewConfirmModel("Coupon", "A redeemed coupon cannot be reused.", "No", "Yes", themes.Default)
	m.Resize(80, 20)

	view := m.View()
	assert.Contains(t, view, "Coupon")
	assert.Contains(t, view, "No")
	assert.Contains(t, view, "Yes")
}
