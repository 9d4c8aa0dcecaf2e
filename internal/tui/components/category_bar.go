package components

import (
	"strings"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/tui/themes"
)

// RenderCategoryBar renders the category filter chips, highlighting the
// selected one.
func RenderCategoryBar(categories []model.Category, selected string, theme themes.Theme) string {
	if len(categories) == 0 {
		return theme.StatusPending.Render("Loading categories...")
	}

	chips := make([]string, 0, len(categories))
	for _, c := range categories {
		label := themes.GetCategoryIcon(c.IconID) + " " + c.Name
		if c.ID == selected {
			chips = append(chips, theme.ChipSelected.Render(label))
			continue
		}
		chips = append(chips, theme.Chip.Render(label))
	}

	return strings.Join(chips, " ")
}
