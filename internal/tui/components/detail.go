package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// RenderVenueDetail renders the venue page. coupon is the redeemed code,
// empty when nothing was redeemed in this session.
func RenderVenueDetail(detail model.VenueDetail, coupon string, width int, theme themes.Theme) string {
	wrap := theme.Normal.Width(max(20, width-4))
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	sections := []string{
		theme.Title.Render(detail.Name),
		wrap.Render(detail.Description),
		"",
		theme.Bold.Render("Information"),
		fmt.Sprintf("%s %s", muted.Render("Coupons available:"), theme.StatusInfo.Render(fmt.Sprint(detail.Coupons))),
		fmt.Sprintf("%s %s", muted.Render("Address:"), detail.Address),
	}
	if detail.Phone != "" {
		sections = append(sections, fmt.Sprintf("%s %s", muted.Render("Phone:"), detail.Phone))
	}
	if detail.OpeningHours != "" {
		hours := detail.OpeningHours
		if detail.WeekDays != "" {
			hours = detail.WeekDays + ", " + hours
		}
		sections = append(sections, fmt.Sprintf("%s %s", muted.Render("Opening hours:"), hours))
	}

	if len(detail.Rules) > 0 {
		rules := make([]string, 0, len(detail.Rules))
		for _, r := range detail.Rules {
			rules = append(rules, "• "+r.Description)
		}
		sections = append(sections, "", theme.Bold.Render("Rules"), wrap.Render(strings.Join(rules, "\n")))
	}

	if coupon != "" {
		sections = append(sections,
			"",
			theme.Bold.Render("Use this coupon"),
			theme.StatusSuccess.Render("🎟 ")+theme.Code.Render(coupon),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
