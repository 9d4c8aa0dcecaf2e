// Package cli provides styled terminal output and prompts for the nearby
// commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	brandColor  = lipgloss.Color("#2C9A6D")
	couponColor = lipgloss.Color("#F2A541")
	mutedColor  = lipgloss.Color("#666666")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(brandColor)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(brandColor)

	venueNameStyle = lipgloss.NewStyle().Bold(true)
	distanceStyle  = lipgloss.NewStyle().Foreground(brandColor)

	// Coupon counts turn muted once a venue has nothing left to give.
	couponCountStyle = lipgloss.NewStyle().Bold(true).Foreground(couponColor)

	// The issued code is what the customer shows at the counter.
	couponCodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(couponColor).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandColor).
			Padding(1, 2)

	couponCardStyle = cardStyle.
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(couponColor)
)

const (
	pinIcon    = "📍"
	ticketIcon = "🎟️"
	phoneIcon  = "☎ "
	clockIcon  = "🕑"
)

// FormatSuccess formats a success message.
func FormatSuccess(message string) string {
	return successStyle.Render("✓ " + message)
}

// FormatWarning formats a warning message.
func FormatWarning(message string) string {
	return warningStyle.Render("⚠️ " + message)
}

// FormatInfo formats an informational message.
func FormatInfo(message string) string {
	return infoStyle.Render("ℹ️ " + message)
}

// FormatTitle formats a listing heading.
func FormatTitle(title string) string {
	return titleStyle.Render(pinIcon + " " + title)
}

// FormatPrompt formats a question put to the user.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// formatDistance renders metres below one kilometre and tenths of a
// kilometre above.
func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}

func formatCoupons(n int) string {
	switch {
	case n <= 0:
		return mutedStyle.Render(ticketIcon + " no coupons left")
	case n == 1:
		return couponCountStyle.Render(ticketIcon + " 1 coupon available")
	default:
		return couponCountStyle.Render(fmt.Sprintf("%s %d coupons available", ticketIcon, n))
	}
}

func renderCard(style lipgloss.Style, title, content string) string {
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content))
}

// RenderCategories lists categories one per line.
func RenderCategories(categories []model.Category) string {
	if len(categories) == 0 {
		return mutedStyle.Render("No categories.")
	}

	var b strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&b, "%s  %s\n", venueNameStyle.Render(c.ID), c.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderVenues lists venues with their distance from origin.
func RenderVenues(venues []model.Venue, origin model.Coordinate) string {
	if len(venues) == 0 {
		return mutedStyle.Render("No venues in this category.")
	}

	var b strings.Builder
	for _, v := range venues {
		fmt.Fprintf(&b, "%s  %s  %s\n",
			venueNameStyle.Render(v.Name),
			mutedStyle.Render(v.Address),
			distanceStyle.Render(formatDistance(origin.DistanceTo(v.Position()))),
		)
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(v.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderVenueDetail renders a venue's detail as a card.
func RenderVenueDetail(d *model.VenueDetail) string {
	lines := []string{}
	if d.Description != "" {
		lines = append(lines, d.Description, "")
	}
	lines = append(lines, pinIcon+" "+d.Address)
	if d.Phone != "" {
		lines = append(lines, phoneIcon+" "+d.Phone)
	}
	if d.OpeningHours != "" || d.WeekDays != "" {
		lines = append(lines, clockIcon+" "+strings.TrimSpace(d.WeekDays+" "+d.OpeningHours))
	}
	lines = append(lines, "", formatCoupons(d.Coupons))
	for _, r := range d.Rules {
		lines = append(lines, mutedStyle.Render("• "+r.Description))
	}

	return renderCard(cardStyle, d.Name, strings.Join(lines, "\n"))
}

// RenderCoupon renders an issued coupon code for the venue.
func RenderCoupon(venueName, code string) string {
	return renderCard(couponCardStyle, ticketIcon+" "+venueName, couponCodeStyle.Render(code))
}
