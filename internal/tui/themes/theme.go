package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Italic         lipgloss.Style
	Code           lipgloss.Style
	Selected       lipgloss.Style
	Highlighted    lipgloss.Style
	BorderedBox    lipgloss.Style
	RoundedBox     lipgloss.Style
	Chip           lipgloss.Style
	ChipSelected   lipgloss.Style
	Marker         lipgloss.Style
	MarkerSelected lipgloss.Style
	Origin         lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusError    lipgloss.Style
	StatusInfo     lipgloss.Style
	StatusPending  lipgloss.Style
	Primary        lipgloss.Color
	Secondary      lipgloss.Color
	Success        lipgloss.Color
	Warning        lipgloss.Color
	Error          lipgloss.Color
	Info           lipgloss.Color
	Background     lipgloss.Color
	Foreground     lipgloss.Color
	Surface        lipgloss.Color
	Border         lipgloss.Color
	Muted          lipgloss.Color
	Dim            lipgloss.Color
}

// palette is the set of colors a theme is derived from.
type palette struct {
	primary, secondary     string
	success, warning       string
	danger, info           string
	background, foreground string
	surface, border        string
	muted, dim             string
}

func newTheme(p palette) Theme {
	fg := lipgloss.Color(p.foreground)
	border := lipgloss.Color(p.border)

	return Theme{
		Primary:    lipgloss.Color(p.primary),
		Secondary:  lipgloss.Color(p.secondary),
		Success:    lipgloss.Color(p.success),
		Warning:    lipgloss.Color(p.warning),
		Error:      lipgloss.Color(p.danger),
		Info:       lipgloss.Color(p.info),
		Background: lipgloss.Color(p.background),
		Foreground: fg,
		Surface:    lipgloss.Color(p.surface),
		Border:     border,
		Muted:      lipgloss.Color(p.muted),
		Dim:        lipgloss.Color(p.dim),

		Title:    lipgloss.NewStyle().Bold(true).Foreground(fg).MarginBottom(1),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		Normal:   lipgloss.NewStyle().Foreground(fg),
		Bold:     lipgloss.NewStyle().Bold(true).Foreground(fg),
		Italic:   lipgloss.NewStyle().Italic(true).Foreground(fg),
		Code: lipgloss.NewStyle().
			Background(lipgloss.Color(p.surface)).
			Foreground(fg).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(p.primary)).
			Foreground(lipgloss.Color(p.background)).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(border).
			Foreground(fg),

		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2),

		Chip: lipgloss.NewStyle().
			Foreground(fg).
			Background(lipgloss.Color(p.surface)).
			Padding(0, 1),
		ChipSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.background)).
			Background(lipgloss.Color(p.secondary)).
			Bold(true).
			Padding(0, 1),

		Marker:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)),
		MarkerSelected: lipgloss.NewStyle().Foreground(lipgloss.Color(p.primary)).Bold(true),
		Origin:         lipgloss.NewStyle().Foreground(lipgloss.Color(p.info)).Bold(true),

		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color(p.success)).Bold(true),
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color(p.warning)).Bold(true),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.danger)).Bold(true),
		StatusInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.info)).Bold(true),
		StatusPending: lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)).Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(palette{
	primary:    "#00875f",
	secondary:  "#2fb686",
	success:    "#10b981",
	warning:    "#f59e0b",
	danger:     "#f75a68",
	info:       "#3b82f6",
	background: "#121214",
	foreground: "#e1e1e6",
	surface:    "#202024",
	border:     "#323238",
	muted:      "#7c7c8a",
	dim:        "#a8a8b3",
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(palette{
	primary:    "#cba6f7",
	secondary:  "#f5c2e7",
	success:    "#a6e3a1",
	warning:    "#f9e2af",
	danger:     "#f38ba8",
	info:       "#89dceb",
	background: "#1e1e2e",
	foreground: "#cdd6f4",
	surface:    "#313244",
	border:     "#45475a",
	muted:      "#6c7086",
	dim:        "#a6adc8",
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// CategoryIcons maps category icon ids to glyphs.
var CategoryIcons = map[string]string{
	"food":          "🍽",
	"coffee":        "☕",
	"bar":           "🍺",
	"cinema":        "🎬",
	"market":        "🛒",
	"bakery":        "🥐",
	"pharmacy":      "💊",
	"gym":           "💪",
	"accommodation": "🛏",
	"shopping":      "🛍",
}

// GetCategoryIcon returns the glyph for an icon id.
func GetCategoryIcon(iconID string) string {
	if icon, ok := CategoryIcons[iconID]; ok {
		return icon
	}
	return "📍"
}
