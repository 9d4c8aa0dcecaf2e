package tui

import (
	"time"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/service"
	"github.com/Veraticus/nearby/internal/tui/themes"
)

// ReferenceLocation is the fixed point the map camera starts on.
var ReferenceLocation = model.Coordinate{
	Latitude:  -23.561187293883442,
	Longitude: -46.656451388116494,
}

// DefaultZoom is the initial map zoom level.
const DefaultZoom = 15

// DefaultHandoffDelay lets the camera modal finish closing before the
// redemption confirmation appears.
const DefaultHandoffDelay = 500 * time.Millisecond

// Camera is a map camera position.
type Camera struct {
	Center model.Coordinate
	Zoom   float64
}

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Gateway      service.Gateway
	Scanner      service.Scanner
	Camera       Camera
	HandoffDelay time.Duration
	Width        int
	Height       int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme: themes.Default,
		Camera: Camera{
			Center: ReferenceLocation,
			Zoom:   DefaultZoom,
		},
		HandoffDelay: DefaultHandoffDelay,
		Width:        80,
		Height:       24,
	}
}

// WithGateway sets the remote data gateway.
func WithGateway(gateway service.Gateway) Option {
	return func(c *Config) {
		c.Gateway = gateway
	}
}

// WithScanner sets the QR scan capability.
func WithScanner(scanner service.Scanner) Option {
	return func(c *Config) {
		c.Scanner = scanner
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithCamera overrides the initial map camera.
func WithCamera(center model.Coordinate, zoom float64) Option {
	return func(c *Config) {
		c.Camera = Camera{Center: center, Zoom: zoom}
	}
}

// WithHandoffDelay sets the pause between a captured scan and the
// confirmation prompt.
func WithHandoffDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.HandoffDelay = d
		}
	}
}
