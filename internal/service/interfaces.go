// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/nearby/internal/model"
)

// Gateway is the remote data collaborator of both screens.
type Gateway interface {
	// ListCategories calls GET /categories.
	ListCategories(ctx context.Context) ([]model.Category, error)
	// ListVenuesByCategory calls GET /markets/category/{id}.
	ListVenuesByCategory(ctx context.Context, categoryID string) ([]model.Venue, error)
	// GetVenue calls GET /markets/{id}.
	GetVenue(ctx context.Context, venueID string) (*model.VenueDetail, error)
	// RedeemCoupon calls POST /coupons/{code}.
	RedeemCoupon(ctx context.Context, code string) (model.Coupon, error)
}

// ScanEvent is a single raw detection. One physical code may produce
// several events from consecutive camera frames.
type ScanEvent struct {
	Data string
}

// Scanner is the camera capability used by the redemption screen.
type Scanner interface {
	RequestPermission(ctx context.Context) (bool, error)
	// Open starts a scan session. The returned channel is closed once ctx
	// is done or the underlying source ends.
	Open(ctx context.Context) (<-chan ScanEvent, error)
}

// Store is the persistence contract of the development backend.
type Store interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetVenuesByCategory(ctx context.Context, categoryID string) ([]model.Venue, error)
	GetVenue(ctx context.Context, venueID string) (*model.VenueDetail, error)
	RedeemCoupon(ctx context.Context, venueID string) (model.Coupon, error)

	SaveCategory(ctx context.Context, category model.Category) error
	SaveVenue(ctx context.Context, venue model.VenueDetail) error

	Migrate(ctx context.Context) error
	Close() error
}
