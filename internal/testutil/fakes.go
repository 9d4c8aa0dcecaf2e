package testutil

import (
	"context"
	"sync"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/scanner"
	"github.com/Veraticus/nearby/internal/service"
)

// GatewayCall records one FakeGateway invocation.
type GatewayCall struct {
	Method string
	Arg    string
}

// FakeGateway is a scripted service.Gateway. Hooks left nil return zero
// values; every call is recorded.
type FakeGateway struct {
	ListCategoriesFunc       func(ctx context.Context) ([]model.Category, error)
	ListVenuesByCategoryFunc func(ctx context.Context, categoryID string) ([]model.Venue, error)
	GetVenueFunc             func(ctx context.Context, venueID string) (*model.VenueDetail, error)
	RedeemCouponFunc         func(ctx context.Context, code string) (model.Coupon, error)

	calls []GatewayCall
	mu    sync.Mutex
}

var _ service.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) record(method, arg string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, GatewayCall{Method: method, Arg: arg})
}

// Calls returns a copy of the recorded calls.
func (g *FakeGateway) Calls() []GatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]GatewayCall(nil), g.calls...)
}

// CountCalls returns how many times method was called.
func (g *FakeGateway) CountCalls(method string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := 0
	for _, c := range g.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// ListCategories implements service.Gateway.
func (g *FakeGateway) ListCategories(ctx context.Context) ([]model.Category, error) {
	g.record("ListCategories", "")
	if g.ListCategoriesFunc == nil {
		return nil, nil
	}
	return g.ListCategoriesFunc(ctx)
}

// ListVenuesByCategory implements service.Gateway.
func (g *FakeGateway) ListVenuesByCategory(ctx context.Context, categoryID string) ([]model.Venue, error) {
	g.record("ListVenuesByCategory", categoryID)
	if g.ListVenuesByCategoryFunc == nil {
		return nil, nil
	}
	return g.ListVenuesByCategoryFunc(ctx, categoryID)
}

// GetVenue implements service.Gateway.
func (g *FakeGateway) GetVenue(ctx context.Context, venueID string) (*model.VenueDetail, error) {
	g.record("GetVenue", venueID)
	if g.GetVenueFunc == nil {
		return nil, common.ErrNotFound
	}
	return g.GetVenueFunc(ctx, venueID)
}

// RedeemCoupon implements service.Gateway.
func (g *FakeGateway) RedeemCoupon(ctx context.Context, code string) (model.Coupon, error) {
	g.record("RedeemCoupon", code)
	if g.RedeemCouponFunc == nil {
		return model.Coupon{}, nil
	}
	return g.RedeemCouponFunc(ctx, code)
}

// FakeScanner wraps a scanner.Feed with injectable failures and call
// counters.
type FakeScanner struct {
	*scanner.Feed

	PermissionErr error
	OpenErr       error

	mu          sync.Mutex
	permissions int
	opens       int
}

var _ service.Scanner = (*FakeScanner)(nil)

// NewFakeScanner creates a scanner that grants or denies permission and
// repeats every pushed payload frames times.
func NewFakeScanner(granted bool, frames int) *FakeScanner {
	return &FakeScanner{Feed: scanner.NewFeed(granted, frames)}
}

// RequestPermission implements service.Scanner.
func (s *FakeScanner) RequestPermission(ctx context.Context) (bool, error) {
	s.mu.Lock()
	s.permissions++
	s.mu.Unlock()

	if s.PermissionErr != nil {
		return false, s.PermissionErr
	}
	return s.Feed.RequestPermission(ctx)
}

// Open implements service.Scanner.
func (s *FakeScanner) Open(ctx context.Context) (<-chan service.ScanEvent, error) {
	s.mu.Lock()
	s.opens++
	s.mu.Unlock()

	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	return s.Feed.Open(ctx)
}

// Permissions returns how many permission requests were made.
func (s *FakeScanner) Permissions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permissions
}

// Opens returns how many scan sessions were started.
func (s *FakeScanner) Opens() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opens
}
