package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func seedVenue(t *testing.T, store *SQLiteStorage, id, categoryID string, coupons int) model.VenueDetail {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, store.SaveCategory(ctx, model.Category{ID: categoryID, Name: "Category " + categoryID}))

	venue := model.VenueDetail{
		Venue: model.Venue{
			ID:        id,
			Name:      "Venue " + id,
			Address:   "Av. Paulista, 1000",
			Latitude:  -23.5613,
			Longitude: -46.6565,
		},
		Description: "A test venue",
		CategoryID:  categoryID,
		Coupons:     coupons,
		Rules: []model.Rule{
			{ID: id + "-r1", Description: "Valid on weekdays"},
			{Description: "One coupon per customer"},
		},
	}
	require.NoError(t, store.SaveVenue(ctx, venue))
	return venue
}

func TestNewSQLiteStorage(t *testing.T) {
	_, err := NewSQLiteStorage("")
	require.ErrorIs(t, err, ErrEmptyString)

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))

	for _, table := range []string{"categories", "markets", "rules", "redemptions"} {
		var count int
		err := store.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestSQLiteStorage_Categories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	cats, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
	assert.NotNil(t, cats, "empty result should encode as []")

	require.NoError(t, store.SaveCategory(ctx, model.Category{ID: "c2", Name: "Bars", IconID: "bar"}))
	require.NoError(t, store.SaveCategory(ctx, model.Category{ID: "c1", Name: "Coffee", IconID: "coffee"}))
	require.NoError(t, store.SaveCategory(ctx, model.Category{ID: "c2", Name: "Pubs", IconID: "bar"}))

	cats, err = store.GetCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{
		{ID: "c2", Name: "Pubs", IconID: "bar"},
		{ID: "c1", Name: "Coffee", IconID: "coffee"},
	}, cats)

	assert.ErrorIs(t, store.SaveCategory(ctx, model.Category{ID: "c3"}), ErrEmptyString)
}

func TestSQLiteStorage_Venues(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	seeded := seedVenue(t, store, "v1", "food", 3)
	seedVenue(t, store, "v2", "coffee", 1)

	venues, err := store.GetVenuesByCategory(ctx, "food")
	require.NoError(t, err)
	require.Len(t, venues, 1)
	assert.Equal(t, seeded.Venue, venues[0])

	venues, err = store.GetVenuesByCategory(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, venues)

	detail, err := store.GetVenue(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "A test venue", detail.Description)
	assert.Equal(t, 3, detail.Coupons)
	require.Len(t, detail.Rules, 2)
	assert.Equal(t, "v1-r1", detail.Rules[0].ID)
	assert.NotEmpty(t, detail.Rules[1].ID)

	_, err = store.GetVenue(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteStorage_SaveVenueReplacesRules(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	venue := seedVenue(t, store, "v1", "food", 3)
	venue.Rules = []model.Rule{{ID: "only", Description: "Dine-in only"}}
	venue.Coupons = 7
	require.NoError(t, store.SaveVenue(ctx, venue))

	detail, err := store.GetVenue(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 7, detail.Coupons)
	assert.Equal(t, []model.Rule{{ID: "only", Description: "Dine-in only"}}, detail.Rules)
}

func TestSQLiteStorage_SaveVenueValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		venue model.VenueDetail
	}{
		{"missing id", model.VenueDetail{Venue: model.Venue{Name: "x"}, CategoryID: "c"}},
		{"missing name", model.VenueDetail{Venue: model.Venue{ID: "x"}, CategoryID: "c"}},
		{"missing category", model.VenueDetail{Venue: model.Venue{ID: "x", Name: "x"}}},
		{"latitude", model.VenueDetail{Venue: model.Venue{ID: "x", Name: "x", Latitude: 91}, CategoryID: "c"}},
		{"longitude", model.VenueDetail{Venue: model.Venue{ID: "x", Name: "x", Longitude: -181}, CategoryID: "c"}},
		{"coupons", model.VenueDetail{Venue: model.Venue{ID: "x", Name: "x"}, CategoryID: "c", Coupons: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.SaveVenue(ctx, tt.venue), ErrInvalidVenue)
		})
	}

	// Unknown category violates the foreign key.
	err := store.SaveVenue(ctx, model.VenueDetail{Venue: model.Venue{ID: "x", Name: "x"}, CategoryID: "nope"})
	assert.Error(t, err)
}

func TestSQLiteStorage_RedeemCoupon(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	seedVenue(t, store, "v1", "food", 2)

	first, err := store.RedeemCoupon(ctx, "v1")
	require.NoError(t, err)
	assert.Len(t, first.Code, couponCodeLength)

	second, err := store.RedeemCoupon(ctx, "v1")
	require.NoError(t, err)
	assert.NotEqual(t, first.Code, second.Code)

	_, err = store.RedeemCoupon(ctx, "v1")
	assert.ErrorIs(t, err, common.ErrCouponsExhausted)

	_, err = store.RedeemCoupon(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	detail, err := store.GetVenue(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 0, detail.Coupons)

	count, err := store.CountRedemptions(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteStorage_RedeemCouponCodeCollision(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	seedVenue(t, store, "v1", "food", 3)

	codes := []string{"AAAAAAAAAA", "AAAAAAAAAA", "BBBBBBBBBB"}
	store.couponCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	first, err := store.RedeemCoupon(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAAAA", first.Code)

	second, err := store.RedeemCoupon(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBBBB", second.Code)
	assert.Empty(t, codes)

	count, err := store.CountRedemptions(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	detail, err := store.GetVenue(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 1, detail.Coupons)
}

func TestSQLiteStorage_RedeemCouponCodeExhausted(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	seedVenue(t, store, "v1", "food", 3)

	calls := 0
	store.couponCode = func() string {
		calls++
		return "AAAAAAAAAA"
	}

	_, err := store.RedeemCoupon(ctx, "v1")
	require.NoError(t, err)

	calls = 0
	_, err = store.RedeemCoupon(ctx, "v1")
	require.Error(t, err)
	assert.True(t, isPrimaryKeyViolation(err))
	assert.Equal(t, maxCodeAttempts, calls)

	// The failed redemption must not consume a coupon.
	detail, err := store.GetVenue(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Coupons)
}

func TestSQLiteStorage_RedeemCouponConcurrent(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()
	seedVenue(t, store, "v1", "food", 5)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		redeemed int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.RedeemCoupon(ctx, "v1"); err == nil {
				mu.Lock()
				redeemed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, redeemed)
	count, err := store.CountRedemptions(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}
