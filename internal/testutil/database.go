// Package testutil provides test utilities shared by the nearby packages.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/nearby/internal/model"
	"github.com/Veraticus/nearby/internal/storage"
)

// Catalog is the data a test database is seeded with.
type Catalog struct {
	Categories []model.Category
	Venues     []model.VenueDetail
}

// SampleCatalog returns two categories around Avenida Paulista with a few
// venues each.
func SampleCatalog() Catalog {
	return Catalog{
		Categories: []model.Category{
			{ID: "food", Name: "Food", IconID: "food"},
			{ID: "coffee", Name: "Coffee", IconID: "coffee"},
		},
		Venues: []model.VenueDetail{
			{
				Venue: model.Venue{
					ID: "sabor-grill", Name: "Sabor Grill", Address: "Av. Paulista, 1200",
					Latitude: -23.5624, Longitude: -46.6553,
				},
				Description: "Grilled meats and salads by weight.",
				CategoryID:  "food",
				Coupons:     3,
				Rules:       []model.Rule{{ID: "sg-1", Description: "Valid for lunch only"}},
			},
			{
				Venue: model.Venue{
					ID: "pasta-nostra", Name: "Pasta Nostra", Address: "R. Augusta, 850",
					Latitude: -23.5556, Longitude: -46.6577,
				},
				Description: "Fresh pasta made daily.",
				CategoryID:  "food",
				Coupons:     1,
			},
			{
				Venue: model.Venue{
					ID: "cafe-central", Name: "Café Central", Address: "Al. Santos, 415",
					Latitude: -23.5651, Longitude: -46.6513,
				},
				Description: "Specialty coffee and pastries.",
				CategoryID:  "coffee",
				Coupons:     0,
			},
		},
	}
}

// TestDB is a migrated in-memory database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Catalog Catalog
}

// SetupTestDB creates a new in-memory test database seeded with catalog.
// It automatically handles migrations and cleanup.
func SetupTestDB(t *testing.T, catalog Catalog) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	for _, cat := range catalog.Categories {
		if err := store.SaveCategory(ctx, cat); err != nil {
			t.Fatalf("failed to seed category %q: %v", cat.ID, err)
		}
	}
	for _, venue := range catalog.Venues {
		if err := store.SaveVenue(ctx, venue); err != nil {
			t.Fatalf("failed to seed venue %q: %v", venue.ID, err)
		}
	}

	return &TestDB{Storage: store, Catalog: catalog}
}
