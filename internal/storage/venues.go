package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/google/uuid"
)

// GetVenuesByCategory returns the venues of one category ordered by name.
// An unknown category yields an empty list.
func (s *SQLiteStorage) GetVenuesByCategory(ctx context.Context, categoryID string) ([]model.Venue, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address, latitude, longitude
		FROM markets
		WHERE category_id = ?
		ORDER BY name`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query venues: %w", err)
	}
	defer rows.Close()

	venues := []model.Venue{}
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Latitude, &v.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan venue: %w", err)
		}
		venues = append(venues, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating venues: %w", err)
	}
	return venues, nil
}

// GetVenue returns a venue with its rules and remaining coupons.
func (s *SQLiteStorage) GetVenue(ctx context.Context, venueID string) (*model.VenueDetail, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(venueID, "venueID"); err != nil {
		return nil, err
	}

	var v model.VenueDetail
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, address, phone, opening_hours, week_days,
			cover, category_id, latitude, longitude, coupons
		FROM markets
		WHERE id = ?`, venueID).Scan(
		&v.ID, &v.Name, &v.Description, &v.Address, &v.Phone, &v.OpeningHours, &v.WeekDays,
		&v.CoverURL, &v.CategoryID, &v.Latitude, &v.Longitude, &v.Coupons,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("venue %q: %w", venueID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query venue: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, description FROM rules WHERE market_id = ? ORDER BY rowid`, venueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.Rule
		if err := rows.Scan(&r.ID, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		v.Rules = append(v.Rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rules: %w", err)
	}

	return &v, nil
}

// SaveVenue inserts or replaces a venue and its rules.
func (s *SQLiteStorage) SaveVenue(ctx context.Context, venue model.VenueDetail) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVenue(venue); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO markets (id, category_id, name, description, address, phone,
			opening_hours, week_days, cover, latitude, longitude, coupons)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category_id = excluded.category_id,
			name = excluded.name,
			description = excluded.description,
			address = excluded.address,
			phone = excluded.phone,
			opening_hours = excluded.opening_hours,
			week_days = excluded.week_days,
			cover = excluded.cover,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			coupons = excluded.coupons`,
		venue.ID, venue.CategoryID, venue.Name, venue.Description, venue.Address, venue.Phone,
		venue.OpeningHours, venue.WeekDays, venue.CoverURL, venue.Latitude, venue.Longitude, venue.Coupons,
	)
	if err != nil {
		return fmt.Errorf("failed to save venue %q: %w", venue.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rules WHERE market_id = ?`, venue.ID); err != nil {
		return fmt.Errorf("failed to clear rules: %w", err)
	}

	for _, rule := range venue.Rules {
		id := rule.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO rules (id, market_id, description) VALUES (?, ?, ?)`,
			id, venue.ID, rule.Description,
		); err != nil {
			return fmt.Errorf("failed to save rule: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit venue %q: %w", venue.ID, err)
	}
	return nil
}
