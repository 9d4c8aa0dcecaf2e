package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/nearby/internal/common"
	"github.com/Veraticus/nearby/internal/model"
	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	couponCodeLength = 10

	// maxCodeAttempts bounds how often a colliding code is replaced.
	maxCodeAttempts = 5
)

// newCouponCode returns a short, upper-case code derived from a random UUID.
func newCouponCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:couponCodeLength]
}

// RedeemCoupon takes one coupon from the venue and records the issued code.
// It fails with common.ErrNotFound for unknown venues and
// common.ErrCouponsExhausted when none are left.
func (s *SQLiteStorage) RedeemCoupon(ctx context.Context, venueID string) (model.Coupon, error) {
	if err := validateContext(ctx); err != nil {
		return model.Coupon{}, err
	}
	if err := validateString(venueID, "venueID"); err != nil {
		return model.Coupon{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Coupon{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var remaining int
	err = tx.QueryRowContext(ctx, `SELECT coupons FROM markets WHERE id = ?`, venueID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Coupon{}, fmt.Errorf("venue %q: %w", venueID, common.ErrNotFound)
	}
	if err != nil {
		return model.Coupon{}, fmt.Errorf("failed to query coupons: %w", err)
	}
	if remaining <= 0 {
		return model.Coupon{}, fmt.Errorf("venue %q: %w", venueID, common.ErrCouponsExhausted)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE markets SET coupons = coupons - 1 WHERE id = ?`, venueID); err != nil {
		return model.Coupon{}, fmt.Errorf("failed to decrement coupons: %w", err)
	}

	coupon, err := s.recordRedemption(ctx, tx, venueID)
	if err != nil {
		return model.Coupon{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Coupon{}, fmt.Errorf("failed to commit redemption: %w", err)
	}

	slog.Debug("coupon redeemed", "venue", venueID, "remaining", remaining-1)
	return coupon, nil
}

// recordRedemption inserts a redemption under a fresh code. A failed INSERT
// only aborts its own statement, so a code already taken is replaced and
// the insert retried inside the same transaction.
func (s *SQLiteStorage) recordRedemption(ctx context.Context, tx *sql.Tx, venueID string) (model.Coupon, error) {
	for attempt := 1; ; attempt++ {
		coupon := model.Coupon{Code: s.couponCode()}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO redemptions (code, market_id) VALUES (?, ?)`, coupon.Code, venueID,
		)
		if err == nil {
			return coupon, nil
		}
		if !isPrimaryKeyViolation(err) || attempt == maxCodeAttempts {
			return model.Coupon{}, fmt.Errorf("failed to record redemption: %w", err)
		}
		slog.Debug("coupon code collision, regenerating", "venue", venueID, "attempt", attempt)
	}
}

func isPrimaryKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// CountRedemptions returns how many coupons were issued for a venue.
func (s *SQLiteStorage) CountRedemptions(ctx context.Context, venueID string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM redemptions WHERE market_id = ?`, venueID,
	).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count redemptions: %w", err)
	}
	return count, nil
}
