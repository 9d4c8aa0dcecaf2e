package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Categories, markets and rules",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					icon TEXT NOT NULL DEFAULT ''
				)`,
				`CREATE TABLE IF NOT EXISTS markets (
					id TEXT PRIMARY KEY,
					category_id TEXT NOT NULL REFERENCES categories(id),
					name TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					address TEXT NOT NULL DEFAULT '',
					phone TEXT NOT NULL DEFAULT '',
					opening_hours TEXT NOT NULL DEFAULT '',
					week_days TEXT NOT NULL DEFAULT '',
					cover TEXT NOT NULL DEFAULT '',
					latitude REAL NOT NULL,
					longitude REAL NOT NULL,
					coupons INTEGER NOT NULL DEFAULT 0 CHECK (coupons >= 0)
				)`,
				`CREATE INDEX idx_markets_category ON markets(category_id)`,
				`CREATE TABLE IF NOT EXISTS rules (
					id TEXT PRIMARY KEY,
					market_id TEXT NOT NULL REFERENCES markets(id) ON DELETE CASCADE,
					description TEXT NOT NULL
				)`,
				`CREATE INDEX idx_rules_market ON rules(market_id)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Coupon redemption log",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS redemptions (
					code TEXT PRIMARY KEY,
					market_id TEXT NOT NULL REFERENCES markets(id),
					redeemed_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_redemptions_market ON redemptions(market_id)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion returns the applied schema version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}
