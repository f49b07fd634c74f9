package database

import (
	"context"
	"fmt"
)

// schema holds the DDL for all application tables. Statements are idempotent
// so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		username      TEXT UNIQUE,
		password_hash TEXT,
		google_id     TEXT UNIQUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
		date_of_birth TIMESTAMPTZ,
		address       TEXT,
		phone         TEXT,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id                  BIGSERIAL PRIMARY KEY,
		address             TEXT NOT NULL,
		city                TEXT NOT NULL,
		state               VARCHAR(2) NOT NULL,
		zip_code            VARCHAR(10) NOT NULL,
		price               NUMERIC(12,2) NOT NULL,
		size_sqft           INTEGER NOT NULL,
		bedrooms            INTEGER NOT NULL,
		bathrooms           DOUBLE PRECISION NOT NULL,
		property_type       TEXT NOT NULL,
		year_built          INTEGER,
		image_url           TEXT,
		lat                 DOUBLE PRECISION,
		lng                 DOUBLE PRECISION,
		profitability_score DOUBLE PRECISION NOT NULL,
		estimated_rent      NUMERIC(10,2),
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_city ON properties(city)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_zip_code ON properties(zip_code)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_score ON properties(profitability_score DESC)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		CONSTRAINT uq_favorites_user_property UNIQUE (user_id, property_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id)`,
}

// Migrate creates the application tables and indexes if they do not exist.
func (db *Database) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
