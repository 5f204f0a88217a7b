// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Works on both PostgreSQL and SQLite.
const schema = `
-- Votes: one active choice per user per poll
CREATE TABLE IF NOT EXISTS vote (
    poll_type TEXT NOT NULL CHECK (poll_type IN ('location', 'date')),
    anonymous_user_id TEXT NOT NULL,
    option_label TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (poll_type, anonymous_user_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_type ON vote(poll_type);
`
