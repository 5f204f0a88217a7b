// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/kumpul/cliparse"
	"github.com/danielhkuo/kumpul/models"
)

// SQLStore keeps votes in the vote table of PostgreSQL or SQLite.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an open connection. The schema must already exist.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// OpenSQL opens a database/sql connection for driverType and creates the schema.
func OpenSQL(driverType, url string) (*SQLStore, error) {
	driver := "postgres"
	if driverType == cliparse.DatabaseSQLite {
		driver = "sqlite"
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	// SQLite allows a single writer; serialize at the pool instead of
	// surfacing SQLITE_BUSY to requests.
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := CreateSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQLStore(conn), nil
}

// DB exposes the underlying connection for tests and maintenance.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

func (s *SQLStore) ListVotes(ctx context.Context) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT poll_type, anonymous_user_id, option_label, updated_at
		FROM vote
	`)
	if err != nil {
		return nil, fmt.Errorf("query votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var (
			v  models.Vote
			pt string
		)
		if err := rows.Scan(&pt, &v.AnonymousUserID, &v.Option, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		v.PollType = models.PollType(pt)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate votes: %w", err)
	}

	return votes, nil
}

func (s *SQLStore) GetVote(ctx context.Context, pt models.PollType, userID string) (models.Vote, error) {
	v := models.Vote{PollType: pt, AnonymousUserID: userID}
	err := s.db.QueryRowContext(ctx, `
		SELECT option_label, updated_at FROM vote
		WHERE poll_type = $1 AND anonymous_user_id = $2
	`, string(pt), userID).Scan(&v.Option, &v.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("query vote: %w", err)
	}

	return v, nil
}

// UpsertVote relies on the (poll_type, anonymous_user_id) primary key, so
// concurrent casts by one user never produce two rows.
func (s *SQLStore) UpsertVote(ctx context.Context, v models.Vote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vote (poll_type, anonymous_user_id, option_label, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (poll_type, anonymous_user_id)
		DO UPDATE SET option_label = excluded.option_label, updated_at = excluded.updated_at
	`, string(v.PollType), v.AnonymousUserID, v.Option, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteVote(ctx context.Context, pt models.PollType, userID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM vote WHERE poll_type = $1 AND anonymous_user_id = $2
	`, string(pt), userID)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
