// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/kumpul/cliparse"
	"github.com/danielhkuo/kumpul/models"
)

// ErrNotFound is returned by GetVote when the user has no vote for the poll.
var ErrNotFound = errors.New("vote not found")

// Store is the persistence interface the handlers depend on.
// Implementations must make UpsertVote atomic per (poll type, user) row and
// DeleteVote idempotent.
type Store interface {
	ListVotes(ctx context.Context) ([]models.Vote, error)
	GetVote(ctx context.Context, pt models.PollType, userID string) (models.Vote, error)
	UpsertVote(ctx context.Context, v models.Vote) error
	DeleteVote(ctx context.Context, pt models.PollType, userID string) error
	Ping(ctx context.Context) error
	Close() error
}

// Open connects to the backend named in cfg, prepares its schema and
// verifies the connection.
func Open(ctx context.Context, cfg cliparse.Config) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres, cliparse.DatabaseSQLite:
		s, err = OpenSQL(cfg.DatabaseType, cfg.DatabaseURL)
	case cliparse.DatabaseRedis:
		s, err = OpenRedis(cfg.DatabaseURL)
	case cliparse.DatabaseBolt:
		s, err = OpenBolt(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DatabaseType, err)
	}

	return s, nil
}
