// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db is the storage layer for vote rows.

# Backends

Open selects a Store from the configured DATABASE_TYPE:

	store, err := db.Open(ctx, cfg)

  - sqlite (default): modernc.org/sqlite, file path DSN
  - postgres: github.com/lib/pq
  - redis: one hash per poll type, field per user
  - bolt: a single bucket keyed <pollType>/<userID>

# Schema

For the SQL backends CreateSchema creates the vote table:

	vote (poll_type, anonymous_user_id) PRIMARY KEY
	     option_label, updated_at

Safe to call multiple times - uses IF NOT EXISTS.

# Semantics

Every backend provides the same guarantees:

  - UpsertVote replaces the option of an existing (poll type, user) row
  - DeleteVote of a missing row is not an error
  - GetVote returns ErrNotFound when the user has not voted
  - ListVotes returns every row; reads are not isolated from concurrent writes
*/
package db
