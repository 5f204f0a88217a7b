// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/danielhkuo/kumpul/models"
)

var bucketVotes = []byte("votes")

// BoltStore keeps votes in a single bucket keyed <pollType>/<userID>.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) a BoltDB file at path.
func OpenBolt(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{NoSync: false})
	if err != nil {
		return nil, fmt.Errorf("open bolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVotes)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func boltKey(pt models.PollType, userID string) []byte {
	return []byte(string(pt) + "/" + userID)
}

func (s *BoltStore) ListVotes(ctx context.Context) ([]models.Vote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var votes []models.Vote
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVotes).ForEach(func(k, v []byte) error {
			var vote models.Vote
			if err := json.Unmarshal(v, &vote); err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			votes = append(votes, vote)
			return nil
		})
	})
	return votes, err
}

func (s *BoltStore) GetVote(ctx context.Context, pt models.PollType, userID string) (models.Vote, error) {
	if err := ctx.Err(); err != nil {
		return models.Vote{}, err
	}
	var (
		vote  models.Vote
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketVotes).Get(boltKey(pt, userID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &vote)
	})
	if err != nil {
		return models.Vote{}, err
	}
	if !found {
		return models.Vote{}, ErrNotFound
	}
	return vote, nil
}

func (s *BoltStore) UpsertVote(ctx context.Context, v models.Vote) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVotes).Put(boltKey(v.PollType, v.AnonymousUserID), data)
	})
}

func (s *BoltStore) DeleteVote(ctx context.Context, pt models.PollType, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Delete on a missing key is a no-op in bolt.
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVotes).Delete(boltKey(pt, userID))
	})
}

// Ping checks the file is still open and the bucket readable.
func (s *BoltStore) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketVotes) == nil {
			return fmt.Errorf("bucket %s missing", bucketVotes)
		}
		return nil
	})
}

// Close closes the underlying BoltDB.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
