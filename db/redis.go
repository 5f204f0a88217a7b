// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/kumpul/models"
)

// RedisStore keeps one hash per poll type: vote:<pollType>, field = user id,
// value = JSON vote. HSET on a single field is the per-row atomic upsert.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// OpenRedis connects using a redis:// URL.
func OpenRedis(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts)), nil
}

func redisKey(pt models.PollType) string {
	return "vote:" + string(pt)
}

func (s *RedisStore) ListVotes(ctx context.Context) ([]models.Vote, error) {
	var votes []models.Vote
	for _, pt := range models.PollTypes {
		fields, err := s.client.HGetAll(ctx, redisKey(pt)).Result()
		if err != nil {
			return nil, fmt.Errorf("hgetall %s: %w", redisKey(pt), err)
		}
		for userID, raw := range fields {
			var v models.Vote
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, fmt.Errorf("decode vote %s/%s: %w", pt, userID, err)
			}
			v.PollType = pt
			v.AnonymousUserID = userID
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (s *RedisStore) GetVote(ctx context.Context, pt models.PollType, userID string) (models.Vote, error) {
	raw, err := s.client.HGet(ctx, redisKey(pt), userID).Result()
	if errors.Is(err, redis.Nil) {
		return models.Vote{}, ErrNotFound
	}
	if err != nil {
		return models.Vote{}, fmt.Errorf("hget %s: %w", redisKey(pt), err)
	}

	var v models.Vote
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return models.Vote{}, fmt.Errorf("decode vote: %w", err)
	}
	v.PollType = pt
	v.AnonymousUserID = userID
	return v, nil
}

func (s *RedisStore) UpsertVote(ctx context.Context, v models.Vote) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := s.client.HSet(ctx, redisKey(v.PollType), v.AnonymousUserID, data).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", redisKey(v.PollType), err)
	}
	return nil
}

func (s *RedisStore) DeleteVote(ctx context.Context, pt models.PollType, userID string) error {
	if err := s.client.HDel(ctx, redisKey(pt), userID).Err(); err != nil {
		return fmt.Errorf("hdel %s: %w", redisKey(pt), err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
