// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/kumpul/cliparse"
	"github.com/danielhkuo/kumpul/db"
	"github.com/danielhkuo/kumpul/models"
)

// ErrStorageDown is returned by every FailingStore method.
var ErrStorageDown = errors.New("storage unreachable")

// SetupTestStore creates a fresh SQLite-backed store with the full schema
func SetupTestStore(t *testing.T) *db.SQLStore {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "kumpul_test.db")
	store, err := db.OpenSQL(cliparse.DatabaseSQLite, dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseType: cliparse.DatabaseSQLite,
		DatabaseURL:  "file::memory:",
		LogLevel:     "error",
	}
}

// SeedVote writes a vote row directly, bypassing the handlers
func SeedVote(t *testing.T, store db.Store, userID string, pt models.PollType, option string) {
	t.Helper()

	err := store.UpsertVote(context.Background(), models.Vote{
		AnonymousUserID: userID,
		PollType:        pt,
		Option:          option,
		UpdatedAt:       time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Failed to seed vote: %v", err)
	}
}

// CountVotes returns the number of rows for a poll type
func CountVotes(t *testing.T, store db.Store, pt models.PollType) int {
	t.Helper()

	votes, err := store.ListVotes(context.Background())
	if err != nil {
		t.Fatalf("Failed to list votes: %v", err)
	}
	n := 0
	for _, v := range votes {
		if v.PollType == pt {
			n++
		}
	}
	return n
}

// FailingStore is a db.Store whose every call fails, standing in for an
// unreachable storage service.
type FailingStore struct{}

func (FailingStore) ListVotes(context.Context) ([]models.Vote, error) {
	return nil, ErrStorageDown
}

func (FailingStore) GetVote(context.Context, models.PollType, string) (models.Vote, error) {
	return models.Vote{}, ErrStorageDown
}

func (FailingStore) UpsertVote(context.Context, models.Vote) error { return ErrStorageDown }

func (FailingStore) DeleteVote(context.Context, models.PollType, string) error {
	return ErrStorageDown
}

func (FailingStore) Ping(context.Context) error { return ErrStorageDown }

func (FailingStore) Close() error { return nil }

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
