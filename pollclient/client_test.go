// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pollclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/kumpul/auth"
	"github.com/danielhkuo/kumpul/metrics"
	"github.com/danielhkuo/kumpul/models"
	"github.com/danielhkuo/kumpul/polls"
	"github.com/danielhkuo/kumpul/router"
	"github.com/danielhkuo/kumpul/testutil"
)

func newTestServer(t *testing.T, gatewayKey string) *httptest.Server {
	t.Helper()
	cfg := testutil.GetTestConfig()
	cfg.GatewayKey = gatewayKey
	store := testutil.SetupTestStore(t)
	srv := httptest.NewServer(router.NewRouter(store, polls.DefaultCatalog(), &metrics.Metrics{}, cfg))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_VoteFlow(t *testing.T) {
	srv := newTestServer(t, "")
	c := NewClient(srv.URL+"/", "", srv.Client())
	ctx := context.Background()

	_, voted, err := c.MyVote(ctx, models.PollDate, "user-1")
	if err != nil {
		t.Fatalf("MyVote: %v", err)
	}
	if voted {
		t.Fatal("expected no vote yet")
	}

	tally, err := c.Cast(ctx, models.PollDate, "user-1", "8 Maret 2026")
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if tally["8 Maret 2026"] != 1 {
		t.Errorf("expected 1 vote for 8 Maret, got %v", tally)
	}

	tally, err = c.Cast(ctx, models.PollDate, "user-1", "7 Maret 2026")
	if err != nil {
		t.Fatalf("Cast: %v", err)
	}
	if tally["8 Maret 2026"] != 0 || tally["7 Maret 2026"] != 1 {
		t.Errorf("expected vote moved to 7 Maret, got %v", tally)
	}

	option, voted, err := c.MyVote(ctx, models.PollDate, "user-1")
	if err != nil {
		t.Fatalf("MyVote: %v", err)
	}
	if !voted || option != "7 Maret 2026" {
		t.Errorf("MyVote = %q, %v", option, voted)
	}

	all, err := c.Tallies(ctx)
	if err != nil {
		t.Fatalf("Tallies: %v", err)
	}
	if all.DateVotes["7 Maret 2026"] != 1 || all.LocationVotes.Total() != 0 {
		t.Errorf("unexpected tallies: %+v", all)
	}

	tally, err = c.Cancel(ctx, models.PollDate, "user-1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if tally.Total() != 0 {
		t.Errorf("expected empty tally after cancel, got %v", tally)
	}

	pt, err := c.PollTally(ctx, models.PollDate)
	if err != nil {
		t.Fatalf("PollTally: %v", err)
	}
	if len(pt) != 3 || pt.Total() != 0 {
		t.Errorf("expected 3 zeroed options, got %v", pt)
	}
}

func TestClient_APIError(t *testing.T) {
	srv := newTestServer(t, "")
	c := NewClient(srv.URL, "", srv.Client())

	_, err := c.Cast(context.Background(), models.PollDate, "user-1", "1 April 2026")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apiErr.StatusCode)
	}
}

func TestClient_BearerToken(t *testing.T) {
	srv := newTestServer(t, "secret")

	_, err := NewClient(srv.URL, "", srv.Client()).Tallies(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %v", err)
	}

	if _, err := NewClient(srv.URL, "secret", srv.Client()).Tallies(context.Background()); err != nil {
		t.Fatalf("expected success with token, got %v", err)
	}
}

func TestStorage(t *testing.T) {
	backends := map[string]func(t *testing.T) auth.KeyValue{
		"memory": func(t *testing.T) auth.KeyValue { return NewMemoryStorage() },
		"file": func(t *testing.T) auth.KeyValue {
			return NewFileStorage(t.TempDir() + "/nested/state.json")
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			if _, ok, err := s.Get("k"); err != nil || ok {
				t.Fatalf("Get on empty = %v, %v", ok, err)
			}
			if err := s.Set("k", "v"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if v, ok, err := s.Get("k"); err != nil || !ok || v != "v" {
				t.Fatalf("Get = %q, %v, %v", v, ok, err)
			}
			if err := s.Delete("k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete("k"); err != nil {
				t.Fatalf("second Delete: %v", err)
			}
			if _, ok, _ := s.Get("k"); ok {
				t.Fatal("key still present after Delete")
			}
		})
	}
}

func TestFileStorage_Persists(t *testing.T) {
	path := t.TempDir() + "/state.json"
	if err := NewFileStorage(path).Set("anonymous-user-id", "abc"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := NewFileStorage(path).Get("anonymous-user-id")
	if err != nil || !ok || v != "abc" {
		t.Fatalf("reopened Get = %q, %v, %v", v, ok, err)
	}
}
