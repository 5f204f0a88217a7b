// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/kumpul/metrics"
	"github.com/danielhkuo/kumpul/models"
	"github.com/danielhkuo/kumpul/testutil"
)

func TestHealth(t *testing.T) {
	handler := NewHealthHandler(testutil.FailingStore{}, &metrics.Metrics{})

	w := httptest.NewRecorder()
	handler.Health(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.HealthResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Status != "ok" || resp.Timestamp.IsZero() {
		t.Errorf("Unexpected health response: %+v", resp)
	}
}

func TestStorageHealth(t *testing.T) {
	t.Run("working store", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		handler := NewHealthHandler(store, &metrics.Metrics{})

		w := httptest.NewRecorder()
		handler.Storage(w, testutil.MakeRequest("GET", "/health/storage", nil, nil))

		testutil.AssertStatus(t, w, http.StatusOK)

		// The check row is cleaned up
		if n := testutil.CountVotes(t, store, models.PollDate); n != 0 {
			t.Errorf("Expected check row to be removed, found %d rows", n)
		}
	})

	t.Run("client votes survive the check", func(t *testing.T) {
		store := testutil.SetupTestStore(t)
		testutil.SeedVote(t, store, "u1", models.PollDate, "8 Maret 2026")
		handler := NewHealthHandler(store, &metrics.Metrics{})

		w := httptest.NewRecorder()
		handler.Storage(w, testutil.MakeRequest("GET", "/health/storage", nil, nil))
		testutil.AssertStatus(t, w, http.StatusOK)

		if n := testutil.CountVotes(t, store, models.PollDate); n != 1 {
			t.Errorf("Expected the client vote to remain, found %d rows", n)
		}
	})

	t.Run("reserved id rejected for clients", func(t *testing.T) {
		h, _, _ := newTestHandler(t)
		w := castVote(h, "date", models.CastVoteRequest{
			AnonymousUserID: checkUserID,
			Option:          "8 Maret 2026",
		})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("failing store", func(t *testing.T) {
		m := &metrics.Metrics{}
		handler := NewHealthHandler(testutil.FailingStore{}, m)

		w := httptest.NewRecorder()
		handler.Storage(w, testutil.MakeRequest("GET", "/health/storage", nil, nil))

		testutil.AssertStatus(t, w, http.StatusInternalServerError)

		var resp models.StorageHealthResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Status != "error" {
			t.Errorf("Expected error status, got %q", resp.Status)
		}
		if m.StorageErrorsTotal.Load() != 1 {
			t.Error("Expected storage error to be counted")
		}
	})
}

func TestMetrics(t *testing.T) {
	m := &metrics.Metrics{}
	m.VotesCastTotal.Add(3)
	handler := NewHealthHandler(testutil.FailingStore{}, m)

	w := httptest.NewRecorder()
	handler.Metrics(w, testutil.MakeRequest("GET", "/metrics", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp map[string]int64
	testutil.AssertJSON(t, w, &resp)
	if resp["votes_cast_total"] != 3 {
		t.Errorf("Expected votes_cast_total=3, got %v", resp)
	}
}
