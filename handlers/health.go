// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/kumpul/auth"
	"github.com/danielhkuo/kumpul/db"
	"github.com/danielhkuo/kumpul/metrics"
	"github.com/danielhkuo/kumpul/middleware"
	"github.com/danielhkuo/kumpul/models"
)

// checkUserID owns the row written by the storage check. It never shows up
// in tallies because its option is outside every catalog, and the reserved
// prefix keeps clients from voting under it.
const checkUserID = auth.ReservedIDPrefix + "healthcheck__"

type HealthHandler struct {
	store   db.Store
	metrics *metrics.Metrics
}

func NewHealthHandler(store db.Store, m *metrics.Metrics) *HealthHandler {
	return &HealthHandler{store: store, metrics: m}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// Storage handles GET /health/storage
// Round-trips a check row through the store: write, read back, delete.
func (h *HealthHandler) Storage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	if err := h.roundTrip(ctx); err != nil {
		h.metrics.StorageErrorsTotal.Add(1)
		slog.Error("storage check failed", "error", err)
		middleware.JSONResponse(w, http.StatusInternalServerError, models.StorageHealthResponse{
			Status:  "error",
			Message: "storage error: " + err.Error(),
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StorageHealthResponse{
		Status:  "ok",
		Message: "storage is working",
	})
}

func (h *HealthHandler) roundTrip(ctx context.Context) error {
	v := models.Vote{
		AnonymousUserID: checkUserID,
		PollType:        models.PollDate,
		Option:          "healthcheck",
		UpdatedAt:       time.Now().UTC(),
	}
	if err := h.store.UpsertVote(ctx, v); err != nil {
		return err
	}
	if _, err := h.store.GetVote(ctx, v.PollType, v.AnonymousUserID); err != nil {
		return err
	}
	return h.store.DeleteVote(ctx, v.PollType, v.AnonymousUserID)
}

// Metrics handles GET /metrics
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.metrics.Snapshot())
}
