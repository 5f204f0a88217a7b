// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/kumpul/auth"
	"github.com/danielhkuo/kumpul/db"
	"github.com/danielhkuo/kumpul/metrics"
	"github.com/danielhkuo/kumpul/middleware"
	"github.com/danielhkuo/kumpul/models"
	"github.com/danielhkuo/kumpul/polls"
)

// storageTimeout bounds every call to the store from a request.
const storageTimeout = 5 * time.Second

type VoteHandler struct {
	store   db.Store
	catalog polls.Catalog
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewVoteHandler(store db.Store, catalog polls.Catalog, m *metrics.Metrics) *VoteHandler {
	return &VoteHandler{store: store, catalog: catalog, metrics: m, now: time.Now}
}

// pollTypeFromPath validates the {pollType} segment, writing a 400 on failure
func (h *VoteHandler) pollTypeFromPath(w http.ResponseWriter, r *http.Request) (models.PollType, bool) {
	pt, err := polls.ParsePollType(r.PathValue("pollType"))
	if err != nil {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return pt, true
}

// recount scans every row and tallies pt, falling back to the zero-filled
// tally when the store cannot be read.
func (h *VoteHandler) recount(ctx context.Context, pt models.PollType) models.Tally {
	votes, err := h.store.ListVotes(ctx)
	if err != nil {
		h.metrics.StorageErrorsTotal.Add(1)
		h.metrics.TallyFallbackTotal.Add(1)
		slog.Warn("tally fell back to zero", "poll_type", pt, "error", err)
		return h.catalog.ZeroTally(pt)
	}
	return h.catalog.Aggregate(pt, votes)
}

// ListVotes handles GET /votes
// Storage failures return zero-filled tallies instead of an error status.
func (h *VoteHandler) ListVotes(w http.ResponseWriter, r *http.Request) {
	h.metrics.RequestsTotal.Add(1)

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	votes, err := h.store.ListVotes(ctx)
	if err != nil {
		h.metrics.StorageErrorsTotal.Add(1)
		h.metrics.TallyFallbackTotal.Add(1)
		slog.Error("failed to list votes, serving zero tallies", "error", err)
		middleware.JSONResponse(w, http.StatusOK, h.catalog.ZeroAll())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.catalog.AggregateAll(votes))
}

// GetPollVotes handles GET /votes/{pollType}
func (h *VoteHandler) GetPollVotes(w http.ResponseWriter, r *http.Request) {
	h.metrics.RequestsTotal.Add(1)

	pt, ok := h.pollTypeFromPath(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	tally := h.recount(ctx, pt)
	middleware.JSONResponse(w, http.StatusOK, models.PollVotesResponse{Votes: tally})
}

// GetMyVote handles GET /my-vote/{pollType}/{userId}
// A user without a row has simply not voted.
func (h *VoteHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	h.metrics.RequestsTotal.Add(1)

	pt, ok := h.pollTypeFromPath(w, r)
	if !ok {
		return
	}

	userID := r.PathValue("userId")
	if !auth.ValidAnonymousID(userID) {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is missing or invalid")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	vote, err := h.store.GetVote(ctx, pt, userID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.MyVoteResponse{HasVoted: false})
		return
	}
	if err != nil {
		h.metrics.StorageErrorsTotal.Add(1)
		slog.Error("failed to get vote", "error", err, "poll_type", pt)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	option := vote.Option
	middleware.JSONResponse(w, http.StatusOK, models.MyVoteResponse{
		HasVoted: true,
		Option:   &option,
	})
}

// CastVote handles POST /vote/{pollType}
// Creates the user's vote or replaces its option.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	h.metrics.RequestsTotal.Add(1)

	pt, ok := h.pollTypeFromPath(w, r)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !auth.ValidAnonymousID(req.AnonymousUserID) {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, "anonymousUserId is missing or invalid")
		return
	}
	if req.Option == "" {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is required")
		return
	}
	if err := h.catalog.CheckVote(pt, req.Option); err != nil {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	err := h.store.UpsertVote(ctx, models.Vote{
		AnonymousUserID: req.AnonymousUserID,
		PollType:        pt,
		Option:          req.Option,
		UpdatedAt:       h.now().UTC(),
	})
	if err != nil {
		h.metrics.StorageErrorsTotal.Add(1)
		slog.Error("failed to upsert vote", "error", err, "poll_type", pt)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to vote")
		return
	}
	h.metrics.VotesCastTotal.Add(1)

	slog.Info("vote cast", "poll_type", pt, "option", req.Option)

	tally := h.recount(ctx, pt)
	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Success: true,
		Votes:   tally,
	})
}

// CancelVote handles DELETE /vote/{pollType}/{userId}
// Cancelling a vote that does not exist succeeds.
func (h *VoteHandler) CancelVote(w http.ResponseWriter, r *http.Request) {
	h.metrics.RequestsTotal.Add(1)

	pt, ok := h.pollTypeFromPath(w, r)
	if !ok {
		return
	}

	userID := r.PathValue("userId")
	if !auth.ValidAnonymousID(userID) {
		h.metrics.ValidationFailTotal.Add(1)
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is missing or invalid")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storageTimeout)
	defer cancel()

	if err := h.store.DeleteVote(ctx, pt, userID); err != nil {
		h.metrics.StorageErrorsTotal.Add(1)
		slog.Error("failed to delete vote", "error", err, "poll_type", pt)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cancel vote")
		return
	}
	h.metrics.VotesCancelledTotal.Add(1)

	slog.Info("vote cancelled", "poll_type", pt)

	tally := h.recount(ctx, pt)
	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Success: true,
		Votes:   tally,
	})
}
