// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/kumpul/cliparse"
	"github.com/danielhkuo/kumpul/db"
	"github.com/danielhkuo/kumpul/handlers"
	"github.com/danielhkuo/kumpul/metrics"
	"github.com/danielhkuo/kumpul/middleware"
	"github.com/danielhkuo/kumpul/polls"
)

// NewRouter registers every endpoint and wraps the mux with the bearer
// check and CORS.
func NewRouter(store db.Store, catalog polls.Catalog, m *metrics.Metrics, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	voteHandler := handlers.NewVoteHandler(store, catalog, m)
	healthHandler := handlers.NewHealthHandler(store, m)

	// Health and observability
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/storage", middleware.WithLogging(healthHandler.Storage))
	mux.HandleFunc("GET /metrics", healthHandler.Metrics)

	// Tallies
	mux.HandleFunc("GET /votes", middleware.WithLogging(voteHandler.ListVotes))
	mux.HandleFunc("GET /votes/{pollType}", middleware.WithLogging(voteHandler.GetPollVotes))
	mux.HandleFunc("GET /my-vote/{pollType}/{userId}", middleware.WithLogging(voteHandler.GetMyVote))

	// Voting operations
	mux.HandleFunc("POST /vote/{pollType}", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("DELETE /vote/{pollType}/{userId}", middleware.WithLogging(voteHandler.CancelVote))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("kumpul API v1"))
	})

	return middleware.CORS(middleware.RequireBearer(cfg.GatewayKey, mux))
}
