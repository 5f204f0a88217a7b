// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the kumpul API.

# Route Registration

NewRouter returns the complete handler, already wrapped with CORS and the
optional gateway bearer check:

	handler := router.NewRouter(store, catalog, m, cfg)

# Endpoints

Health:

	GET /health          - Liveness
	GET /health/storage  - Storage round-trip
	GET /metrics         - Counter snapshot

Tallies:

	GET /votes                       - Both polls
	GET /votes/{pollType}            - One poll
	GET /my-vote/{pollType}/{userId} - The caller's current option

Voting:

	POST   /vote/{pollType}          - Cast or replace
	DELETE /vote/{pollType}/{userId} - Cancel

{pollType} is "location" or "date".
*/
package router
