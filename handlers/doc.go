// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the kumpul API.

# Handler Types

Each handler is a struct with its dependencies injected:

  - VoteHandler: tallies, the user's own vote, cast and cancel
  - HealthHandler: liveness, storage round-trip, metrics

	voteHandler := handlers.NewVoteHandler(store, catalog, m)

# Votes

	GET    /votes                       → ListVotes (both polls)
	GET    /votes/{pollType}            → GetPollVotes
	GET    /my-vote/{pollType}/{userId} → GetMyVote
	POST   /vote/{pollType}             → CastVote (create or replace)
	DELETE /vote/{pollType}/{userId}    → CancelVote (idempotent)

Cast and cancel respond with the tally recomputed after the write. Tallies
are never cached; every read scans all vote rows.

# Failure Handling

Reads of tallies never fail: when the store is unreachable the response
is the zero-filled tally for every known option and the fallback is
counted in metrics. Unknown poll types, missing fields, and options
outside the catalog are rejected with 400 before touching the store.
Write failures return 500.

# Health

	GET /health         → Health (no storage access)
	GET /health/storage → Storage (write, read, delete a check row)
	GET /metrics        → Metrics
*/
package handlers
