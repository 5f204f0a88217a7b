// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared by
the API server and the vote client.

# Poll Types

There are exactly two polls on the invitation page:

	models.PollLocation // "location": favorite venue
	models.PollDate     // "date": preferred date

# Votes

A Vote is the single active choice of one anonymous user for one poll
type. The (PollType, AnonymousUserID) pair is the identity of a row; a
second cast replaces the option rather than adding a row.

# Tallies

Tally maps an option label to its vote count. Tallies are never stored;
they are recomputed from all Vote rows on every read:

	total := tally.Total()
	pct := tally.Percent("7 Maret 2026") // 0-100, one decimal

# JSON Shapes

Field names follow the web page's existing contract:

	GET    /votes                        → AllVotesResponse
	GET    /votes/{pollType}             → PollVotesResponse
	GET    /my-vote/{pollType}/{userId}  → MyVoteResponse
	POST   /vote/{pollType}              ← CastVoteRequest, → VoteResponse
	DELETE /vote/{pollType}/{userId}     → VoteResponse

Errors use ErrorResponse:

	{"error": "Bad Request", "message": "unknown poll type"}
*/
package models
