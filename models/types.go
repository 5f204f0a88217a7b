// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// PollType identifies one of the two fixed questions on the invitation.
type PollType string

// Poll type constants
const (
	PollLocation PollType = "location"
	PollDate     PollType = "date"
)

// PollTypes lists every poll type in display order.
var PollTypes = []PollType{PollLocation, PollDate}

// Domain types

// Vote is one anonymous user's active choice for one poll type.
// At most one exists per (PollType, AnonymousUserID).
type Vote struct {
	AnonymousUserID string    `json:"anonymousUserId"`
	PollType        PollType  `json:"pollType"`
	Option          string    `json:"option"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Tally maps each option label to its vote count.
type Tally map[string]int

// Total returns the number of votes counted in the tally.
func (t Tally) Total() int {
	total := 0
	for _, n := range t {
		total += n
	}
	return total
}

// Percent returns the option's share of the total, rounded to one decimal.
// Zero when nothing has been counted yet.
func (t Tally) Percent(option string) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	p := float64(t[option]) / float64(total) * 100
	return float64(int(p*10+0.5)) / 10
}

// Request types

// CastVoteRequest is the body of POST /vote/{pollType}.
type CastVoteRequest struct {
	AnonymousUserID string `json:"anonymousUserId"`
	Option          string `json:"option"`
}

// Response types

// AllVotesResponse carries both tallies for GET /votes.
type AllVotesResponse struct {
	LocationVotes Tally `json:"locationVotes"`
	DateVotes     Tally `json:"dateVotes"`
}

// For returns the tally belonging to the poll type.
func (r AllVotesResponse) For(pt PollType) Tally {
	if pt == PollDate {
		return r.DateVotes
	}
	return r.LocationVotes
}

// PollVotesResponse carries one tally for GET /votes/{pollType}.
type PollVotesResponse struct {
	Votes Tally `json:"votes"`
}

// MyVoteResponse reports the caller's current option. Option is null when
// HasVoted is false.
type MyVoteResponse struct {
	HasVoted bool    `json:"hasVoted"`
	Option   *string `json:"option"`
}

// VoteResponse answers a cast or cancel with the recomputed tally.
type VoteResponse struct {
	Success bool  `json:"success"`
	Votes   Tally `json:"votes"`
}

// HealthResponse is the liveness answer.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StorageHealthResponse reports the storage round-trip check.
type StorageHealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Error response

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
