// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "github.com/danielhkuo/kumpul/models"

// ZeroTally returns every known option of the poll type at zero.
func (c Catalog) ZeroTally(pt models.PollType) models.Tally {
	opts, _ := c.Options(pt)
	t := make(models.Tally, len(opts))
	for _, o := range opts {
		t[o] = 0
	}
	return t
}

// Aggregate counts the rows belonging to pt. Rows whose option is no longer
// in the catalog are skipped.
func (c Catalog) Aggregate(pt models.PollType, votes []models.Vote) models.Tally {
	t := c.ZeroTally(pt)
	for _, v := range votes {
		if v.PollType != pt {
			continue
		}
		if _, ok := t[v.Option]; !ok {
			continue
		}
		t[v.Option]++
	}
	return t
}

// AggregateAll builds the response for GET /votes from a single scan.
func (c Catalog) AggregateAll(votes []models.Vote) models.AllVotesResponse {
	return models.AllVotesResponse{
		LocationVotes: c.Aggregate(models.PollLocation, votes),
		DateVotes:     c.Aggregate(models.PollDate, votes),
	}
}

// ZeroAll is the fallback body for GET /votes when storage is unreachable.
func (c Catalog) ZeroAll() models.AllVotesResponse {
	return models.AllVotesResponse{
		LocationVotes: c.ZeroTally(models.PollLocation),
		DateVotes:     c.ZeroTally(models.PollDate),
	}
}
