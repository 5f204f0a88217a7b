// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import "sync/atomic"

// Metrics holds atomic counters for observability.
type Metrics struct {
	RequestsTotal       atomic.Int64
	VotesCastTotal      atomic.Int64
	VotesCancelledTotal atomic.Int64
	TallyFallbackTotal  atomic.Int64
	StorageErrorsTotal  atomic.Int64
	ValidationFailTotal atomic.Int64
}

// Snapshot returns all metrics as a string-keyed map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests_total":        m.RequestsTotal.Load(),
		"votes_cast_total":      m.VotesCastTotal.Load(),
		"votes_cancelled_total": m.VotesCancelledTotal.Load(),
		"tally_fallback_total":  m.TallyFallbackTotal.Load(),
		"storage_errors_total":  m.StorageErrorsTotal.Load(),
		"validation_fail_total": m.ValidationFailTotal.Load(),
	}
}
