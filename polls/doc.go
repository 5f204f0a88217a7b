// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package polls owns the closed option sets and the tally computation.

# Catalog

The default catalog carries the invitation's venues and dates. A YAML file
may replace either list:

	location:
	  - Bebek Kaleo Jababeka
	  - Tana Bambu Cibubur
	date:
	  - 7 Maret 2026

# Aggregation

Tallies are recomputed from scratch on every read:

	votes, _ := store.ListVotes(ctx)
	tally := catalog.Aggregate(models.PollDate, votes)

Every known option starts at zero. Rows with options outside the catalog
are ignored, so renaming an option never breaks reads of old rows.
*/
package polls
