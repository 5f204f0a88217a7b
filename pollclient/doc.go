// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pollclient is the client side of the kumpul API.

# Client

Client wraps the HTTP endpoints:

	c := pollclient.NewClient("http://localhost:3318", gatewayKey, nil)
	tally, err := c.Cast(ctx, models.PollDate, userID, "8 Maret 2026")

Non-2xx responses come back as *APIError.

# Widget

Widget is the poll card state machine. A click selects an option
immediately and starts a debounce timer; only the last choice inside the
window is written. Clicking the saved option again cancels the vote.
Failed writes revert to the last confirmed option.

	w := pollclient.NewWidget(c, auth.StoredIdentity{KV: store}, models.PollDate, options, pollclient.Options{
		OnChange: render,
	})
	if err := w.Mount(ctx); err != nil { ... }
	defer w.Unmount()

# Storage

FileStorage and MemoryStorage implement auth.KeyValue for the anonymous id
and the voted-<pollType> flags.
*/
package pollclient
