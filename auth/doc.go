// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides anonymous identity and bearer token helpers.

There are no accounts. A client picks a random id once, stores it locally
and sends it with every vote. The server trusts it as-is.

# Anonymous Identity

ResolveAnonymousID is the generate-or-retrieve step, taking the storage as
a parameter so it can be tested without globals:

	id, err := auth.ResolveAnonymousID(kv, auth.NewAnonymousID)

StoredIdentity wraps the same logic as an IdentityProvider for injection
into the poll client. One id is shared by both poll types.

# Bearer Pass-Through

Requests carry "Authorization: Bearer <key>" for the hosting gateway.
When the server is configured with a gateway key it checks it with a
constant-time comparison:

	if err := auth.ValidateBearer(r.Header.Get("Authorization"), key); err != nil {
		// 401
	}

This mirrors the gateway's check; it is not per-user authentication.
*/
package auth
