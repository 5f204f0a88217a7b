// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Logging

WithLogging wraps a handler to log method, path, and duration:

	mux.HandleFunc("GET /votes", middleware.WithLogging(handler.ListVotes))

# CORS

CORS allows any origin, the Authorization and Content-Type headers, and
answers preflight requests with 204:

	handler := middleware.CORS(mux)

# Bearer Pass-Through

RequireBearer checks the gateway key when one is configured:

	handler := middleware.RequireBearer(cfg.GatewayKey, mux)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "unknown poll type")

ParseJSONBody decodes request bodies, ignores unknown fields, and rejects
bodies over 64 KiB:

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
*/
package middleware
