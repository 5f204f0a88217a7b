// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the kumpul API server.

kumpul backs the poll on a single event invitation page: guests pick a
favorite venue and a preferred date, anonymously, and see live counts.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run .

Or choose a backend:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run .
	go run . -t redis -d redis://localhost:6379/0
	go run . -t bolt -d /var/lib/kumpul/votes.bolt

# Configuration

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite, postgres, redis, bolt
  - DATABASE_URL (-d): DSN, Redis URL, or Bolt file
  - GATEWAY_KEY (--gateway-key): Bearer key required on requests
  - POLL_CATALOG (--catalog): YAML file of poll options
  - LOG_LEVEL (--log-level): debug, info, warn, error

# Architecture

  - handlers: HTTP request handlers (votes, health)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, bearer check, logging, JSON helpers
  - models: Request/response types
  - polls: Option catalog and tally aggregation
  - db: Storage backends behind the Store interface
  - auth: Anonymous identity and bearer helpers
  - metrics: Atomic counters
  - cliparse: Configuration parsing
  - pollclient: Go client and poll widget state machine
  - cmd/votectl: Command-line client

See package documentation for each component.
*/
package main
