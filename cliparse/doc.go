// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite, postgres, redis or bolt (default: sqlite)
  - DatabaseURL: Connection string or file path (defaults exist for sqlite and bolt)
  - GatewayKey: Bearer key checked on every request (optional)
  - CatalogPath: YAML file replacing the built-in poll options (optional)
  - LogLevel: debug, info, warn or error (default: info)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--gateway-key Bearer key
	--catalog     Poll option file
	--log-level   Log level

# Environment Variables

Flags fall back to environment variables, and a .env file in the working
directory is loaded first when present:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	GATEWAY_KEY   → --gateway-key
	POLL_CATALOG  → --catalog
	LOG_LEVEL     → --log-level

CLI flags take precedence over environment variables, and variables
already set in the environment take precedence over .env.

# Validation

ParseFlags returns an error if:

  - PORT is not a number
  - DATABASE_TYPE is not one of the supported backends
  - DATABASE_URL is missing for postgres or redis
*/
package cliparse
