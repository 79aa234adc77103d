// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses server configuration from CLI flags with
environment-variable fallback.

Settings:

  - PORT (-p): server port (default: 5000)
  - DATABASE_URL (-d): connection string (default: file:ballotbox.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - AMQP_URL (-amqp): optional broker URL; enables vote-event publishing
  - AMQP_QUEUE (-amqp-queue): queue for vote events (default: votes)
  - REDIS_URL (-redis): optional Redis address; enables the results cache

CLI flags take precedence over environment variables.
*/
package cliparse
