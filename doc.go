// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the ballotbox API server.

ballotbox is a voting-system REST API: voter CRUD, candidate
registration, vote casting, and results tallying, plus verifiable
ballot intake, differentially private analytics, and risk-limiting
audit planning.

# Starting the Server

The server runs against a local SQLite file by default:

	go run main.go

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

# Configuration

Optional settings (flags override environment variables):

  - PORT (-p): server port (default: 5000)
  - DATABASE_URL (-d): connection string (default: file:ballotbox.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - AMQP_URL (-amqp): publish vote events to this broker
  - AMQP_QUEUE (-amqp-queue): vote event queue (default: votes)
  - REDIS_URL (-redis): cache the results leaderboard in Redis

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (voters, candidates, votes, results,
    ballots, analytics, audits)
  - router: route definitions using Go 1.22+ routing
  - middleware: logging and JSON helpers
  - metrics: Prometheus collectors, exposed at GET /metrics
  - events: optional AMQP vote-event publishing
  - cache: optional Redis results cache
  - models: request/response types
  - db: schema creation
  - idgen: ballot and audit identifiers
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
