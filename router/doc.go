// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package router wires handlers to routes using Go 1.22+ ServeMux
// patterns. Every API route is wrapped with request logging and
// per-route Prometheus metrics.
package router
