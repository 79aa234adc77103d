// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package idgen generates random identifiers for ballots and audit
// plans using crypto/rand.
package idgen
