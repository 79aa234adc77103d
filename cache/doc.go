// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cache provides an optional Redis-backed cache for the results
leaderboard.

The cache is read-through with a short TTL and is invalidated whenever a
vote is cast. Handlers accept a nil ResultsCache and skip caching
entirely; main wires a RedisCache only when REDIS_URL is configured.
*/
package cache
