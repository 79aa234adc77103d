// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import "context"

// ResultsCache holds a serialized copy of the results leaderboard.
// Implementations must treat misses and backend errors alike: the
// caller recomputes from the store either way.
type ResultsCache interface {
	GetResults(ctx context.Context) ([]byte, bool)
	SetResults(ctx context.Context, payload []byte)
	Invalidate(ctx context.Context)
}
