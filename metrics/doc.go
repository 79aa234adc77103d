// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics defines Prometheus collectors for the API.

WithRequestMetrics wraps handlers with a request counter and latency
histogram keyed by route pattern. VotesCast counts accepted votes.
Collectors register on the default registry; the router exposes them
at GET /metrics via promhttp.
*/
package metrics
