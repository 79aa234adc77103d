// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package events publishes vote events to an AMQP queue.

Publishing is optional and best-effort: main wires an AMQPPublisher when
AMQP_URL is configured and a NoopPublisher otherwise. Vote handlers call
PublishVote after the vote transaction commits; a publish failure is
logged, never surfaced to the voter.
*/
package events
