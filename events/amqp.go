// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connect establishes a connection to the AMQP broker, retrying a few
// times so the server can start alongside the broker.
func Connect(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for attempt := 1; attempt <= 5; attempt++ {
		if conn, err = amqp.Dial(url); err == nil {
			slog.Info("connected to AMQP broker")
			return conn, nil
		}
		slog.Warn("AMQP connection failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("could not connect to AMQP broker after multiple retries: %w", err)
}

// AMQPPublisher publishes vote events to a queue. A channel is not safe
// for concurrent use, so publishes are serialized with a mutex.
type AMQPPublisher struct {
	ch    *amqp.Channel
	queue string
	mu    sync.Mutex
}

func NewAMQPPublisher(ch *amqp.Channel, queue string) (*AMQPPublisher, error) {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}
	return &AMQPPublisher{ch: ch, queue: queue}, nil
}

func (p *AMQPPublisher) PublishVote(ctx context.Context, ev VoteEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal vote event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
