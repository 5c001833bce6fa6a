// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// FeedbackQueueName is the queue shared by every dispatcher to report
	// workload and component status back to the API.
	FeedbackQueueName = "feedback.common"

	reconnectBaseDelay = time.Second
	reconnectMaxDelay  = 30 * time.Second
)

// ClusterQueueName returns the per-cluster workload queue.
func ClusterQueueName(clusterID uuid.UUID) string {
	return fmt.Sprintf("cluster.%s.workloads", clusterID)
}

// Client wraps an AMQP connection on the shared virtual host. Publishing and
// consuming each use their own channel; the connection is re-dialed on loss.
type Client struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewClient(url string) *Client {
	return &Client{url: url}
}

func (c *Client) connection() (*amqp.Connection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil && !c.conn.IsClosed() {
		return c.conn, nil
	}
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to message bus: %w", err)
	}
	c.conn = conn
	return conn, nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil || c.conn.IsClosed() {
		return nil
	}
	return c.conn.Close()
}

func declareQueue(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	return err
}

// Publish declares the queue and sends one persistent JSON message to it.
func (c *Client) Publish(ctx context.Context, queue string, msg Message) error {
	body, err := Encode(msg)
	if err != nil {
		return err
	}

	conn, err := c.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, queue); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	return ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Handler processes one delivery body. A nil return acks the message; an
// error rejects it without requeue so a poison message cannot block the queue.
type Handler func(ctx context.Context, body []byte) error

// Consume pulls messages from the queue until the context is cancelled,
// re-establishing the connection with exponential backoff on failure. The
// delivery is acked only after the handler returns nil, so a crash between
// processing and ack results in redelivery rather than loss.
func (c *Client) Consume(ctx context.Context, queue string, handler Handler) {
	delay := reconnectBaseDelay
	for {
		if err := c.consumeOnce(ctx, queue, handler); err != nil {
			log.Errorf("Consumer for queue %s stopped: %v, reconnecting in %v", queue, err, delay)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > reconnectMaxDelay {
			delay = reconnectMaxDelay
		}
	}
}

func (c *Client) consumeOnce(ctx context.Context, queue string, handler Handler) error {
	conn, err := c.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := declareQueue(ch, queue); err != nil {
		return err
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}
	log.Infof("Consuming queue %s", queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			if err := handler(ctx, delivery.Body); err != nil {
				log.Errorf("Failed to process message from %s: %v", queue, err)
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					return nackErr
				}
				continue
			}
			if ackErr := delivery.Ack(false); ackErr != nil {
				return ackErr
			}
		}
	}
}
