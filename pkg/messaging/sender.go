// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package messaging

import (
	"context"

	"github.com/google/uuid"
)

// Sender enqueues control messages towards a cluster's dispatcher. It exists
// as an interface so services can be unit tested without a broker.
type Sender interface {
	Enqueue(ctx context.Context, clusterID uuid.UUID, msg Message) error
}

// FeedbackPublisher publishes dispatcher observations onto the common
// feedback queue.
type FeedbackPublisher interface {
	PublishFeedback(ctx context.Context, msg Message) error
}

type busSender struct {
	client *Client
}

func NewSender(client *Client) Sender {
	return &busSender{client: client}
}

func (s *busSender) Enqueue(ctx context.Context, clusterID uuid.UUID, msg Message) error {
	return s.client.Publish(ctx, ClusterQueueName(clusterID), msg)
}

type feedbackPublisher struct {
	client *Client
}

func NewFeedbackPublisher(client *Client) FeedbackPublisher {
	return &feedbackPublisher{client: client}
}

func (p *feedbackPublisher) PublishFeedback(ctx context.Context, msg Message) error {
	return p.client.Publish(ctx, FeedbackQueueName, msg)
}
