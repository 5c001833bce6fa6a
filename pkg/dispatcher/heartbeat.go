// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// Heartbeater keeps the API's health view of this cluster fresh. The API
// treats a cluster as unhealthy once the last heartbeat leaves the health
// window, which blocks new submissions to it.
type Heartbeater struct {
	clusterID uuid.UUID
	client    *resty.Client
	interval  time.Duration
}

func NewHeartbeater(clusterID uuid.UUID, apiBaseURL string, interval time.Duration) *Heartbeater {
	client := resty.New().
		SetBaseURL(apiBaseURL).
		SetTimeout(30 * time.Second)
	return &Heartbeater{
		clusterID: clusterID,
		client:    client,
		interval:  interval,
	}
}

// Run posts a heartbeat on every tick until the context ends. Failures are
// logged and retried on the next tick; the API side treats a stale heartbeat
// as unhealthy on its own.
func (h *Heartbeater) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.beat(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.beat(ctx)
		}
	}
}

func (h *Heartbeater) beat(ctx context.Context) {
	resp, err := h.client.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/v1/clusters/%s/heartbeat", h.clusterID))
	if err != nil {
		klog.Warningf("Cluster heartbeat failed: %v", err)
		return
	}
	if resp.IsError() {
		klog.Warningf("Cluster heartbeat rejected: %s", resp.Status())
	}
}
