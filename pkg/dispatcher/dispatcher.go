// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/restmapper"
	"k8s.io/klog/v2"
)

// Dispatcher is the cluster-side half of the control plane: it consumes the
// cluster's workload queue, materializes manifests, sweeps deletions, and
// watches every supported resource kind to publish component status back on
// the common feedback queue. It keeps no state store of its own; the watches
// are the source of truth.
type Dispatcher struct {
	clusterID uuid.UUID
	dynamic   dynamic.Interface
	discovery discovery.DiscoveryInterface
	mapper    meta.RESTMapper
	publisher messaging.FeedbackPublisher
	bus       *messaging.Client

	installed map[messaging.ComponentKind]bool
}

func New(clusterID uuid.UUID, dyn dynamic.Interface, disc discovery.DiscoveryInterface, publisher messaging.FeedbackPublisher, bus *messaging.Client) *Dispatcher {
	mapper := restmapper.NewDeferredDiscoveryRESTMapper(memory.NewMemCacheClient(disc))
	return &Dispatcher{
		clusterID: clusterID,
		dynamic:   dyn,
		discovery: disc,
		mapper:    mapper,
		publisher: publisher,
		bus:       bus,
	}
}

// Run probes the cluster for the supported kinds, starts a watcher per
// installed kind, and consumes the cluster queue until the context ends.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.installed = probeInstalledKinds(d.discovery)

	var wg sync.WaitGroup
	for _, wk := range watchedKinds {
		if wk.Optional && !d.installed[wk.Kind] {
			klog.Infof("Resource %s not installed in cluster, skipping watcher", wk.Kind)
			continue
		}
		wg.Add(1)
		go func(wk watchedKind) {
			defer wg.Done()
			d.runWatcher(ctx, wk)
		}(wk)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		d.bus.Consume(ctx, messaging.ClusterQueueName(d.clusterID), d.handleQueueMessage)
	}()

	wg.Wait()
	return ctx.Err()
}

func (d *Dispatcher) handleQueueMessage(ctx context.Context, body []byte) error {
	msg, err := messaging.Decode(body)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case messaging.WorkloadMessage:
		return d.ProcessWorkload(ctx, m)
	case messaging.DeleteWorkloadMessage:
		return d.ProcessDeleteWorkload(ctx, m)
	default:
		return fmt.Errorf("unexpected message type %q on cluster queue", msg.Type())
	}
}

// monotonicClock stamps feedback messages so that updated_at never repeats
// within one watcher even when events land inside the same wall-clock tick.
type monotonicClock struct {
	mu   sync.Mutex
	last time.Time
}

func (c *monotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now().UTC()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
