// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"context"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/amd-enterprise-ai/airm/pkg/metrics"
	"github.com/amd-enterprise-ai/airm/pkg/workloads"
	"github.com/google/uuid"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/klog/v2"
)

const (
	watchBackoffBase = time.Second
	watchBackoffMax  = 5 * time.Minute
)

// runWatcher keeps one long-lived watch open for a resource kind,
// re-establishing it with exponential backoff on disconnect. Retries are
// unbounded; the watch only stops with the context.
func (d *Dispatcher) runWatcher(ctx context.Context, wk watchedKind) {
	clock := &monotonicClock{}
	backoff := watchBackoffBase

	for {
		watcher, err := d.dynamic.Resource(wk.GVR).Watch(ctx, metav1.ListOptions{})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			klog.Errorf("Failed to start %s watcher: %v, retrying in %v", wk.Kind, err, backoff)
			metrics.DispatcherWatchRestartsTotal.WithLabelValues(string(wk.Kind)).Inc()
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > watchBackoffMax {
				backoff = watchBackoffMax
			}
			continue
		}

		klog.Infof("Watching %s resources", wk.Kind)
		backoff = watchBackoffBase
		d.consumeWatch(ctx, wk, watcher, clock)
		watcher.Stop()
		if ctx.Err() != nil {
			return
		}
		metrics.DispatcherWatchRestartsTotal.WithLabelValues(string(wk.Kind)).Inc()
	}
}

func (d *Dispatcher) consumeWatch(ctx context.Context, wk watchedKind, watcher watch.Interface, clock *monotonicClock) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.ResultChan():
			if !ok {
				klog.Warningf("%s watch channel closed, re-establishing", wk.Kind)
				return
			}
			switch event.Type {
			case watch.Added, watch.Modified, watch.Deleted:
				obj, ok := event.Object.(*unstructured.Unstructured)
				if !ok {
					continue
				}
				metrics.DispatcherWatchEventsTotal.WithLabelValues(string(wk.Kind), string(event.Type)).Inc()
				d.processComponentEvent(ctx, wk, event.Type, obj, clock)
			case watch.Error:
				klog.Warningf("%s watch reported an error event, re-establishing", wk.Kind)
				return
			}
		}
	}
}

// processComponentEvent turns one watch event into feedback messages. The
// resource must carry both id labels; anything else in the cluster is not
// ours. Children spawned by controllers announce themselves through the
// auto-discovery annotation and get registered before their first status.
func (d *Dispatcher) processComponentEvent(ctx context.Context, wk watchedKind, eventType watch.EventType, obj *unstructured.Unstructured, clock *monotonicClock) {
	labels := obj.GetLabels()
	workloadID, err := uuid.Parse(labels[workloads.WorkloadIDLabel])
	if err != nil {
		return
	}
	componentID, err := uuid.Parse(labels[workloads.ComponentIDLabel])
	if err != nil {
		return
	}

	apiVersion := obj.GetAPIVersion()
	if apiVersion == "" {
		apiVersion = wk.apiVersion()
	}

	annotations := obj.GetAnnotations()
	if annotations[workloads.AutoDiscoveredWorkloadAnnotation] == "true" {
		d.publishAutoDiscovered(ctx, wk, obj, workloadID, componentID, apiVersion)
	}

	var status messaging.ComponentStatus
	var statusReason string
	if eventType == watch.Deleted {
		status = messaging.ComponentStatusDeleted
		statusReason = "Resource has been deleted"
	} else {
		status, statusReason = wk.Status(obj)
	}

	message := messaging.WorkloadComponentStatusMessage{
		WorkloadID:   workloadID,
		ID:           componentID,
		Kind:         wk.Kind,
		APIVersion:   apiVersion,
		Name:         obj.GetName(),
		Status:       status,
		StatusReason: statusReason,
		UpdatedAt:    clock.Now(),
	}
	if err := d.publisher.PublishFeedback(ctx, message); err != nil {
		klog.Errorf("Failed to publish status for component %s: %v", componentID, err)
	}
}

func (d *Dispatcher) publishAutoDiscovered(ctx context.Context, wk watchedKind, obj *unstructured.Unstructured, workloadID, componentID uuid.UUID, apiVersion string) {
	labels := obj.GetLabels()
	projectID, err := uuid.Parse(labels[workloads.ProjectIDLabel])
	if err != nil {
		klog.Warningf("Auto discovered %s %s has no project id label, skipping registration", wk.Kind, obj.GetName())
		return
	}

	message := messaging.AutoDiscoveredWorkloadComponentMessage{
		WorkloadID:  workloadID,
		ComponentID: componentID,
		ProjectID:   projectID,
		Kind:        wk.Kind,
		APIVersion:  apiVersion,
		Name:        obj.GetName(),
		Submitter:   obj.GetAnnotations()[workloads.WorkloadSubmitterAnnotation],
	}
	if err := d.publisher.PublishFeedback(ctx, message); err != nil {
		klog.Errorf("Failed to publish auto discovered component %s: %v", componentID, err)
	}
}
