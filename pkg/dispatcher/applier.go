// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/amd-enterprise-ai/airm/pkg/metrics"
	"github.com/amd-enterprise-ai/airm/pkg/workloads"
	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

// ProcessWorkload materializes every document of the workload manifest in the
// cluster. A failing document is reported as CREATE_FAILED for its component
// and does not stop the remaining documents; already-created resources are
// not rolled back.
func (d *Dispatcher) ProcessWorkload(ctx context.Context, msg messaging.WorkloadMessage) error {
	objects, err := parseManifestObjects(msg.Manifest)
	if err != nil {
		klog.Errorf("Failed to parse manifest for workload %s: %v", msg.WorkloadID, err)
		return nil
	}

	for _, obj := range objects {
		if err := d.applyObject(ctx, obj); err != nil {
			klog.Errorf("Failed to apply %s %s/%s for workload %s: %v",
				obj.GetKind(), obj.GetNamespace(), obj.GetName(), msg.WorkloadID, err)
			metrics.DispatcherAppliesTotal.WithLabelValues(obj.GetKind(), "error").Inc()
			d.publishCreateFailed(ctx, obj, err)
			continue
		}
		metrics.DispatcherAppliesTotal.WithLabelValues(obj.GetKind(), "ok").Inc()
		klog.Infof("Created %s %s/%s for workload %s", obj.GetKind(), obj.GetNamespace(), obj.GetName(), msg.WorkloadID)
	}
	return nil
}

func (d *Dispatcher) applyObject(ctx context.Context, obj *unstructured.Unstructured) error {
	gvk := obj.GroupVersionKind()
	mapping, err := d.mapper.RESTMapping(gvk.GroupKind(), gvk.Version)
	if err != nil {
		return fmt.Errorf("failed to resolve resource for %s: %w", gvk, err)
	}

	resource := d.dynamic.Resource(mapping.Resource)
	if mapping.Scope.Name() == meta.RESTScopeNameNamespace {
		_, err = resource.Namespace(obj.GetNamespace()).Create(ctx, obj, metav1.CreateOptions{})
	} else {
		_, err = resource.Create(ctx, obj, metav1.CreateOptions{})
	}
	return err
}

func (d *Dispatcher) publishCreateFailed(ctx context.Context, obj *unstructured.Unstructured, applyErr error) {
	labels := obj.GetLabels()
	workloadID, err := uuid.Parse(labels[workloads.WorkloadIDLabel])
	if err != nil {
		klog.Errorf("Cannot report create failure for %s %s: missing workload id label", obj.GetKind(), obj.GetName())
		return
	}
	componentID, err := uuid.Parse(labels[workloads.ComponentIDLabel])
	if err != nil {
		klog.Errorf("Cannot report create failure for %s %s: missing component id label", obj.GetKind(), obj.GetName())
		return
	}

	message := messaging.WorkloadComponentStatusMessage{
		WorkloadID:   workloadID,
		ID:           componentID,
		Kind:         messaging.ComponentKind(obj.GetKind()),
		APIVersion:   obj.GetAPIVersion(),
		Name:         obj.GetName(),
		Status:       messaging.ComponentStatusCreateFailed,
		StatusReason: applyErr.Error(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := d.publisher.PublishFeedback(ctx, message); err != nil {
		klog.Errorf("Failed to publish create failure for component %s: %v", componentID, err)
	}
}

// ProcessDeleteWorkload lists every supported kind for resources labelled
// with the workload id and deletes them with foreground propagation. Nothing
// found means the workload left no footprint and is reported DELETED
// directly; per-item delete failures are reported per component without
// aborting the sweep.
func (d *Dispatcher) ProcessDeleteWorkload(ctx context.Context, msg messaging.DeleteWorkloadMessage) error {
	selector := fmt.Sprintf("%s=%s", workloads.WorkloadIDLabel, msg.WorkloadID)

	type foundItem struct {
		wk   watchedKind
		item unstructured.Unstructured
	}
	var found []foundItem

	for _, wk := range watchedKinds {
		if wk.Optional && !d.installed[wk.Kind] {
			continue
		}
		list, err := d.dynamic.Resource(wk.GVR).List(ctx, metav1.ListOptions{LabelSelector: selector})
		if err != nil {
			klog.Errorf("Failed to list %s for workload %s deletion: %v", wk.Kind, msg.WorkloadID, err)
			return nil
		}
		for _, item := range list.Items {
			found = append(found, foundItem{wk: wk, item: item})
		}
	}

	if len(found) == 0 {
		message := messaging.WorkloadStatusMessage{
			WorkloadID: msg.WorkloadID,
			Status:     messaging.WorkloadStatusDeleted,
			Reason:     fmt.Sprintf("No resources found for deletion: %s=%s", workloads.WorkloadIDLabel, msg.WorkloadID),
			UpdatedAt:  time.Now().UTC(),
		}
		if err := d.publisher.PublishFeedback(ctx, message); err != nil {
			klog.Errorf("Failed to publish deleted status for workload %s: %v", msg.WorkloadID, err)
		}
		return nil
	}

	propagation := metav1.DeletePropagationForeground
	deleteOptions := metav1.DeleteOptions{PropagationPolicy: &propagation}
	for _, f := range found {
		err := d.dynamic.Resource(f.wk.GVR).
			Namespace(f.item.GetNamespace()).
			Delete(ctx, f.item.GetName(), deleteOptions)
		if err != nil {
			klog.Errorf("Failed to delete %s %s/%s: %v", f.wk.Kind, f.item.GetNamespace(), f.item.GetName(), err)
			d.publishDeleteFailed(ctx, f.wk, &f.item, err)
			continue
		}
		klog.Infof("Deleted %s %s/%s for workload %s", f.wk.Kind, f.item.GetNamespace(), f.item.GetName(), msg.WorkloadID)
	}
	return nil
}

func (d *Dispatcher) publishDeleteFailed(ctx context.Context, wk watchedKind, obj *unstructured.Unstructured, deleteErr error) {
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
	message := messaging.WorkloadComponentStatusMessage{
		WorkloadID:   workloadID,
		ID:           componentID,
		Kind:         wk.Kind,
		APIVersion:   apiVersion,
		Name:         obj.GetName(),
		Status:       messaging.ComponentStatusDeleteFailed,
		StatusReason: fmt.Sprintf("Deletion failed: %v", deleteErr),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := d.publisher.PublishFeedback(ctx, message); err != nil {
		klog.Errorf("Failed to publish delete failure for component %s: %v", componentID, err)
	}
}

// parseManifestObjects splits the manifest stream and decodes each document
// into an unstructured object.
func parseManifestObjects(manifest string) ([]*unstructured.Unstructured, error) {
	reader := yamlutil.NewYAMLReader(bufio.NewReader(bytes.NewReader([]byte(manifest))))
	var objects []*unstructured.Unstructured
	for {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		content := map[string]interface{}{}
		if err := yaml.Unmarshal(raw, &content); err != nil {
			return nil, err
		}
		if len(content) == 0 {
			continue
		}
		objects = append(objects, &unstructured.Unstructured{Object: content})
	}
	return objects, nil
}
