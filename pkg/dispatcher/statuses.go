// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"fmt"
	"strings"

	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// The status mappers below are pure functions over the resource's status
// sub-object; the watchers call them on every event.

func statusForDeployment(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	desired := desiredReplicas(obj)
	available, _, _ := unstructured.NestedInt64(obj.Object, "status", "availableReplicas")
	if desired > 0 && available >= desired {
		return messaging.ComponentStatusRunning, fmt.Sprintf("%d/%d replicas available", available, desired)
	}
	return messaging.ComponentStatusPending, fmt.Sprintf("%d/%d replicas available", available, desired)
}

func statusForStatefulSet(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	desired := desiredReplicas(obj)
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "readyReplicas")
	if desired > 0 && ready >= desired {
		return messaging.ComponentStatusRunning, fmt.Sprintf("%d/%d replicas ready", ready, desired)
	}
	return messaging.ComponentStatusPending, fmt.Sprintf("%d/%d replicas ready", ready, desired)
}

func statusForDaemonSet(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	desired, _, _ := unstructured.NestedInt64(obj.Object, "status", "desiredNumberScheduled")
	ready, _, _ := unstructured.NestedInt64(obj.Object, "status", "numberReady")
	if desired > 0 && ready >= desired {
		return messaging.ComponentStatusRunning, fmt.Sprintf("%d/%d pods ready", ready, desired)
	}
	return messaging.ComponentStatusPending, fmt.Sprintf("%d/%d pods ready", ready, desired)
}

func statusForCronJob(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	if suspended, _, _ := unstructured.NestedBool(obj.Object, "spec", "suspend"); suspended {
		return messaging.ComponentStatusSuspended, "CronJob is suspended"
	}
	active, _, _ := unstructured.NestedSlice(obj.Object, "status", "active")
	if len(active) > 0 {
		return messaging.ComponentStatusRunning, fmt.Sprintf("%d active jobs", len(active))
	}
	return messaging.ComponentStatusReady, "CronJob is scheduled"
}

func statusForJob(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	if condition, message := findCondition(obj, "Complete"); condition {
		return messaging.ComponentStatusComplete, message
	}
	if condition, message := findCondition(obj, "Failed"); condition {
		return messaging.ComponentStatusFailed, message
	}
	if suspended, _, _ := unstructured.NestedBool(obj.Object, "spec", "suspend"); suspended {
		return messaging.ComponentStatusSuspended, "Job is suspended"
	}
	if active, _, _ := unstructured.NestedInt64(obj.Object, "status", "active"); active > 0 {
		return messaging.ComponentStatusRunning, fmt.Sprintf("%d active pods", active)
	}
	return messaging.ComponentStatusPending, "Job has not started"
}

func statusForPod(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
	switch phase {
	case "Running":
		return messaging.ComponentStatusRunning, "Pod is running"
	case "Succeeded":
		return messaging.ComponentStatusComplete, "Pod has completed"
	case "Failed":
		reason, _, _ := unstructured.NestedString(obj.Object, "status", "reason")
		return messaging.ComponentStatusFailed, reason
	default:
		return messaging.ComponentStatusPending, fmt.Sprintf("Pod phase is %s", phase)
	}
}

func statusForService(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	serviceType, _, _ := unstructured.NestedString(obj.Object, "spec", "type")
	if serviceType == "LoadBalancer" {
		ingress, _, _ := unstructured.NestedSlice(obj.Object, "status", "loadBalancer", "ingress")
		if len(ingress) == 0 {
			return messaging.ComponentStatusPending, "Waiting for load balancer ingress"
		}
	}
	return messaging.ComponentStatusReady, "Service is ready"
}

func statusForConfigMap(*unstructured.Unstructured) (messaging.ComponentStatus, string) {
	return messaging.ComponentStatusAdded, "Resource has been added to the cluster."
}

func statusForIngress(*unstructured.Unstructured) (messaging.ComponentStatus, string) {
	return messaging.ComponentStatusAdded, "Resource has been added to the cluster."
}

func statusForHTTPRoute(*unstructured.Unstructured) (messaging.ComponentStatus, string) {
	return messaging.ComponentStatusAdded, "Resource has been added to the cluster."
}

// statusForKaiwo passes through the controller-maintained status field for
// both KaiwoJob and KaiwoService.
func statusForKaiwo(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	status, _, _ := unstructured.NestedString(obj.Object, "status", "status")
	if status == "" {
		return messaging.ComponentStatusPending, "Status not yet reported"
	}
	return messaging.ComponentStatus(strings.ToUpper(status)), fmt.Sprintf("%s reported status %s", obj.GetKind(), status)
}

func statusForAIMService(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	status, _, _ := unstructured.NestedString(obj.Object, "status", "status")
	if status == "" {
		return messaging.ComponentStatusPending, "Status not yet reported"
	}
	return messaging.ComponentStatus(strings.ToUpper(status)), fmt.Sprintf("AIMService reported status %s", status)
}

func statusForExternalSecret(obj *unstructured.Unstructured) (messaging.ComponentStatus, string) {
	if ready, message := findCondition(obj, "Ready"); ready {
		return messaging.ComponentStatusReady, message
	}
	return messaging.ComponentStatusPending, "Secret has not synced"
}

func desiredReplicas(obj *unstructured.Unstructured) int64 {
	replicas, found, _ := unstructured.NestedInt64(obj.Object, "spec", "replicas")
	if !found {
		return 1
	}
	return replicas
}

// findCondition reports whether the named condition is True, along with its
// message when present.
func findCondition(obj *unstructured.Unstructured, conditionType string) (bool, string) {
	conditions, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
	for _, item := range conditions {
		condition, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		cType, _ := condition["type"].(string)
		cStatus, _ := condition["status"].(string)
		if cType == conditionType && cStatus == "True" {
			message, _ := condition["message"].(string)
			if message == "" {
				message = fmt.Sprintf("Condition %s is true", conditionType)
			}
			return true, message
		}
	}
	return false, ""
}
