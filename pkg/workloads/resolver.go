// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
)

// ResolveWorkloadStatus derives the aggregate workload status from the
// current status and the full component set. The rules are evaluated in
// order and the first match wins; the ordering makes the result independent
// of the order in which per-component feedback arrives.
func ResolveWorkloadStatus(currentStatus messaging.WorkloadStatus, components []*model.WorkloadComponent) messaging.WorkloadStatus {
	if len(components) == 0 {
		return messaging.WorkloadStatusUnknown
	}

	// All components are deleted
	allDeleted := true
	for _, comp := range components {
		if comp.Status != messaging.ComponentStatusDeleted {
			allDeleted = false
			break
		}
	}
	if allDeleted {
		return messaging.WorkloadStatusDeleted
	}

	// If any component is in deletion failed state, the overall state is deletion failed
	for _, comp := range components {
		if comp.Status == messaging.ComponentStatusDeleteFailed {
			return messaging.WorkloadStatusDeleteFailed
		}
	}

	// If a delete was triggered, don't change the status
	if currentStatus == messaging.WorkloadStatusDeleting {
		return messaging.WorkloadStatusDeleting
	}

	// If all components are in a Completed state, the workload is Completed
	allCompleted := true
	for _, comp := range components {
		if !statusIn(comp.Status, componentSpecificCompletedStatuses[comp.Kind]) {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		return messaging.WorkloadStatusComplete
	}

	// If any component is in a Downloading state, the workload is Downloading
	for _, comp := range components {
		if statusIn(comp.Status, componentSpecificDownloadingStatuses[comp.Kind]) {
			return messaging.WorkloadStatusDownloading
		}
	}

	// If all components are deleted, completed or terminated, the workload is Terminated
	allSettled := true
	for _, comp := range components {
		settled := comp.Status == messaging.ComponentStatusDeleted ||
			statusIn(comp.Status, componentSpecificCompletedStatuses[comp.Kind]) ||
			statusIn(comp.Status, componentSpecificTerminatedStatuses[comp.Kind])
		if !settled {
			allSettled = false
			break
		}
	}
	if allSettled {
		return messaging.WorkloadStatusTerminated
	}

	// If any component is in a Failed state, the workload is Failed
	for _, comp := range components {
		if comp.Status == messaging.ComponentStatusCreateFailed ||
			statusIn(comp.Status, componentSpecificFailedStatuses[comp.Kind]) {
			return messaging.WorkloadStatusFailed
		}
	}

	// If any component is in a Pending state, the workload is Pending
	for _, comp := range components {
		if comp.Status == messaging.ComponentStatusRegistered ||
			statusIn(comp.Status, componentSpecificPendingStatuses[comp.Kind]) {
			return messaging.WorkloadStatusPending
		}
	}

	// If any component is in a Running state, the workload is Running
	for _, comp := range components {
		if statusIn(comp.Status, componentSpecificRunningStatuses[comp.Kind]) {
			return messaging.WorkloadStatusRunning
		}
	}

	return messaging.WorkloadStatusUnknown
}
