// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import "github.com/amd-enterprise-ai/airm/pkg/messaging"

// Labels stamped onto every Kubernetes resource belonging to a workload.
// The watchers use them to attribute cluster events back to the owning rows.
const (
	WorkloadIDLabel  = "airm.silogen.ai/workload-id"
	ComponentIDLabel = "airm.silogen.ai/component-id"
	ProjectIDLabel   = "airm.silogen.ai/project-id"

	// KueueQueueNameLabel admits the resource into the project's scheduling
	// queue; the value is always the project name.
	KueueQueueNameLabel = "kueue.x-k8s.io/queue-name"
)

// Annotations used by the auto-discovery flow for controller-spawned children.
const (
	AutoDiscoveredWorkloadAnnotation = "airm.silogen.ai/auto-discovered"
	WorkloadSubmitterAnnotation      = "airm.silogen.ai/submitter"
)

// Kind-specific status sets the resolver evaluates. These are part of the
// control-plane contract; changing them changes the aggregate semantics.
var (
	componentSpecificCompletedStatuses = map[messaging.ComponentKind][]messaging.ComponentStatus{
		messaging.ComponentKindJob:          {messaging.ComponentStatusComplete},
		messaging.ComponentKindKaiwoJob:     {messaging.ComponentStatusComplete},
		messaging.ComponentKindKaiwoService: {messaging.ComponentStatusComplete},
		messaging.ComponentKindService:      {messaging.ComponentStatusReady},
		messaging.ComponentKindConfigMap:    {messaging.ComponentStatusAdded},
		messaging.ComponentKindHTTPRoute:    {messaging.ComponentStatusAdded},
		messaging.ComponentKindIngress:      {messaging.ComponentStatusAdded},
		messaging.ComponentKindPod:          {messaging.ComponentStatusComplete},
	}

	componentSpecificFailedStatuses = map[messaging.ComponentKind][]messaging.ComponentStatus{
		messaging.ComponentKindJob:          {messaging.ComponentStatusFailed},
		messaging.ComponentKindPod:          {messaging.ComponentStatusFailed},
		messaging.ComponentKindService:      {messaging.ComponentStatusInvalid},
		messaging.ComponentKindKaiwoService: {messaging.ComponentStatusFailed},
		messaging.ComponentKindKaiwoJob:     {messaging.ComponentStatusFailed},
		messaging.ComponentKindAIMService:   {messaging.ComponentStatusFailed},
		messaging.ComponentKindConfigMap:    {messaging.ComponentStatusFailed},
	}

	componentSpecificPendingStatuses = map[messaging.ComponentKind][]messaging.ComponentStatus{
		messaging.ComponentKindJob:         {messaging.ComponentStatusSuspended, messaging.ComponentStatusPending},
		messaging.ComponentKindDeployment:  {messaging.ComponentStatusPending},
		messaging.ComponentKindStatefulSet: {messaging.ComponentStatusPending},
		messaging.ComponentKindPod:         {messaging.ComponentStatusPending},
		messaging.ComponentKindDaemonSet:   {messaging.ComponentStatusPending},
		messaging.ComponentKindCronJob:     {messaging.ComponentStatusSuspended},
		messaging.ComponentKindKaiwoService: {
			messaging.ComponentStatusPending,
			messaging.ComponentStatusError,
			messaging.ComponentStatusStarting,
			messaging.ComponentStatusTerminating,
		},
		messaging.ComponentKindKaiwoJob: {
			messaging.ComponentStatusPending,
			messaging.ComponentStatusError,
			messaging.ComponentStatusStarting,
			messaging.ComponentStatusTerminating,
		},
		messaging.ComponentKindAIMService: {
			messaging.ComponentStatusPending,
			messaging.ComponentStatusStarting,
			messaging.ComponentStatusDegraded,
		},
		messaging.ComponentKindService: {messaging.ComponentStatusPending},
	}

	componentSpecificRunningStatuses = map[messaging.ComponentKind][]messaging.ComponentStatus{
		messaging.ComponentKindJob:          {messaging.ComponentStatusRunning},
		messaging.ComponentKindDeployment:   {messaging.ComponentStatusRunning},
		messaging.ComponentKindKaiwoJob:     {messaging.ComponentStatusRunning},
		messaging.ComponentKindKaiwoService: {messaging.ComponentStatusRunning},
		messaging.ComponentKindAIMService:   {messaging.ComponentStatusRunning},
		messaging.ComponentKindDaemonSet:    {messaging.ComponentStatusRunning},
		messaging.ComponentKindStatefulSet:  {messaging.ComponentStatusRunning},
		messaging.ComponentKindCronJob:      {messaging.ComponentStatusRunning, messaging.ComponentStatusReady},
		messaging.ComponentKindPod:          {messaging.ComponentStatusRunning},
	}

	componentSpecificDownloadingStatuses = map[messaging.ComponentKind][]messaging.ComponentStatus{
		messaging.ComponentKindKaiwoJob:     {messaging.ComponentStatusDownloading},
		messaging.ComponentKindKaiwoService: {messaging.ComponentStatusDownloading},
	}

	componentSpecificTerminatedStatuses = map[messaging.ComponentKind][]messaging.ComponentStatus{
		messaging.ComponentKindKaiwoJob:     {messaging.ComponentStatusTerminated},
		messaging.ComponentKindKaiwoService: {messaging.ComponentStatusTerminated},
	}
)

func statusIn(status messaging.ComponentStatus, statuses []messaging.ComponentStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
