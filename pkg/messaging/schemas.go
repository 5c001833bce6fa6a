// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package messaging

import (
	"time"

	"github.com/google/uuid"
)

// WorkloadStatus is the aggregate status exposed on a workload.
type WorkloadStatus string

const (
	WorkloadStatusPending      WorkloadStatus = "PENDING"
	WorkloadStatusDownloading  WorkloadStatus = "DOWNLOADING"
	WorkloadStatusRunning      WorkloadStatus = "RUNNING"
	WorkloadStatusComplete     WorkloadStatus = "COMPLETE"
	WorkloadStatusFailed       WorkloadStatus = "FAILED"
	WorkloadStatusTerminated   WorkloadStatus = "TERMINATED"
	WorkloadStatusDeleting     WorkloadStatus = "DELETING"
	WorkloadStatusDeleted      WorkloadStatus = "DELETED"
	WorkloadStatusDeleteFailed WorkloadStatus = "DELETE_FAILED"
	WorkloadStatusUnknown      WorkloadStatus = "UNKNOWN"
)

// ComponentKind is the closed set of Kubernetes resource kinds a workload
// manifest may contain. Anything else is rejected at submission.
type ComponentKind string

const (
	ComponentKindDeployment     ComponentKind = "Deployment"
	ComponentKindStatefulSet    ComponentKind = "StatefulSet"
	ComponentKindDaemonSet      ComponentKind = "DaemonSet"
	ComponentKindCronJob        ComponentKind = "CronJob"
	ComponentKindJob            ComponentKind = "Job"
	ComponentKindPod            ComponentKind = "Pod"
	ComponentKindService        ComponentKind = "Service"
	ComponentKindConfigMap      ComponentKind = "ConfigMap"
	ComponentKindIngress        ComponentKind = "Ingress"
	ComponentKindHTTPRoute      ComponentKind = "HTTPRoute"
	ComponentKindKaiwoJob       ComponentKind = "KaiwoJob"
	ComponentKindKaiwoService   ComponentKind = "KaiwoService"
	ComponentKindAIMService     ComponentKind = "AIMService"
	ComponentKindExternalSecret ComponentKind = "ExternalSecret"
)

// SupportedComponentKinds lists every kind the control plane understands.
var SupportedComponentKinds = []ComponentKind{
	ComponentKindDeployment,
	ComponentKindStatefulSet,
	ComponentKindDaemonSet,
	ComponentKindCronJob,
	ComponentKindJob,
	ComponentKindPod,
	ComponentKindService,
	ComponentKindConfigMap,
	ComponentKindIngress,
	ComponentKindHTTPRoute,
	ComponentKindKaiwoJob,
	ComponentKindKaiwoService,
	ComponentKindAIMService,
	ComponentKindExternalSecret,
}

// IsSupportedComponentKind reports whether kind belongs to the closed set.
func IsSupportedComponentKind(kind string) bool {
	for _, k := range SupportedComponentKinds {
		if string(k) == kind {
			return true
		}
	}
	return false
}

// ComponentStatus is the normalized status of one workload component. The
// value space is shared across kinds; which values a kind can take is encoded
// in the resolver's kind-specific status sets.
type ComponentStatus string

const (
	// Lifecycle statuses common to every kind.
	ComponentStatusRegistered   ComponentStatus = "REGISTERED"
	ComponentStatusCreateFailed ComponentStatus = "CREATE_FAILED"
	ComponentStatusDeleted      ComponentStatus = "DELETED"
	ComponentStatusDeleteFailed ComponentStatus = "DELETE_FAILED"

	// Kind-specific statuses reported by the watchers.
	ComponentStatusPending     ComponentStatus = "PENDING"
	ComponentStatusRunning     ComponentStatus = "RUNNING"
	ComponentStatusComplete    ComponentStatus = "COMPLETE"
	ComponentStatusFailed      ComponentStatus = "FAILED"
	ComponentStatusSuspended   ComponentStatus = "SUSPENDED"
	ComponentStatusReady       ComponentStatus = "READY"
	ComponentStatusInvalid     ComponentStatus = "INVALID"
	ComponentStatusAdded       ComponentStatus = "ADDED"
	ComponentStatusError       ComponentStatus = "ERROR"
	ComponentStatusStarting    ComponentStatus = "STARTING"
	ComponentStatusTerminating ComponentStatus = "TERMINATING"
	ComponentStatusTerminated  ComponentStatus = "TERMINATED"
	ComponentStatusDownloading ComponentStatus = "DOWNLOADING"
	ComponentStatusDegraded    ComponentStatus = "DEGRADED"
)

// Message discriminator values carried in the message_type field.
const (
	MessageTypeWorkload                        = "workload"
	MessageTypeDeleteWorkload                  = "delete_workload"
	MessageTypeWorkloadStatus                  = "workload_status"
	MessageTypeWorkloadComponentStatusUpdate   = "workload_component_status_update"
	MessageTypeAutoDiscoveredWorkloadComponent = "auto_discovered_workload_component"
)

// Message is one of the five bus message variants.
type Message interface {
	Type() string
}

// WorkloadMessage asks a dispatcher to materialize a workload manifest.
type WorkloadMessage struct {
	MessageType string    `json:"message_type"`
	WorkloadID  uuid.UUID `json:"workload_id"`
	Manifest    string    `json:"manifest"`
	UserToken   string    `json:"user_token"`
}

func (m WorkloadMessage) Type() string { return MessageTypeWorkload }

// DeleteWorkloadMessage asks a dispatcher to sweep a workload's resources.
type DeleteWorkloadMessage struct {
	MessageType string    `json:"message_type"`
	WorkloadID  uuid.UUID `json:"workload_id"`
}

func (m DeleteWorkloadMessage) Type() string { return MessageTypeDeleteWorkload }

// WorkloadStatusMessage reports a workload-level status observed by a
// dispatcher, e.g. DELETED when a delete sweep finds nothing to remove.
type WorkloadStatusMessage struct {
	MessageType string         `json:"message_type"`
	WorkloadID  uuid.UUID      `json:"workload_id"`
	Status      WorkloadStatus `json:"status"`
	Reason      string         `json:"reason,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (m WorkloadStatusMessage) Type() string { return MessageTypeWorkloadStatus }

// WorkloadComponentStatusMessage reports the normalized status of a single
// component. ID is the component id; the (ID, Kind, APIVersion) tuple must
// match the stored component exactly or the API drops the message.
type WorkloadComponentStatusMessage struct {
	MessageType  string          `json:"message_type"`
	WorkloadID   uuid.UUID       `json:"workload_id"`
	ID           uuid.UUID       `json:"id"`
	Kind         ComponentKind   `json:"kind"`
	APIVersion   string          `json:"api_version"`
	Name         string          `json:"name"`
	Status       ComponentStatus `json:"status"`
	StatusReason string          `json:"status_reason,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (m WorkloadComponentStatusMessage) Type() string {
	return MessageTypeWorkloadComponentStatusUpdate
}

// AutoDiscoveredWorkloadComponentMessage announces a resource that carries
// the workload labels but was created by a controller rather than submitted,
// so the API can materialize the component (and, if needed, the workload).
type AutoDiscoveredWorkloadComponentMessage struct {
	MessageType string        `json:"message_type"`
	WorkloadID  uuid.UUID     `json:"workload_id"`
	ComponentID uuid.UUID     `json:"component_id"`
	ProjectID   uuid.UUID     `json:"project_id"`
	Kind        ComponentKind `json:"kind"`
	APIVersion  string        `json:"api_version"`
	Name        string        `json:"name"`
	Submitter   string        `json:"submitter,omitempty"`
}

func (m AutoDiscoveredWorkloadComponentMessage) Type() string {
	return MessageTypeAutoDiscoveredWorkloadComponent
}
