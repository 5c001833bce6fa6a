// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package model

import (
	"encoding/json"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
)

const (
	TableNameWorkload            = "workloads"
	TableNameWorkloadComponent   = "workload_components"
	TableNameWorkloadTimeSummary = "workload_time_summaries"
)

// WorkloadKind discriminates how a workload was produced.
type WorkloadKind string

const (
	WorkloadKindGeneric WorkloadKind = "generic"
	WorkloadKindManaged WorkloadKind = "managed"
	WorkloadKindAIM     WorkloadKind = "aim"
)

// WorkloadType classifies what the workload does.
type WorkloadType string

const (
	WorkloadTypeModelDownload WorkloadType = "MODEL_DOWNLOAD"
	WorkloadTypeInference     WorkloadType = "INFERENCE"
	WorkloadTypeFineTuning    WorkloadType = "FINE_TUNING"
	WorkloadTypeWorkspace     WorkloadType = "WORKSPACE"
	WorkloadTypeCustom        WorkloadType = "CUSTOM"
)

// Workload is a user-submitted unit of work tracked across its components.
// Details holds the kind-specific variant payload as JSONB; the Kind column
// is the discriminator.
type Workload struct {
	Base
	DisplayName            string                   `gorm:"column:display_name;size:256;index" json:"display_name"`
	Type                   WorkloadType             `gorm:"column:type;size:32" json:"type"`
	Kind                   WorkloadKind             `gorm:"column:kind;size:32;not null;default:'generic'" json:"kind"`
	ClusterID              uuid.UUID                `gorm:"column:cluster_id;type:uuid;not null;index" json:"cluster_id"`
	ProjectID              uuid.UUID                `gorm:"column:project_id;type:uuid;not null;index:ix_workloads_project_id_status" json:"project_id"`
	Status                 messaging.WorkloadStatus `gorm:"column:status;size:32;not null;index:ix_workloads_project_id_status" json:"status"`
	LastStatusTransitionAt time.Time                `gorm:"column:last_status_transition_at;not null" json:"last_status_transition_at"`
	Details                json.RawMessage          `gorm:"column:details;type:jsonb" json:"details,omitempty"`
}

func (*Workload) TableName() string {
	return TableNameWorkload
}

// WorkloadComponent is one Kubernetes resource tracked on behalf of a
// workload; the unit of status feedback.
type WorkloadComponent struct {
	Base
	WorkloadID   uuid.UUID                 `gorm:"column:workload_id;type:uuid;not null;index" json:"workload_id"`
	Name         string                    `gorm:"column:name;size:256;not null" json:"name"`
	Kind         messaging.ComponentKind   `gorm:"column:kind;size:64;not null" json:"kind"`
	APIVersion   string                    `gorm:"column:api_version;size:64;not null" json:"api_version"`
	Status       messaging.ComponentStatus `gorm:"column:status;size:32;not null" json:"status"`
	StatusReason string                    `gorm:"column:status_reason" json:"status_reason,omitempty"`
}

func (*WorkloadComponent) TableName() string {
	return TableNameWorkloadComponent
}

// WorkloadTimeSummary accumulates the wall time a workload has spent in one
// status. TotalElapsedSeconds never decreases; (workload_id, status) is
// unique.
type WorkloadTimeSummary struct {
	Base
	WorkloadID          uuid.UUID                `gorm:"column:workload_id;type:uuid;not null;uniqueIndex:ix_workload_time_summaries_workload_id_status" json:"workload_id"`
	Status              messaging.WorkloadStatus `gorm:"column:status;size:32;not null;uniqueIndex:ix_workload_time_summaries_workload_id_status" json:"status"`
	TotalElapsedSeconds int64                    `gorm:"column:total_elapsed_seconds;not null" json:"total_elapsed_seconds"`
}

func (*WorkloadTimeSummary) TableName() string {
	return TableNameWorkloadTimeSummary
}
