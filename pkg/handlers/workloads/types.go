// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
)

// WorkloadResponse is the view model for a single workload.
type WorkloadResponse struct {
	Id                     uuid.UUID                `json:"id"`
	ProjectId              uuid.UUID                `json:"project_id"`
	ClusterId              uuid.UUID                `json:"cluster_id"`
	Status                 messaging.WorkloadStatus `json:"status"`
	DisplayName            string                   `json:"display_name,omitempty"`
	Type                   model.WorkloadType       `json:"type,omitempty"`
	Kind                   model.WorkloadKind       `json:"kind"`
	LastStatusTransitionAt time.Time                `json:"last_status_transition_at"`
	CreatedAt              time.Time                `json:"created_at"`
	UpdatedAt              time.Time                `json:"updated_at"`
	CreatedBy              string                   `json:"created_by"`
	UpdatedBy              string                   `json:"updated_by"`
}

// WorkloadComponentResponse is the view model for one component.
type WorkloadComponentResponse struct {
	Id           uuid.UUID                 `json:"id"`
	Name         string                    `json:"name"`
	Kind         messaging.ComponentKind   `json:"kind"`
	ApiVersion   string                    `json:"api_version"`
	Status       messaging.ComponentStatus `json:"status"`
	StatusReason string                    `json:"status_reason,omitempty"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// WorkloadWithComponentsResponse embeds the component list into the workload.
type WorkloadWithComponentsResponse struct {
	WorkloadResponse
	Components []*WorkloadComponentResponse `json:"components"`
}

// WorkloadsResponse is the list response.
type WorkloadsResponse struct {
	Data []*WorkloadResponse `json:"data"`
}

// WorkloadsStatsResponse reports running/pending counts for a scope.
type WorkloadsStatsResponse struct {
	RunningWorkloadsCount int64 `json:"running_workloads_count"`
	PendingWorkloadsCount int64 `json:"pending_workloads_count"`
}

// WorkloadStatusCount is one bucket of the per-project stats.
type WorkloadStatusCount struct {
	Status messaging.WorkloadStatus `json:"status"`
	Count  int64                    `json:"count"`
}

// ProjectWorkloadsStatsResponse reports per-status counts within a project.
type ProjectWorkloadsStatsResponse struct {
	Name           string                `json:"name"`
	TotalWorkloads int64                 `json:"total_workloads"`
	StatusCounts   []WorkloadStatusCount `json:"statusCounts"`
}

// SubmitAIMWorkloadReq deploys an AIM from the catalog as a managed workload.
type SubmitAIMWorkloadReq struct {
	ProjectId uuid.UUID `json:"project_id" binding:"required"`
	ImageName string    `json:"image_name" binding:"required"`
	ImageTag  string    `json:"image_tag" binding:"required"`
}

// WorkloadRunningTimeItem is one row of the per-project running time report.
type WorkloadRunningTimeItem struct {
	WorkloadId          uuid.UUID `json:"workload_id"`
	TotalRunningSeconds float64   `json:"total_running_seconds"`
}

// WorkloadRunningTimesResponse is the running time report.
type WorkloadRunningTimesResponse struct {
	Data []WorkloadRunningTimeItem `json:"data"`
}

// AveragePendingTimeResponse reports the mean pending seconds; null when the
// range holds no workloads.
type AveragePendingTimeResponse struct {
	AveragePendingSeconds *float64 `json:"average_pending_seconds"`
}

func cvtWorkloadToResponse(workload *model.Workload) *WorkloadResponse {
	return &WorkloadResponse{
		Id:                     workload.ID,
		ProjectId:              workload.ProjectID,
		ClusterId:              workload.ClusterID,
		Status:                 workload.Status,
		DisplayName:            workload.DisplayName,
		Type:                   workload.Type,
		Kind:                   workload.Kind,
		LastStatusTransitionAt: workload.LastStatusTransitionAt,
		CreatedAt:              workload.CreatedAt,
		UpdatedAt:              workload.UpdatedAt,
		CreatedBy:              workload.CreatedBy,
		UpdatedBy:              workload.UpdatedBy,
	}
}

func cvtComponentToResponse(component *model.WorkloadComponent) *WorkloadComponentResponse {
	return &WorkloadComponentResponse{
		Id:           component.ID,
		Name:         component.Name,
		Kind:         component.Kind,
		ApiVersion:   component.APIVersion,
		Status:       component.Status,
		StatusReason: component.StatusReason,
		CreatedAt:    component.CreatedAt,
		UpdatedAt:    component.UpdatedAt,
	}
}
