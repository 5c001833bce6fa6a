// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	"context"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// WorkloadFacadeInterface defines the Workload facade interface.
type WorkloadFacadeInterface interface {
	// Create inserts a workload row
	Create(ctx context.Context, workload *model.Workload) error
	// GetByID gets a workload by id
	GetByID(ctx context.Context, id uuid.UUID) (*model.Workload, error)
	// GetByIDInCluster gets a workload by id scoped to a cluster
	GetByIDInCluster(ctx context.Context, id, clusterID uuid.UUID) (*model.Workload, error)
	// ListByProject lists the workloads of one project
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Workload, error)
	// ListByProjects lists the workloads across the given projects
	ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*model.Workload, error)
	// UpdateStatus sets the status and the transition timestamp together
	UpdateStatus(ctx context.Context, workload *model.Workload, status messaging.WorkloadStatus, transitionAt time.Time, updatedBy string) error
	// CountByStatusInCluster counts workloads per status within a cluster
	CountByStatusInCluster(ctx context.Context, clusterID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error)
	// CountByStatusInProject counts workloads per status within a project
	CountByStatusInProject(ctx context.Context, projectID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error)
	// CountByStatusInOrganization counts workloads per status across an organization
	CountByStatusInOrganization(ctx context.Context, organizationID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error)
}

// WorkloadFacade implements WorkloadFacadeInterface.
type WorkloadFacade struct {
	BaseFacade
}

func (f *WorkloadFacade) Create(ctx context.Context, workload *model.Workload) error {
	if err := f.getDB().WithContext(ctx).Create(workload).Error; err != nil {
		return checkErr(err, false)
	}
	return nil
}

func (f *WorkloadFacade) GetByID(ctx context.Context, id uuid.UUID) (*model.Workload, error) {
	workload := &model.Workload{}
	err := f.getDB().WithContext(ctx).Where("id = ?", id).Take(workload).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return workload, nil
}

func (f *WorkloadFacade) GetByIDInCluster(ctx context.Context, id, clusterID uuid.UUID) (*model.Workload, error) {
	workload := &model.Workload{}
	err := f.getDB().WithContext(ctx).
		Where("id = ? AND cluster_id = ?", id, clusterID).
		Take(workload).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return workload, nil
}

func (f *WorkloadFacade) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.Workload, error) {
	var workloads []*model.Workload
	err := f.getDB().WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&workloads).Error
	if err != nil {
		return nil, errors.Wrap(checkErr(err, false), "failed to list workloads by project")
	}
	return workloads, nil
}

func (f *WorkloadFacade) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*model.Workload, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	var workloads []*model.Workload
	err := f.getDB().WithContext(ctx).
		Where("project_id IN ?", projectIDs).
		Order("created_at DESC").
		Find(&workloads).Error
	if err != nil {
		return nil, errors.Wrap(checkErr(err, false), "failed to list workloads by projects")
	}
	return workloads, nil
}

func (f *WorkloadFacade) UpdateStatus(ctx context.Context, workload *model.Workload, status messaging.WorkloadStatus, transitionAt time.Time, updatedBy string) error {
	workload.Status = status
	workload.LastStatusTransitionAt = transitionAt
	workload.UpdatedAt = transitionAt
	workload.UpdatedBy = updatedBy
	err := f.getDB().WithContext(ctx).Model(workload).Updates(map[string]interface{}{
		"status":                    status,
		"last_status_transition_at": transitionAt,
		"updated_at":                transitionAt,
		"updated_by":                updatedBy,
	}).Error
	return checkErr(err, false)
}

type statusCountRow struct {
	Status messaging.WorkloadStatus
	Count  int64
}

func (f *WorkloadFacade) CountByStatusInCluster(ctx context.Context, clusterID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error) {
	var rows []statusCountRow
	err := f.getDB().WithContext(ctx).
		Model(&model.Workload{}).
		Select("status, count(*) as count").
		Where("cluster_id = ? AND status IN ?", clusterID, statuses).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return statusCountsToMap(rows), nil
}

func (f *WorkloadFacade) CountByStatusInProject(ctx context.Context, projectID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error) {
	var rows []statusCountRow
	err := f.getDB().WithContext(ctx).
		Model(&model.Workload{}).
		Select("status, count(*) as count").
		Where("project_id = ? AND status IN ?", projectID, statuses).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return statusCountsToMap(rows), nil
}

func (f *WorkloadFacade) CountByStatusInOrganization(ctx context.Context, organizationID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error) {
	var rows []statusCountRow
	err := f.getDB().WithContext(ctx).
		Model(&model.Workload{}).
		Select("workloads.status, count(*) as count").
		Joins("JOIN projects ON projects.id = workloads.project_id").
		Where("projects.organization_id = ? AND workloads.status IN ?", organizationID, statuses).
		Group("workloads.status").
		Scan(&rows).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return statusCountsToMap(rows), nil
}

func statusCountsToMap(rows []statusCountRow) map[messaging.WorkloadStatus]int64 {
	counts := make(map[messaging.WorkloadStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts
}
