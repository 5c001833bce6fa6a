// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	"context"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
)

// WorkloadComponentFacadeInterface defines the WorkloadComponent facade interface.
type WorkloadComponentFacadeInterface interface {
	// CreateBatch inserts all components of a submission in one go
	CreateBatch(ctx context.Context, components []*model.WorkloadComponent) error
	// ListByWorkload lists the components of one workload
	ListByWorkload(ctx context.Context, workloadID uuid.UUID) ([]*model.WorkloadComponent, error)
	// GetByID gets one component scoped to its workload
	GetByID(ctx context.Context, componentID, workloadID uuid.UUID) (*model.WorkloadComponent, error)
	// UpdateStatus applies a status observation to a component
	UpdateStatus(ctx context.Context, component *model.WorkloadComponent, status messaging.ComponentStatus, statusReason string, updatedAt time.Time, updatedBy string) error
}

// WorkloadComponentFacade implements WorkloadComponentFacadeInterface.
type WorkloadComponentFacade struct {
	BaseFacade
}

func (f *WorkloadComponentFacade) CreateBatch(ctx context.Context, components []*model.WorkloadComponent) error {
	if len(components) == 0 {
		return nil
	}
	return checkErr(f.getDB().WithContext(ctx).Create(components).Error, false)
}

func (f *WorkloadComponentFacade) ListByWorkload(ctx context.Context, workloadID uuid.UUID) ([]*model.WorkloadComponent, error) {
	var components []*model.WorkloadComponent
	err := f.getDB().WithContext(ctx).
		Where("workload_id = ?", workloadID).
		Order("created_at ASC").
		Find(&components).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return components, nil
}

func (f *WorkloadComponentFacade) GetByID(ctx context.Context, componentID, workloadID uuid.UUID) (*model.WorkloadComponent, error) {
	component := &model.WorkloadComponent{}
	err := f.getDB().WithContext(ctx).
		Where("id = ? AND workload_id = ?", componentID, workloadID).
		Take(component).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return component, nil
}

func (f *WorkloadComponentFacade) UpdateStatus(ctx context.Context, component *model.WorkloadComponent, status messaging.ComponentStatus, statusReason string, updatedAt time.Time, updatedBy string) error {
	component.Status = status
	component.StatusReason = statusReason
	component.UpdatedAt = updatedAt
	component.UpdatedBy = updatedBy
	err := f.getDB().WithContext(ctx).Model(component).Updates(map[string]interface{}{
		"status":        status,
		"status_reason": statusReason,
		"updated_at":    updatedAt,
		"updated_by":    updatedBy,
	}).Error
	return checkErr(err, false)
}
