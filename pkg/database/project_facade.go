// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	"context"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/google/uuid"
)

// ProjectFacadeInterface defines the Project facade interface.
type ProjectFacadeInterface interface {
	// Create inserts a project row
	Create(ctx context.Context, project *model.Project) error
	// GetByID gets a project by id
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// GetByIDWithCluster gets a project with its cluster preloaded
	GetByIDWithCluster(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// ListByOrganization lists the projects of one organization
	ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*model.Project, error)
}

// ProjectFacade implements ProjectFacadeInterface.
type ProjectFacade struct {
	BaseFacade
}

func (f *ProjectFacade) Create(ctx context.Context, project *model.Project) error {
	return checkErr(f.getDB().WithContext(ctx).Create(project).Error, false)
}

func (f *ProjectFacade) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project := &model.Project{}
	err := f.getDB().WithContext(ctx).Where("id = ?", id).Take(project).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return project, nil
}

func (f *ProjectFacade) GetByIDWithCluster(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project := &model.Project{}
	err := f.getDB().WithContext(ctx).
		Preload("Cluster").
		Where("id = ?", id).
		Take(project).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return project, nil
}

func (f *ProjectFacade) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]*model.Project, error) {
	var projects []*model.Project
	err := f.getDB().WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Order("created_at ASC").
		Find(&projects).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return projects, nil
}
