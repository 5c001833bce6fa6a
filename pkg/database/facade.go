// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	"context"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"gorm.io/gorm"
)

// FacadeInterface defines the facade aggregate for unit testing and mocking.
type FacadeInterface interface {
	// GetWorkload returns the Workload facade interface
	GetWorkload() WorkloadFacadeInterface
	// GetWorkloadComponent returns the WorkloadComponent facade interface
	GetWorkloadComponent() WorkloadComponentFacadeInterface
	// GetWorkloadTimeSummary returns the WorkloadTimeSummary facade interface
	GetWorkloadTimeSummary() WorkloadTimeSummaryFacadeInterface
	// GetCluster returns the Cluster facade interface
	GetCluster() ClusterFacadeInterface
	// GetProject returns the Project facade interface
	GetProject() ProjectFacadeInterface
	// Transaction runs fn inside one database transaction; every facade
	// reached through the passed aggregate is bound to that transaction
	Transaction(ctx context.Context, fn func(tx FacadeInterface) error) error
}

// Facade is the unified entry point for database operations.
type Facade struct {
	db                  *gorm.DB
	Workload            WorkloadFacadeInterface
	WorkloadComponent   WorkloadComponentFacadeInterface
	WorkloadTimeSummary WorkloadTimeSummaryFacadeInterface
	Cluster             ClusterFacadeInterface
	Project             ProjectFacadeInterface
}

func NewFacade(db *gorm.DB) *Facade {
	return &Facade{
		db:                  db,
		Workload:            &WorkloadFacade{BaseFacade{db: db}},
		WorkloadComponent:   &WorkloadComponentFacade{BaseFacade{db: db}},
		WorkloadTimeSummary: &WorkloadTimeSummaryFacade{BaseFacade{db: db}},
		Cluster:             &ClusterFacade{BaseFacade{db: db}},
		Project:             &ProjectFacade{BaseFacade{db: db}},
	}
}

func (f *Facade) GetWorkload() WorkloadFacadeInterface { return f.Workload }

func (f *Facade) GetWorkloadComponent() WorkloadComponentFacadeInterface {
	return f.WorkloadComponent
}

func (f *Facade) GetWorkloadTimeSummary() WorkloadTimeSummaryFacadeInterface {
	return f.WorkloadTimeSummary
}

func (f *Facade) GetCluster() ClusterFacadeInterface { return f.Cluster }

func (f *Facade) GetProject() ProjectFacadeInterface { return f.Project }

func (f *Facade) Transaction(ctx context.Context, fn func(tx FacadeInterface) error) error {
	return f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewFacade(tx))
	})
}

// AutoMigrate creates or updates the schema for every tracked entity.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Organization{},
		&model.Cluster{},
		&model.Project{},
		&model.Workload{},
		&model.WorkloadComponent{},
		&model.WorkloadTimeSummary{},
	)
}
