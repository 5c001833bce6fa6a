// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	"context"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/google/uuid"
)

// ClusterFacadeInterface defines the Cluster facade interface.
type ClusterFacadeInterface interface {
	// Create inserts a cluster row
	Create(ctx context.Context, cluster *model.Cluster) error
	// GetByID gets a cluster by id
	GetByID(ctx context.Context, id uuid.UUID) (*model.Cluster, error)
	// List lists every registered cluster
	List(ctx context.Context) ([]*model.Cluster, error)
	// UpdateHeartbeat records a dispatcher heartbeat
	UpdateHeartbeat(ctx context.Context, id uuid.UUID, at time.Time) error
}

// ClusterFacade implements ClusterFacadeInterface.
type ClusterFacade struct {
	BaseFacade
}

func (f *ClusterFacade) Create(ctx context.Context, cluster *model.Cluster) error {
	return checkErr(f.getDB().WithContext(ctx).Create(cluster).Error, false)
}

func (f *ClusterFacade) GetByID(ctx context.Context, id uuid.UUID) (*model.Cluster, error) {
	cluster := &model.Cluster{}
	err := f.getDB().WithContext(ctx).Where("id = ?", id).Take(cluster).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return cluster, nil
}

func (f *ClusterFacade) List(ctx context.Context) ([]*model.Cluster, error) {
	var clusters []*model.Cluster
	err := f.getDB().WithContext(ctx).Order("created_at ASC").Find(&clusters).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return clusters, nil
}

func (f *ClusterFacade) UpdateHeartbeat(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := f.getDB().WithContext(ctx).
		Model(&model.Cluster{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"last_heartbeat_at": at,
			"updated_at":        at,
			"updated_by":        "system",
		}).Error
	return checkErr(err, false)
}
