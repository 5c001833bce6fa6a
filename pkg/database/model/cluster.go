// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	TableNameCluster      = "clusters"
	TableNameProject      = "projects"
	TableNameOrganization = "organizations"
)

// ClusterStatus is derived from the heartbeat, never stored.
type ClusterStatus string

const (
	ClusterStatusHealthy   ClusterStatus = "healthy"
	ClusterStatusVerifying ClusterStatus = "verifying"
	ClusterStatusUnhealthy ClusterStatus = "unhealthy"
)

// Cluster is a Kubernetes cluster served by one dispatcher instance.
type Cluster struct {
	Base
	Name            string     `gorm:"column:name;size:64;not null;uniqueIndex" json:"name"`
	BaseURL         string     `gorm:"column:base_url;size:512" json:"base_url"`
	LastHeartbeatAt *time.Time `gorm:"column:last_heartbeat_at" json:"last_heartbeat_at"`
}

func (*Cluster) TableName() string {
	return TableNameCluster
}

// StatusAt computes the health of the cluster at the given instant:
// verifying until the first heartbeat ever arrives, healthy while the last
// heartbeat is inside the window, unhealthy after it expires.
func (c *Cluster) StatusAt(now time.Time, healthWindow time.Duration) ClusterStatus {
	if c.LastHeartbeatAt == nil {
		return ClusterStatusVerifying
	}
	if now.Sub(*c.LastHeartbeatAt) <= healthWindow {
		return ClusterStatusHealthy
	}
	return ClusterStatusUnhealthy
}

// Project owns workloads; its name doubles as the Kubernetes namespace and
// the scheduling queue the cluster admits the project's resources into.
type Project struct {
	Base
	Name           string    `gorm:"column:name;size:64;not null;uniqueIndex:ix_projects_cluster_id_name" json:"name"`
	ClusterID      uuid.UUID `gorm:"column:cluster_id;type:uuid;not null;uniqueIndex:ix_projects_cluster_id_name" json:"cluster_id"`
	OrganizationID uuid.UUID `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`

	Cluster *Cluster `gorm:"foreignKey:ClusterID" json:"-"`
}

func (*Project) TableName() string {
	return TableNameProject
}

// Organization groups projects for multi-tenant scoping.
type Organization struct {
	Base
	Name string `gorm:"column:name;size:128;not null;uniqueIndex" json:"name"`
}

func (*Organization) TableName() string {
	return TableNameOrganization
}
