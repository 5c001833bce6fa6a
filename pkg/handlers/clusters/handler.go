// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package clusters

import (
	"net/http"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/handlers/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

const clusterCacheTTL = 10 * time.Second

// ClusterResponse exposes the cluster with its computed health status.
type ClusterResponse struct {
	Id              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	BaseUrl         string              `json:"base_url,omitempty"`
	LastHeartbeatAt *time.Time          `json:"last_heartbeat_at"`
	Status          model.ClusterStatus `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreateClusterReq registers a new cluster.
type CreateClusterReq struct {
	Name    string `json:"name" binding:"required"`
	BaseUrl string `json:"base_url"`
}

// ClustersResponse is the list response.
type ClustersResponse struct {
	Data []*ClusterResponse `json:"data"`
}

type Handler struct {
	facade       database.FacadeInterface
	healthWindow time.Duration
	// cache keeps cluster lookups off the database on the hot read path
	cache *gocache.Cache
	now   func() time.Time
}

func NewHandler(facade database.FacadeInterface, healthWindow time.Duration) *Handler {
	return &Handler{
		facade:       facade,
		healthWindow: healthWindow,
		cache:        gocache.New(clusterCacheTTL, time.Minute),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) error {
	g.POST("/clusters", h.CreateCluster)
	g.GET("/clusters", h.ListClusters)
	g.GET("/clusters/:cluster_id", h.GetCluster)
	g.POST("/clusters/:cluster_id/heartbeat", h.Heartbeat)
	return nil
}

func (h *Handler) CreateCluster(c *gin.Context) {
	common.Handle(c, h.createCluster)
}

func (h *Handler) ListClusters(c *gin.Context) {
	common.Handle(c, h.listClusters)
}

func (h *Handler) GetCluster(c *gin.Context) {
	common.Handle(c, h.getCluster)
}

func (h *Handler) Heartbeat(c *gin.Context) {
	common.Handle(c, h.heartbeat)
}

func (h *Handler) createCluster(c *gin.Context) (interface{}, error) {
	var req CreateClusterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("invalid cluster payload").WithError(err)
	}

	cluster := &model.Cluster{
		Name:    req.Name,
		BaseURL: req.BaseUrl,
	}
	cluster.CreatedBy = requestUser(c)
	cluster.UpdatedBy = requestUser(c)
	if err := h.facade.GetCluster().Create(c.Request.Context(), cluster); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataExists).
				WithMessagef("Cluster with name '%s' already exists", req.Name)
		}
		return nil, err
	}

	c.Status(http.StatusCreated)
	return h.cvtClusterToResponse(cluster), nil
}

func (h *Handler) listClusters(c *gin.Context) (interface{}, error) {
	clusters, err := h.facade.GetCluster().List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	response := &ClustersResponse{Data: make([]*ClusterResponse, 0, len(clusters))}
	for _, cluster := range clusters {
		response.Data = append(response.Data, h.cvtClusterToResponse(cluster))
	}
	return response, nil
}

func (h *Handler) getCluster(c *gin.Context) (interface{}, error) {
	clusterID, err := uuid.Parse(c.Param("cluster_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("cluster_id must be a valid UUID")
	}

	if cached, ok := h.cache.Get(clusterID.String()); ok {
		return h.cvtClusterToResponse(cached.(*model.Cluster)), nil
	}

	cluster, err := h.facade.GetCluster().GetByID(c.Request.Context(), clusterID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Cluster with ID %s not found", clusterID)
		}
		return nil, err
	}
	h.cache.SetDefault(clusterID.String(), cluster)
	return h.cvtClusterToResponse(cluster), nil
}

func (h *Handler) heartbeat(c *gin.Context) (interface{}, error) {
	clusterID, err := uuid.Parse(c.Param("cluster_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("cluster_id must be a valid UUID")
	}

	ctx := c.Request.Context()
	if _, err := h.facade.GetCluster().GetByID(ctx, clusterID); err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Cluster with ID %s not found", clusterID)
		}
		return nil, err
	}

	if err := h.facade.GetCluster().UpdateHeartbeat(ctx, clusterID, h.now()); err != nil {
		return nil, err
	}
	h.cache.Delete(clusterID.String())
	c.Status(http.StatusNoContent)
	return nil, nil
}

func (h *Handler) cvtClusterToResponse(cluster *model.Cluster) *ClusterResponse {
	return &ClusterResponse{
		Id:              cluster.ID,
		Name:            cluster.Name,
		BaseUrl:         cluster.BaseURL,
		LastHeartbeatAt: cluster.LastHeartbeatAt,
		Status:          cluster.StatusAt(h.now(), h.healthWindow),
		CreatedAt:       cluster.CreatedAt,
		UpdatedAt:       cluster.UpdatedAt,
	}
}

func requestUser(c *gin.Context) string {
	if user := c.GetHeader("X-User-Email"); user != "" {
		return user
	}
	return "system"
}
