// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package projects

import (
	"net/http"
	"regexp"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/handlers/common"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Project names become Kubernetes namespaces and Kueue queue names, so the
// accepted shape is the DNS label shape.
var projectNamePattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9\-]{0,62}[a-z0-9])?$`)

// ProjectResponse is the view model for one project.
type ProjectResponse struct {
	Id             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	ClusterId      uuid.UUID `json:"cluster_id"`
	OrganizationId uuid.UUID `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateProjectReq creates a project under a cluster and organization.
type CreateProjectReq struct {
	Name           string    `json:"name" binding:"required"`
	ClusterId      uuid.UUID `json:"cluster_id" binding:"required"`
	OrganizationId uuid.UUID `json:"organization_id" binding:"required"`
}

// ProjectsResponse is the list response.
type ProjectsResponse struct {
	Data []*ProjectResponse `json:"data"`
}

type Handler struct {
	facade database.FacadeInterface
}

func NewHandler(facade database.FacadeInterface) *Handler {
	return &Handler{facade: facade}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) error {
	g.POST("/projects", h.CreateProject)
	g.GET("/projects", h.ListProjects)
	g.GET("/projects/:project_id", h.GetProject)
	return nil
}

func (h *Handler) CreateProject(c *gin.Context) {
	common.Handle(c, h.createProject)
}

func (h *Handler) ListProjects(c *gin.Context) {
	common.Handle(c, h.listProjects)
}

func (h *Handler) GetProject(c *gin.Context) {
	common.Handle(c, h.getProject)
}

func (h *Handler) createProject(c *gin.Context) (interface{}, error) {
	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("invalid project payload").WithError(err)
	}
	if !projectNamePattern.MatchString(req.Name) {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project name must be a valid DNS label")
	}

	ctx := c.Request.Context()
	if _, err := h.facade.GetCluster().GetByID(ctx, req.ClusterId); err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Cluster with ID %s not found", req.ClusterId)
		}
		return nil, err
	}

	project := &model.Project{
		Name:           req.Name,
		ClusterID:      req.ClusterId,
		OrganizationID: req.OrganizationId,
	}
	project.CreatedBy = requestUser(c)
	project.UpdatedBy = requestUser(c)
	if err := h.facade.GetProject().Create(ctx, project); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataExists).
				WithMessagef("Project with name '%s' already exists in the cluster", req.Name)
		}
		return nil, err
	}

	c.Status(http.StatusCreated)
	return cvtProjectToResponse(project), nil
}

func (h *Handler) listProjects(c *gin.Context) (interface{}, error) {
	organizationID, err := uuid.Parse(c.Query("organization_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("organization_id must be a valid UUID")
	}

	projects, err := h.facade.GetProject().ListByOrganization(c.Request.Context(), organizationID)
	if err != nil {
		return nil, err
	}
	response := &ProjectsResponse{Data: make([]*ProjectResponse, 0, len(projects))}
	for _, project := range projects {
		response.Data = append(response.Data, cvtProjectToResponse(project))
	}
	return response, nil
}

func (h *Handler) getProject(c *gin.Context) (interface{}, error) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project_id must be a valid UUID")
	}

	project, err := h.facade.GetProject().GetByID(c.Request.Context(), projectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Project with ID %s not found", projectID)
		}
		return nil, err
	}
	return cvtProjectToResponse(project), nil
}

func cvtProjectToResponse(project *model.Project) *ProjectResponse {
	return &ProjectResponse{
		Id:             project.ID,
		Name:           project.Name,
		ClusterId:      project.ClusterID,
		OrganizationId: project.OrganizationID,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}

func requestUser(c *gin.Context) string {
	if user := c.GetHeader("X-User-Email"); user != "" {
		return user
	}
	return "system"
}
