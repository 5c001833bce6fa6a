// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/handlers/common"
	"github.com/amd-enterprise-ai/airm/pkg/managed"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	workloadsvc "github.com/amd-enterprise-ai/airm/pkg/workloads"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Allow alphanumeric, spaces, and some special characters
var displayNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 _\-\.,:\(\)\[\]\+@#]+$`)

var statsStatuses = []messaging.WorkloadStatus{
	messaging.WorkloadStatusComplete,
	messaging.WorkloadStatusDownloading,
	messaging.WorkloadStatusFailed,
	messaging.WorkloadStatusDeleting,
	messaging.WorkloadStatusDeleteFailed,
	messaging.WorkloadStatusRunning,
	messaging.WorkloadStatusPending,
	messaging.WorkloadStatusTerminated,
}

type Handler struct {
	facade         database.FacadeInterface
	service        *workloadsvc.Service
	managedService *managed.Service
}

func NewHandler(facade database.FacadeInterface, service *workloadsvc.Service) *Handler {
	return &Handler{
		facade:  facade,
		service: service,
	}
}

// WithManagedService enables the AIM submission route.
func (h *Handler) WithManagedService(managedService *managed.Service) *Handler {
	h.managedService = managedService
	return h
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) error {
	g.POST("/workloads", h.SubmitWorkload)
	g.GET("/workloads", h.GetWorkloads)
	g.GET("/workloads/stats", h.GetWorkloadStats)
	g.GET("/workloads/:workload_id", h.GetWorkload)
	g.DELETE("/workloads/:workload_id", h.DeleteWorkload)
	g.GET("/projects/:project_id/workloads/stats", h.GetProjectWorkloadStats)
	g.GET("/projects/:project_id/workloads/running-times", h.GetProjectRunningTimes)
	g.GET("/projects/:project_id/workloads/average-pending-time", h.GetProjectAveragePendingTime)
	if h.managedService != nil {
		g.POST("/workloads/aim", h.SubmitAIMWorkload)
	}
	return nil
}

// SubmitWorkload deploys a containerized workload (training, inference,
// workspace, or custom) to a cluster from a multipart YAML manifest.
func (h *Handler) SubmitWorkload(c *gin.Context) {
	common.Handle(c, h.submitWorkload)
}

func (h *Handler) GetWorkloads(c *gin.Context) {
	common.Handle(c, h.getWorkloads)
}

func (h *Handler) GetWorkloadStats(c *gin.Context) {
	common.Handle(c, h.getWorkloadStats)
}

func (h *Handler) GetWorkload(c *gin.Context) {
	common.Handle(c, h.getWorkload)
}

func (h *Handler) DeleteWorkload(c *gin.Context) {
	common.Handle(c, h.deleteWorkload)
}

func (h *Handler) GetProjectWorkloadStats(c *gin.Context) {
	common.Handle(c, h.getProjectWorkloadStats)
}

func (h *Handler) GetProjectRunningTimes(c *gin.Context) {
	common.Handle(c, h.getProjectRunningTimes)
}

func (h *Handler) GetProjectAveragePendingTime(c *gin.Context) {
	common.Handle(c, h.getProjectAveragePendingTime)
}

func (h *Handler) SubmitAIMWorkload(c *gin.Context) {
	common.Handle(c, h.submitAIMWorkload)
}

func (h *Handler) submitWorkload(c *gin.Context) (interface{}, error) {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project_id must be a valid UUID")
	}

	displayName := c.Query("display_name")
	if len(displayName) < 2 || len(displayName) > 256 || !displayNamePattern.MatchString(displayName) {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("display_name must be 2-256 characters of letters, digits, spaces or _-.,:()[]+@#")
	}

	workloadType := model.WorkloadType(c.DefaultQuery("workload_type", string(model.WorkloadTypeCustom)))
	switch workloadType {
	case model.WorkloadTypeModelDownload, model.WorkloadTypeInference,
		model.WorkloadTypeFineTuning, model.WorkloadTypeWorkspace, model.WorkloadTypeCustom:
	default:
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessagef("unsupported workload_type: %s", workloadType)
	}

	fileHeader, err := c.FormFile("manifest")
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("manifest file is required")
	}
	if fileHeader.Size > workloadsvc.MaxManifestSize {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("File size too large. Max size is 2 MB.")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("failed to read manifest file").WithError(err)
	}
	defer file.Close()
	manifest, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("failed to read manifest file").WithError(err)
	}

	project, err := h.facade.GetProject().GetByIDWithCluster(c.Request.Context(), projectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Project with ID %s not found", projectID)
		}
		return nil, err
	}
	if project.Cluster == nil {
		return nil, errors.NewError().WithCode(errors.InconsistentStateError).
			WithMessagef("project %s has no cluster", projectID)
	}

	workload, err := h.service.CreateAndSubmit(c.Request.Context(), workloadsvc.SubmitRequest{
		Project:     project,
		Cluster:     project.Cluster,
		Manifest:    manifest,
		Type:        workloadType,
		Kind:        model.WorkloadKindGeneric,
		DisplayName: displayName,
		Creator:     requestUser(c),
		UserToken:   bearerToken(c),
	})
	if err != nil {
		return nil, err
	}

	c.Status(http.StatusCreated)
	return cvtWorkloadToResponse(workload), nil
}

func (h *Handler) getWorkloads(c *gin.Context) (interface{}, error) {
	ctx := c.Request.Context()

	var workloads []*model.Workload
	if projectIDParam := c.Query("project_id"); projectIDParam != "" {
		projectID, err := uuid.Parse(projectIDParam)
		if err != nil {
			return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
				WithMessage("project_id must be a valid UUID")
		}
		workloads, err = h.facade.GetWorkload().ListByProject(ctx, projectID)
		if err != nil {
			return nil, err
		}
	} else if organizationIDParam := c.Query("organization_id"); organizationIDParam != "" {
		organizationID, err := uuid.Parse(organizationIDParam)
		if err != nil {
			return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
				WithMessage("organization_id must be a valid UUID")
		}
		projects, err := h.facade.GetProject().ListByOrganization(ctx, organizationID)
		if err != nil {
			return nil, err
		}
		projectIDs := make([]uuid.UUID, 0, len(projects))
		for _, project := range projects {
			projectIDs = append(projectIDs, project.ID)
		}
		workloads, err = h.facade.GetWorkload().ListByProjects(ctx, projectIDs)
		if err != nil {
			return nil, err
		}
	} else {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project_id or organization_id is required")
	}

	response := &WorkloadsResponse{Data: make([]*WorkloadResponse, 0, len(workloads))}
	for _, workload := range workloads {
		response.Data = append(response.Data, cvtWorkloadToResponse(workload))
	}
	return response, nil
}

func (h *Handler) getWorkloadStats(c *gin.Context) (interface{}, error) {
	ctx := c.Request.Context()
	scopeStatuses := []messaging.WorkloadStatus{
		messaging.WorkloadStatusRunning,
		messaging.WorkloadStatusPending,
	}

	var counts map[messaging.WorkloadStatus]int64
	var err error
	if clusterIDParam := c.Query("cluster_id"); clusterIDParam != "" {
		clusterID, parseErr := uuid.Parse(clusterIDParam)
		if parseErr != nil {
			return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
				WithMessage("cluster_id must be a valid UUID")
		}
		counts, err = h.facade.GetWorkload().CountByStatusInCluster(ctx, clusterID, scopeStatuses)
	} else if organizationIDParam := c.Query("organization_id"); organizationIDParam != "" {
		organizationID, parseErr := uuid.Parse(organizationIDParam)
		if parseErr != nil {
			return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
				WithMessage("organization_id must be a valid UUID")
		}
		counts, err = h.facade.GetWorkload().CountByStatusInOrganization(ctx, organizationID, scopeStatuses)
	} else {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("cluster_id or organization_id is required")
	}
	if err != nil {
		return nil, err
	}

	return &WorkloadsStatsResponse{
		RunningWorkloadsCount: counts[messaging.WorkloadStatusRunning],
		PendingWorkloadsCount: counts[messaging.WorkloadStatusPending],
	}, nil
}

func (h *Handler) getWorkload(c *gin.Context) (interface{}, error) {
	workloadID, err := uuid.Parse(c.Param("workload_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("workload_id must be a valid UUID")
	}

	ctx := c.Request.Context()
	workload, err := h.facade.GetWorkload().GetByID(ctx, workloadID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Workload with ID %s not found", workloadID)
		}
		return nil, err
	}

	components, err := h.facade.GetWorkloadComponent().ListByWorkload(ctx, workload.ID)
	if err != nil {
		return nil, err
	}

	response := &WorkloadWithComponentsResponse{
		WorkloadResponse: *cvtWorkloadToResponse(workload),
		Components:       make([]*WorkloadComponentResponse, 0, len(components)),
	}
	for _, component := range components {
		response.Components = append(response.Components, cvtComponentToResponse(component))
	}
	return response, nil
}

func (h *Handler) deleteWorkload(c *gin.Context) (interface{}, error) {
	workloadID, err := uuid.Parse(c.Param("workload_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("workload_id must be a valid UUID")
	}

	ctx := c.Request.Context()
	workload, err := h.facade.GetWorkload().GetByID(ctx, workloadID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Workload with ID %s not found", workloadID)
		}
		return nil, err
	}

	if err := h.service.SubmitDelete(ctx, workload, requestUser(c)); err != nil {
		return nil, err
	}
	c.Status(http.StatusNoContent)
	return nil, nil
}

func (h *Handler) getProjectWorkloadStats(c *gin.Context) (interface{}, error) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project_id must be a valid UUID")
	}

	ctx := c.Request.Context()
	project, err := h.facade.GetProject().GetByID(ctx, projectID)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Project with ID %s not found", projectID)
		}
		return nil, err
	}

	counts, err := h.facade.GetWorkload().CountByStatusInProject(ctx, projectID, statsStatuses)
	if err != nil {
		return nil, err
	}

	response := &ProjectWorkloadsStatsResponse{Name: project.Name}
	for status, count := range counts {
		response.TotalWorkloads += count
		response.StatusCounts = append(response.StatusCounts, WorkloadStatusCount{Status: status, Count: count})
	}
	return response, nil
}

func (h *Handler) submitAIMWorkload(c *gin.Context) (interface{}, error) {
	var req SubmitAIMWorkloadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("invalid AIM workload payload").WithError(err)
	}

	ctx := c.Request.Context()
	project, err := h.facade.GetProject().GetByIDWithCluster(ctx, req.ProjectId)
	if err != nil {
		if database.IsNotFound(err) {
			return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
				WithMessagef("Project with ID %s not found", req.ProjectId)
		}
		return nil, err
	}
	if project.Cluster == nil {
		return nil, errors.NewError().WithCode(errors.InconsistentStateError).
			WithMessagef("project %s has no cluster", req.ProjectId)
	}

	// The workload name derives from the id, so the id is allocated here.
	workloadID := uuid.New()
	submission, err := h.managedService.PrepareAIMSubmission(ctx, workloadID, project.Name, req.ImageName, req.ImageTag)
	if err != nil {
		return nil, err
	}
	details, err := submission.Details.Marshal()
	if err != nil {
		return nil, err
	}

	workload, err := h.service.CreateAndSubmit(ctx, workloadsvc.SubmitRequest{
		WorkloadID:  workloadID,
		Project:     project,
		Cluster:     project.Cluster,
		Manifest:    submission.Manifest,
		Type:        model.WorkloadTypeInference,
		Kind:        model.WorkloadKindAIM,
		DisplayName: submission.DisplayName,
		Details:     details,
		Creator:     requestUser(c),
		UserToken:   bearerToken(c),
	})
	if err != nil {
		return nil, err
	}

	c.Status(http.StatusCreated)
	return cvtWorkloadToResponse(workload), nil
}

func (h *Handler) getProjectRunningTimes(c *gin.Context) (interface{}, error) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project_id must be a valid UUID")
	}

	rows, err := h.facade.GetWorkloadTimeSummary().RunningTimesInProject(
		c.Request.Context(), projectID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	response := &WorkloadRunningTimesResponse{Data: make([]WorkloadRunningTimeItem, 0, len(rows))}
	for _, row := range rows {
		response.Data = append(response.Data, WorkloadRunningTimeItem{
			WorkloadId:          row.WorkloadID,
			TotalRunningSeconds: row.TotalRunningSeconds,
		})
	}
	return response, nil
}

func (h *Handler) getProjectAveragePendingTime(c *gin.Context) (interface{}, error) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("project_id must be a valid UUID")
	}

	now := time.Now().UTC()
	startDate, err := parseDateQuery(c, "start_date", now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	endDate, err := parseDateQuery(c, "end_date", now)
	if err != nil {
		return nil, err
	}

	average, err := h.facade.GetWorkloadTimeSummary().AveragePendingTimeInProject(
		c.Request.Context(), projectID, startDate, endDate, now)
	if err != nil {
		return nil, err
	}
	return &AveragePendingTimeResponse{AveragePendingSeconds: average}, nil
}

func parseDateQuery(c *gin.Context, key string, fallback time.Time) (time.Time, error) {
	value := c.Query(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessagef("%s must be an RFC3339 timestamp", key)
	}
	return parsed, nil
}

// requestUser identifies the submitter. Identity federation lives in front
// of the API; here the caller identity arrives as a plain header.
func requestUser(c *gin.Context) string {
	if user := c.GetHeader("X-User-Email"); user != "" {
		return user
	}
	return "system"
}

// bearerToken extracts the opaque user token forwarded to the dispatcher.
func bearerToken(c *gin.Context) string {
	authorization := c.GetHeader("Authorization")
	return strings.TrimPrefix(authorization, "Bearer ")
}
