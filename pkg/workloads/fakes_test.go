// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeFacade is an in-memory FacadeInterface for service and consumer tests.
type fakeFacade struct {
	mu         sync.Mutex
	workloads  map[uuid.UUID]*model.Workload
	components []*model.WorkloadComponent
	summaries  map[string]*model.WorkloadTimeSummary
	clusters   map[uuid.UUID]*model.Cluster
	projects   map[uuid.UUID]*model.Project
}

func newFakeFacade() *fakeFacade {
	return &fakeFacade{
		workloads: map[uuid.UUID]*model.Workload{},
		summaries: map[string]*model.WorkloadTimeSummary{},
		clusters:  map[uuid.UUID]*model.Cluster{},
		projects:  map[uuid.UUID]*model.Project{},
	}
}

func summaryKey(workloadID uuid.UUID, status messaging.WorkloadStatus) string {
	return fmt.Sprintf("%s/%s", workloadID, status)
}

func (f *fakeFacade) GetWorkload() database.WorkloadFacadeInterface { return (*fakeWorkloads)(f) }

func (f *fakeFacade) GetWorkloadComponent() database.WorkloadComponentFacadeInterface {
	return (*fakeComponents)(f)
}

func (f *fakeFacade) GetWorkloadTimeSummary() database.WorkloadTimeSummaryFacadeInterface {
	return (*fakeSummaries)(f)
}

func (f *fakeFacade) GetCluster() database.ClusterFacadeInterface { return (*fakeClusters)(f) }

func (f *fakeFacade) GetProject() database.ProjectFacadeInterface { return (*fakeProjects)(f) }

func (f *fakeFacade) Transaction(ctx context.Context, fn func(tx database.FacadeInterface) error) error {
	return fn(f)
}

type fakeWorkloads fakeFacade

func (f *fakeWorkloads) Create(_ context.Context, workload *model.Workload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if workload.ID == uuid.Nil {
		workload.ID = uuid.New()
	}
	if workload.CreatedAt.IsZero() {
		workload.CreatedAt = time.Now().UTC()
		workload.UpdatedAt = workload.CreatedAt
	}
	f.workloads[workload.ID] = workload
	return nil
}

func (f *fakeWorkloads) GetByID(_ context.Context, id uuid.UUID) (*model.Workload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if workload, ok := f.workloads[id]; ok {
		return workload, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeWorkloads) GetByIDInCluster(ctx context.Context, id, clusterID uuid.UUID) (*model.Workload, error) {
	workload, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if workload.ClusterID != clusterID {
		return nil, gorm.ErrRecordNotFound
	}
	return workload, nil
}

func (f *fakeWorkloads) ListByProject(_ context.Context, projectID uuid.UUID) ([]*model.Workload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Workload
	for _, workload := range f.workloads {
		if workload.ProjectID == projectID {
			result = append(result, workload)
		}
	}
	return result, nil
}

func (f *fakeWorkloads) ListByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*model.Workload, error) {
	var result []*model.Workload
	for _, projectID := range projectIDs {
		workloads, _ := f.ListByProject(ctx, projectID)
		result = append(result, workloads...)
	}
	return result, nil
}

func (f *fakeWorkloads) UpdateStatus(_ context.Context, workload *model.Workload, status messaging.WorkloadStatus, transitionAt time.Time, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	workload.Status = status
	workload.LastStatusTransitionAt = transitionAt
	workload.UpdatedAt = transitionAt
	workload.UpdatedBy = updatedBy
	return nil
}

func (f *fakeWorkloads) countByStatus(filter func(*model.Workload) bool, statuses []messaging.WorkloadStatus) map[messaging.WorkloadStatus]int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[messaging.WorkloadStatus]int64{}
	for _, workload := range f.workloads {
		if !filter(workload) {
			continue
		}
		for _, status := range statuses {
			if workload.Status == status {
				counts[status]++
			}
		}
	}
	return counts
}

func (f *fakeWorkloads) CountByStatusInCluster(_ context.Context, clusterID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error) {
	return f.countByStatus(func(w *model.Workload) bool { return w.ClusterID == clusterID }, statuses), nil
}

func (f *fakeWorkloads) CountByStatusInProject(_ context.Context, projectID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error) {
	return f.countByStatus(func(w *model.Workload) bool { return w.ProjectID == projectID }, statuses), nil
}

func (f *fakeWorkloads) CountByStatusInOrganization(_ context.Context, organizationID uuid.UUID, statuses []messaging.WorkloadStatus) (map[messaging.WorkloadStatus]int64, error) {
	return f.countByStatus(func(w *model.Workload) bool { return true }, statuses), nil
}

type fakeComponents fakeFacade

func (f *fakeComponents) CreateBatch(_ context.Context, components []*model.WorkloadComponent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, component := range components {
		if component.ID == uuid.Nil {
			component.ID = uuid.New()
		}
		if component.CreatedAt.IsZero() {
			component.CreatedAt = time.Now().UTC()
			component.UpdatedAt = component.CreatedAt
		}
		f.components = append(f.components, component)
	}
	return nil
}

func (f *fakeComponents) ListByWorkload(_ context.Context, workloadID uuid.UUID) ([]*model.WorkloadComponent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.WorkloadComponent
	for _, component := range f.components {
		if component.WorkloadID == workloadID {
			result = append(result, component)
		}
	}
	return result, nil
}

func (f *fakeComponents) GetByID(_ context.Context, componentID, workloadID uuid.UUID) (*model.WorkloadComponent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, component := range f.components {
		if component.ID == componentID && component.WorkloadID == workloadID {
			return component, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeComponents) UpdateStatus(_ context.Context, component *model.WorkloadComponent, status messaging.ComponentStatus, statusReason string, updatedAt time.Time, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	component.Status = status
	component.StatusReason = statusReason
	component.UpdatedAt = updatedAt
	component.UpdatedBy = updatedBy
	return nil
}

type fakeSummaries fakeFacade

func (f *fakeSummaries) GetByWorkloadAndStatus(_ context.Context, workloadID uuid.UUID, status messaging.WorkloadStatus) (*model.WorkloadTimeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if summary, ok := f.summaries[summaryKey(workloadID, status)]; ok {
		return summary, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSummaries) Increment(_ context.Context, summary *model.WorkloadTimeSummary, seconds int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seconds < 0 {
		seconds = 0
	}
	summary.TotalElapsedSeconds += seconds
	return nil
}

func (f *fakeSummaries) Insert(_ context.Context, workloadID uuid.UUID, status messaging.WorkloadStatus, seconds int64) (*model.WorkloadTimeSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := summaryKey(workloadID, status)
	if _, ok := f.summaries[key]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	summary := &model.WorkloadTimeSummary{
		WorkloadID:          workloadID,
		Status:              status,
		TotalElapsedSeconds: seconds,
	}
	summary.ID = uuid.New()
	f.summaries[key] = summary
	return summary, nil
}

func (f *fakeSummaries) RunningTimesInProject(context.Context, uuid.UUID, time.Time) ([]database.WorkloadRunningTime, error) {
	return nil, nil
}

func (f *fakeSummaries) AveragePendingTimeInProject(context.Context, uuid.UUID, time.Time, time.Time, time.Time) (*float64, error) {
	return nil, nil
}

type fakeClusters fakeFacade

func (f *fakeClusters) Create(_ context.Context, cluster *model.Cluster) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cluster.ID == uuid.Nil {
		cluster.ID = uuid.New()
	}
	f.clusters[cluster.ID] = cluster
	return nil
}

func (f *fakeClusters) GetByID(_ context.Context, id uuid.UUID) (*model.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cluster, ok := f.clusters[id]; ok {
		return cluster, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeClusters) List(context.Context) ([]*model.Cluster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Cluster
	for _, cluster := range f.clusters {
		result = append(result, cluster)
	}
	return result, nil
}

func (f *fakeClusters) UpdateHeartbeat(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cluster, ok := f.clusters[id]; ok {
		heartbeat := at
		cluster.LastHeartbeatAt = &heartbeat
		return nil
	}
	return gorm.ErrRecordNotFound
}

type fakeProjects fakeFacade

func (f *fakeProjects) Create(_ context.Context, project *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjects) GetByID(_ context.Context, id uuid.UUID) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if project, ok := f.projects[id]; ok {
		return project, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProjects) GetByIDWithCluster(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeProjects) ListByOrganization(_ context.Context, organizationID uuid.UUID) ([]*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*model.Project
	for _, project := range f.projects {
		if project.OrganizationID == organizationID {
			result = append(result, project)
		}
	}
	return result, nil
}

// fakeSender records enqueued messages per cluster.
type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
	fail     bool
}

type sentMessage struct {
	clusterID uuid.UUID
	message   messaging.Message
}

func (s *fakeSender) Enqueue(_ context.Context, clusterID uuid.UUID, msg messaging.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("broker unavailable")
	}
	s.messages = append(s.messages, sentMessage{clusterID: clusterID, message: msg})
	return nil
}
