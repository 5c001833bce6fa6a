// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"context"
	"testing"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedbackFixture struct {
	facade   *fakeFacade
	consumer *FeedbackConsumer
	workload *model.Workload
	deploy   *model.WorkloadComponent
	service  *model.WorkloadComponent
	created  time.Time
}

// newFeedbackFixture seeds the happy-path inference workload: one Deployment
// and one Service, both REGISTERED, workload PENDING.
func newFeedbackFixture(t *testing.T) *feedbackFixture {
	t.Helper()
	facade := newFakeFacade()
	created := time.Now().UTC().Add(-10 * time.Minute)

	workload := &model.Workload{
		Status:                 messaging.WorkloadStatusPending,
		ClusterID:              uuid.New(),
		ProjectID:              uuid.New(),
		LastStatusTransitionAt: created,
	}
	workload.ID = uuid.New()
	workload.CreatedAt = created
	workload.UpdatedAt = created
	facade.workloads[workload.ID] = workload

	deploy := &model.WorkloadComponent{
		WorkloadID: workload.ID,
		Name:       "inference",
		Kind:       messaging.ComponentKindDeployment,
		APIVersion: "apps/v1",
		Status:     messaging.ComponentStatusRegistered,
	}
	deploy.ID = uuid.New()
	deploy.UpdatedAt = created
	service := &model.WorkloadComponent{
		WorkloadID: workload.ID,
		Name:       "inference-svc",
		Kind:       messaging.ComponentKindService,
		APIVersion: "v1",
		Status:     messaging.ComponentStatusRegistered,
	}
	service.ID = uuid.New()
	service.UpdatedAt = created
	facade.components = append(facade.components, deploy, service)

	return &feedbackFixture{
		facade:   facade,
		consumer: NewFeedbackConsumer(facade),
		workload: workload,
		deploy:   deploy,
		service:  service,
		created:  created,
	}
}

func componentStatusBody(t *testing.T, f *feedbackFixture, component *model.WorkloadComponent, status messaging.ComponentStatus, at time.Time) []byte {
	t.Helper()
	body, err := messaging.Encode(messaging.WorkloadComponentStatusMessage{
		WorkloadID: f.workload.ID,
		ID:         component.ID,
		Kind:       component.Kind,
		APIVersion: component.APIVersion,
		Name:       component.Name,
		Status:     status,
		UpdatedAt:  at,
	})
	require.NoError(t, err)
	return body
}

// Seed scenario 1: Deployment goes RUNNING first (Service still REGISTERED,
// so rule 8 keeps the workload PENDING), then the Service goes READY and the
// running rule fires. PENDING time accumulates up to the second event.
func TestFeedbackHappyPathInference(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	t1 := f.created.Add(2 * time.Minute)
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.deploy, messaging.ComponentStatusRunning, t1)))
	assert.Equal(t, messaging.WorkloadStatusPending, f.workload.Status)
	assert.Equal(t, messaging.ComponentStatusRunning, f.deploy.Status)

	t2 := f.created.Add(3 * time.Minute)
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.service, messaging.ComponentStatusReady, t2)))
	assert.Equal(t, messaging.WorkloadStatusRunning, f.workload.Status)
	assert.Equal(t, t2, f.workload.LastStatusTransitionAt)

	summary, err := f.facade.GetWorkloadTimeSummary().GetByWorkloadAndStatus(
		ctx, f.workload.ID, messaging.WorkloadStatusPending)
	require.NoError(t, err)
	assert.Equal(t, int64((3 * time.Minute).Seconds()), summary.TotalElapsedSeconds)
}

// Seed scenario 4: out-of-order feedback. The newer event lands first; the
// older one must be dropped without touching the row.
func TestFeedbackOutOfOrderEventDropped(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	newer := f.created.Add(12 * time.Second)
	older := f.created.Add(10 * time.Second)

	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.deploy, messaging.ComponentStatusRunning, newer)))
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.deploy, messaging.ComponentStatusPending, older)))

	assert.Equal(t, messaging.ComponentStatusRunning, f.deploy.Status)
	assert.Equal(t, newer, f.deploy.UpdatedAt)
}

// An event with updated_at equal to the component's updated_at is stale.
func TestFeedbackEqualTimestampDropped(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	at := f.created.Add(time.Minute)
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.deploy, messaging.ComponentStatusRunning, at)))
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.deploy, messaging.ComponentStatusFailed, at)))

	assert.Equal(t, messaging.ComponentStatusRunning, f.deploy.Status)
}

// Applying the same message twice leaves the DB exactly as after the first
// apply, including time summaries.
func TestFeedbackIdempotentReplay(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	// Single-component workload so one event drives a transition.
	f.facade.components = f.facade.components[:1]

	at := f.created.Add(time.Minute)
	body := componentStatusBody(t, f, f.deploy, messaging.ComponentStatusRunning, at)

	require.NoError(t, f.consumer.HandleMessage(ctx, body))
	statusAfterFirst := f.workload.Status
	transitionAfterFirst := f.workload.LastStatusTransitionAt
	summaryAfterFirst, err := f.facade.GetWorkloadTimeSummary().GetByWorkloadAndStatus(
		ctx, f.workload.ID, messaging.WorkloadStatusPending)
	require.NoError(t, err)
	elapsedAfterFirst := summaryAfterFirst.TotalElapsedSeconds

	require.NoError(t, f.consumer.HandleMessage(ctx, body))
	assert.Equal(t, statusAfterFirst, f.workload.Status)
	assert.Equal(t, transitionAfterFirst, f.workload.LastStatusTransitionAt)
	summaryAfterSecond, err := f.facade.GetWorkloadTimeSummary().GetByWorkloadAndStatus(
		ctx, f.workload.ID, messaging.WorkloadStatusPending)
	require.NoError(t, err)
	assert.Equal(t, elapsedAfterFirst, summaryAfterSecond.TotalElapsedSeconds)
}

// A message whose (id, kind, api_version) tuple does not match any stored
// component is a controller-created child and must be ignored.
func TestFeedbackTupleMismatchIgnored(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	body, err := messaging.Encode(messaging.WorkloadComponentStatusMessage{
		WorkloadID: f.workload.ID,
		ID:         f.deploy.ID,
		Kind:       messaging.ComponentKindJob, // kind mismatch
		APIVersion: "batch/v1",
		Name:       "child",
		Status:     messaging.ComponentStatusRunning,
		UpdatedAt:  f.created.Add(time.Minute),
	})
	require.NoError(t, err)

	require.NoError(t, f.consumer.HandleMessage(ctx, body))
	assert.Equal(t, messaging.ComponentStatusRegistered, f.deploy.Status)
	assert.Equal(t, messaging.WorkloadStatusPending, f.workload.Status)
}

func TestFeedbackUnknownWorkloadIgnored(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	body, err := messaging.Encode(messaging.WorkloadComponentStatusMessage{
		WorkloadID: uuid.New(),
		ID:         uuid.New(),
		Kind:       messaging.ComponentKindPod,
		APIVersion: "v1",
		Name:       "stray",
		Status:     messaging.ComponentStatusRunning,
		UpdatedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, f.consumer.HandleMessage(ctx, body))
}

// Seed scenario 3: delete race. DELETING is sticky until every component
// reports DELETED, then rule 1 flips the workload to DELETED.
func TestFeedbackDeleteRace(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	f.workload.Status = messaging.WorkloadStatusDeleting

	t1 := f.created.Add(time.Minute)
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.deploy, messaging.ComponentStatusDeleted, t1)))
	assert.Equal(t, messaging.WorkloadStatusDeleting, f.workload.Status)

	t2 := f.created.Add(2 * time.Minute)
	require.NoError(t, f.consumer.HandleMessage(ctx,
		componentStatusBody(t, f, f.service, messaging.ComponentStatusDeleted, t2)))
	assert.Equal(t, messaging.WorkloadStatusDeleted, f.workload.Status)
}

// Workload-level DELETED from an empty delete sweep.
func TestFeedbackWorkloadStatusMessage(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	at := f.created.Add(time.Minute)
	body, err := messaging.Encode(messaging.WorkloadStatusMessage{
		WorkloadID: f.workload.ID,
		Status:     messaging.WorkloadStatusDeleted,
		Reason:     "no resources found",
		UpdatedAt:  at,
	})
	require.NoError(t, err)

	require.NoError(t, f.consumer.HandleMessage(ctx, body))
	assert.Equal(t, messaging.WorkloadStatusDeleted, f.workload.Status)
	assert.Equal(t, at, f.workload.LastStatusTransitionAt)

	// Replay is stale against the workload's own updated_at.
	require.NoError(t, f.consumer.HandleMessage(ctx, body))
	assert.Equal(t, messaging.WorkloadStatusDeleted, f.workload.Status)
}

// Seed scenario 5: auto-discovery creates the component row (and the
// workload when missing) before the child's first status update lands.
func TestFeedbackAutoDiscovery(t *testing.T) {
	f := newFeedbackFixture(t)
	ctx := context.Background()

	project := &model.Project{Name: "proj-a", ClusterID: f.workload.ClusterID}
	project.ID = f.workload.ProjectID
	f.facade.projects[project.ID] = project

	childID := uuid.New()
	discovery, err := messaging.Encode(messaging.AutoDiscoveredWorkloadComponentMessage{
		WorkloadID:  f.workload.ID,
		ComponentID: childID,
		ProjectID:   project.ID,
		Kind:        messaging.ComponentKindJob,
		APIVersion:  "batch/v1",
		Name:        "training-child",
		Submitter:   "kaiwo-controller",
	})
	require.NoError(t, err)
	require.NoError(t, f.consumer.HandleMessage(ctx, discovery))

	child, err := f.facade.GetWorkloadComponent().GetByID(ctx, childID, f.workload.ID)
	require.NoError(t, err)
	assert.Equal(t, messaging.ComponentStatusRegistered, child.Status)
	assert.Equal(t, messaging.ComponentKindJob, child.Kind)
	assert.Equal(t, "kaiwo-controller", child.CreatedBy)

	// Re-delivery must not create a duplicate.
	require.NoError(t, f.consumer.HandleMessage(ctx, discovery))
	components, err := f.facade.GetWorkloadComponent().ListByWorkload(ctx, f.workload.ID)
	require.NoError(t, err)
	assert.Len(t, components, 3)

	// The subsequent status update now applies to the new row.
	status := componentStatusBody(t, f, child, messaging.ComponentStatusRunning, f.created.Add(time.Minute))
	require.NoError(t, f.consumer.HandleMessage(ctx, status))
	assert.Equal(t, messaging.ComponentStatusRunning, child.Status)
}

func TestFeedbackAutoDiscoveryCreatesWorkload(t *testing.T) {
	facade := newFakeFacade()
	consumer := NewFeedbackConsumer(facade)
	ctx := context.Background()

	project := &model.Project{Name: "proj-b", ClusterID: uuid.New()}
	project.ID = uuid.New()
	facade.projects[project.ID] = project

	workloadID := uuid.New()
	componentID := uuid.New()
	body, err := messaging.Encode(messaging.AutoDiscoveredWorkloadComponentMessage{
		WorkloadID:  workloadID,
		ComponentID: componentID,
		ProjectID:   project.ID,
		Kind:        messaging.ComponentKindKaiwoJob,
		APIVersion:  "kaiwo.silogen.ai/v1alpha1",
		Name:        "discovered",
	})
	require.NoError(t, err)
	require.NoError(t, consumer.HandleMessage(ctx, body))

	workload, err := facade.GetWorkload().GetByID(ctx, workloadID)
	require.NoError(t, err)
	assert.Equal(t, messaging.WorkloadStatusPending, workload.Status)
	assert.Equal(t, model.WorkloadTypeCustom, workload.Type)
	assert.Equal(t, project.ClusterID, workload.ClusterID)
	assert.Equal(t, "system", workload.CreatedBy)
}

func TestFeedbackRejectsUnknownMessageType(t *testing.T) {
	f := newFeedbackFixture(t)
	err := f.consumer.HandleMessage(context.Background(), []byte(`{"message_type":"mystery"}`))
	require.Error(t, err)
}
