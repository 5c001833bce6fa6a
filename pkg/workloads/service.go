// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"context"
	"encoding/json"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/database"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
)

// Service implements workload submission and deletion on top of the facades
// and the message bus.
type Service struct {
	facade       database.FacadeInterface
	sender       messaging.Sender
	healthWindow time.Duration
	now          func() time.Time
}

func NewService(facade database.FacadeInterface, sender messaging.Sender, healthWindow time.Duration) *Service {
	return &Service{
		facade:       facade,
		sender:       sender,
		healthWindow: healthWindow,
		now:          workloadNow,
	}
}

// SubmitRequest carries everything needed to create and dispatch a workload.
type SubmitRequest struct {
	// WorkloadID preassigns the id when the caller needed it before
	// submission (managed workload names derive from it); zero means the
	// id is allocated at insert.
	WorkloadID  uuid.UUID
	Project     *model.Project
	Cluster     *model.Cluster
	Manifest    []byte
	Type        model.WorkloadType
	Kind        model.WorkloadKind
	DisplayName string
	Details     json.RawMessage
	Creator     string
	// UserToken is opaque to the control plane; the dispatcher forwards it
	// for impersonation-style propagation.
	UserToken string
}

// CreateAndSubmit validates the manifest, persists the workload with its
// components in one transaction, and enqueues the workload message to the
// owning cluster after the commit. A publish failure leaves the workload in
// PENDING with its components registered; the caller sees the error.
func (s *Service) CreateAndSubmit(ctx context.Context, req SubmitRequest) (*model.Workload, error) {
	if req.Cluster.StatusAt(s.now(), s.healthWindow) != model.ClusterStatusHealthy {
		return nil, errors.NewError().WithCode(errors.ClusterUnhealthy).
			WithMessagef("Cannot submit workload to cluster '%s' - cluster is not healthy", req.Cluster.Name)
	}

	docs, err := ValidateAndParseManifest(req.Manifest)
	if err != nil {
		return nil, err
	}

	kind := req.Kind
	if kind == "" {
		kind = model.WorkloadKindGeneric
	}

	now := s.now()
	workload := &model.Workload{
		DisplayName:            req.DisplayName,
		Base:                   model.Base{ID: req.WorkloadID},
		Type:                   req.Type,
		Kind:                   kind,
		ClusterID:              req.Project.ClusterID,
		ProjectID:              req.Project.ID,
		Status:                 messaging.WorkloadStatusPending,
		LastStatusTransitionAt: now,
		Details:                req.Details,
	}
	workload.CreatedBy = req.Creator
	workload.UpdatedBy = req.Creator

	components := ExtractWorkloadComponents(docs, uuid.Nil)

	err = s.facade.Transaction(ctx, func(tx database.FacadeInterface) error {
		if err := tx.GetWorkload().Create(ctx, workload); err != nil {
			return err
		}
		for _, component := range components {
			component.WorkloadID = workload.ID
			component.CreatedBy = req.Creator
			component.UpdatedBy = req.Creator
		}
		return tx.GetWorkloadComponent().CreateBatch(ctx, components)
	})
	if err != nil {
		return nil, err
	}

	manifest, err := InjectWorkloadMetadata(workload.ID, req.Project, docs, components)
	if err != nil {
		return nil, err
	}

	message := messaging.WorkloadMessage{
		WorkloadID: workload.ID,
		Manifest:   manifest,
		UserToken:  req.UserToken,
	}
	if err := s.sender.Enqueue(ctx, req.Project.ClusterID, message); err != nil {
		log.Errorf("Workload %s committed but enqueue failed: %v", workload.ID, err)
		return nil, errors.NewError().WithCode(errors.MessagingError).
			WithMessage("failed to enqueue workload to cluster").WithError(err)
	}
	return workload, nil
}

// SubmitDelete transitions the workload to DELETING, accounts the time spent
// in the outgoing status, and enqueues the delete sweep. Deleting an already
// deleting or deleted workload is a conflict.
func (s *Service) SubmitDelete(ctx context.Context, workload *model.Workload, user string) error {
	switch workload.Status {
	case messaging.WorkloadStatusDeleting:
		return errors.NewError().WithCode(errors.ConflictError).
			WithMessage("Workload is already marked for deletion")
	case messaging.WorkloadStatusDeleted:
		return errors.NewError().WithCode(errors.ConflictError).
			WithMessage("Workload has already been deleted")
	}

	now := s.now()
	durationInStatus := now.Sub(workload.LastStatusTransitionAt)
	if durationInStatus < 0 {
		durationInStatus = 0
	}

	err := s.facade.Transaction(ctx, func(tx database.FacadeInterface) error {
		if err := incrementTimeSummary(ctx, tx, workload.ID, workload.Status, durationInStatus); err != nil {
			return err
		}
		return tx.GetWorkload().UpdateStatus(ctx, workload, messaging.WorkloadStatusDeleting, now, user)
	})
	if err != nil {
		return err
	}

	message := messaging.DeleteWorkloadMessage{WorkloadID: workload.ID}
	if err := s.sender.Enqueue(ctx, workload.ClusterID, message); err != nil {
		log.Errorf("Workload %s marked DELETING but enqueue failed: %v", workload.ID, err)
		return errors.NewError().WithCode(errors.MessagingError).
			WithMessage("failed to enqueue workload deletion").WithError(err)
	}
	return nil
}

// incrementTimeSummary adds duration to the (workload, status) accumulator,
// creating the row on first use. A concurrent insert loses the race to the
// unique index and retries as an increment.
func incrementTimeSummary(ctx context.Context, tx database.FacadeInterface, workloadID uuid.UUID, status messaging.WorkloadStatus, duration time.Duration) error {
	seconds := int64(duration.Seconds())
	if seconds < 0 {
		seconds = 0
	}

	summary, err := tx.GetWorkloadTimeSummary().GetByWorkloadAndStatus(ctx, workloadID, status)
	if err == nil {
		return tx.GetWorkloadTimeSummary().Increment(ctx, summary, seconds)
	}
	if !database.IsNotFound(err) {
		return err
	}

	if _, err := tx.GetWorkloadTimeSummary().Insert(ctx, workloadID, status, seconds); err != nil {
		if database.IsDuplicateKey(err) {
			summary, getErr := tx.GetWorkloadTimeSummary().GetByWorkloadAndStatus(ctx, workloadID, status)
			if getErr != nil {
				return getErr
			}
			return tx.GetWorkloadTimeSummary().Increment(ctx, summary, seconds)
		}
		return err
	}
	return nil
}
