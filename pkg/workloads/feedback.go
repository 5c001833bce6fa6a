// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"context"
	"fmt"

	"github.com/amd-enterprise-ai/airm/pkg/database"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/amd-enterprise-ai/airm/pkg/metrics"
)

// FeedbackConsumer applies dispatcher observations from the common feedback
// queue to the database. Every message is handled inside one transaction and
// the broker ack happens only after the commit, so processing must be
// idempotent: stale updates are dropped, recomputing the aggregate is a
// no-op when nothing changed, and time accounting follows the monotonic
// updated_at stamps.
type FeedbackConsumer struct {
	facade database.FacadeInterface
}

func NewFeedbackConsumer(facade database.FacadeInterface) *FeedbackConsumer {
	return &FeedbackConsumer{facade: facade}
}

// HandleMessage decodes and applies one feedback message. A returned error
// shunts the message off the queue; the queue is never blocked on a poison
// message.
func (c *FeedbackConsumer) HandleMessage(ctx context.Context, body []byte) error {
	msg, err := messaging.Decode(body)
	if err != nil {
		metrics.FeedbackMessagesTotal.WithLabelValues("unknown", "error").Inc()
		return err
	}

	switch m := msg.(type) {
	case messaging.WorkloadStatusMessage:
		err = c.applyWorkloadStatus(ctx, m)
	case messaging.WorkloadComponentStatusMessage:
		err = c.applyComponentStatus(ctx, m)
	case messaging.AutoDiscoveredWorkloadComponentMessage:
		err = c.registerAutoDiscovered(ctx, m)
	default:
		err = fmt.Errorf("unexpected message type %q on feedback queue", msg.Type())
	}

	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.FeedbackMessagesTotal.WithLabelValues(msg.Type(), result).Inc()
	return err
}

func (c *FeedbackConsumer) applyWorkloadStatus(ctx context.Context, msg messaging.WorkloadStatusMessage) error {
	return c.facade.Transaction(ctx, func(tx database.FacadeInterface) error {
		workload, err := tx.GetWorkload().GetByID(ctx, msg.WorkloadID)
		if err != nil {
			if database.IsNotFound(err) {
				log.Warnf("Workload %s not found, dropping workload status %s", msg.WorkloadID, msg.Status)
				return nil
			}
			return err
		}

		if !workload.UpdatedAt.Before(msg.UpdatedAt) {
			log.Debugf("Received outdated status for workload %s, ignoring", workload.ID)
			return nil
		}

		duration := msg.UpdatedAt.Sub(workload.LastStatusTransitionAt)
		if err := incrementTimeSummary(ctx, tx, workload.ID, workload.Status, duration); err != nil {
			return err
		}
		metrics.WorkloadStatusTransitionsTotal.WithLabelValues(string(msg.Status)).Inc()
		return tx.GetWorkload().UpdateStatus(ctx, workload, msg.Status, msg.UpdatedAt, "system")
	})
}

func (c *FeedbackConsumer) applyComponentStatus(ctx context.Context, msg messaging.WorkloadComponentStatusMessage) error {
	return c.facade.Transaction(ctx, func(tx database.FacadeInterface) error {
		workload, err := tx.GetWorkload().GetByID(ctx, msg.WorkloadID)
		if err != nil {
			if database.IsNotFound(err) {
				log.Warnf("Workload %s not found for component status update", msg.WorkloadID)
				return nil
			}
			return err
		}

		components, err := tx.GetWorkloadComponent().ListByWorkload(ctx, workload.ID)
		if err != nil {
			return err
		}
		if len(components) == 0 {
			log.Warnf("No components found for workload %s", workload.ID)
			return nil
		}

		component := matchComponent(components, msg)
		if component == nil {
			log.Warnf("Workload component %s not found in workload %s. Maybe a child created from a component.",
				msg.ID, workload.ID)
			return nil
		}

		if !component.UpdatedAt.Before(msg.UpdatedAt) {
			log.Debugf("Received outdated status for workload component %s, ignoring", msg.ID)
			return nil
		}

		if err := tx.GetWorkloadComponent().UpdateStatus(ctx, component, msg.Status, msg.StatusReason, msg.UpdatedAt, "system"); err != nil {
			return err
		}

		newStatus := ResolveWorkloadStatus(workload.Status, components)
		if workload.Status == newStatus {
			return nil
		}

		duration := msg.UpdatedAt.Sub(workload.LastStatusTransitionAt)
		if err := incrementTimeSummary(ctx, tx, workload.ID, workload.Status, duration); err != nil {
			return err
		}
		metrics.WorkloadStatusTransitionsTotal.WithLabelValues(string(newStatus)).Inc()
		return tx.GetWorkload().UpdateStatus(ctx, workload, newStatus, msg.UpdatedAt, "system")
	})
}

func (c *FeedbackConsumer) registerAutoDiscovered(ctx context.Context, msg messaging.AutoDiscoveredWorkloadComponentMessage) error {
	return c.facade.Transaction(ctx, func(tx database.FacadeInterface) error {
		submitter := msg.Submitter
		if submitter == "" {
			submitter = "system"
		}

		workload, err := tx.GetWorkload().GetByID(ctx, msg.WorkloadID)
		if err != nil {
			if !database.IsNotFound(err) {
				return err
			}
			project, projErr := tx.GetProject().GetByID(ctx, msg.ProjectID)
			if projErr != nil {
				if database.IsNotFound(projErr) {
					log.Warnf("Project %s not found for auto discovered workload %s, dropping", msg.ProjectID, msg.WorkloadID)
					return nil
				}
				return projErr
			}

			log.Infof("Workload has been auto discovered, creating entry in database")
			workload = &model.Workload{
				DisplayName:            msg.Name,
				Type:                   model.WorkloadTypeCustom,
				Kind:                   model.WorkloadKindGeneric,
				ClusterID:              project.ClusterID,
				ProjectID:              project.ID,
				Status:                 messaging.WorkloadStatusPending,
				LastStatusTransitionAt: workloadNow(),
			}
			workload.ID = msg.WorkloadID
			workload.CreatedBy = submitter
			workload.UpdatedBy = submitter
			if err := tx.GetWorkload().Create(ctx, workload); err != nil {
				return err
			}
		}

		_, err = tx.GetWorkloadComponent().GetByID(ctx, msg.ComponentID, workload.ID)
		if err == nil {
			return nil
		}
		if !database.IsNotFound(err) {
			return err
		}

		log.Infof("Workload component has been auto discovered, creating entry in database")
		component := &model.WorkloadComponent{
			WorkloadID: workload.ID,
			Name:       msg.Name,
			Kind:       msg.Kind,
			APIVersion: msg.APIVersion,
			Status:     messaging.ComponentStatusRegistered,
		}
		component.ID = msg.ComponentID
		component.CreatedBy = submitter
		component.UpdatedBy = submitter
		return tx.GetWorkloadComponent().CreateBatch(ctx, []*model.WorkloadComponent{component})
	})
}

// matchComponent requires the (id, kind, api_version) tuple to match exactly;
// a mismatch is most likely a controller-created child resource that
// inherited the labels of its parent.
func matchComponent(components []*model.WorkloadComponent, msg messaging.WorkloadComponentStatusMessage) *model.WorkloadComponent {
	for _, component := range components {
		if component.ID == msg.ID && component.Kind == msg.Kind && component.APIVersion == msg.APIVersion {
			return component
		}
	}
	return nil
}
