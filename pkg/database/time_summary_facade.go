// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package database

import (
	"context"
	"time"

	sqrl "github.com/Masterminds/squirrel"
	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
)

// WorkloadRunningTime pairs a workload with its accumulated running seconds,
// including the live tail when the workload is currently RUNNING.
type WorkloadRunningTime struct {
	WorkloadID          uuid.UUID `gorm:"column:workload_id"`
	TotalRunningSeconds float64   `gorm:"column:total_running_seconds"`
}

// WorkloadTimeSummaryFacadeInterface defines the WorkloadTimeSummary facade interface.
type WorkloadTimeSummaryFacadeInterface interface {
	// GetByWorkloadAndStatus gets the summary row for one (workload, status)
	GetByWorkloadAndStatus(ctx context.Context, workloadID uuid.UUID, status messaging.WorkloadStatus) (*model.WorkloadTimeSummary, error)
	// Increment adds elapsed seconds to an existing summary row
	Increment(ctx context.Context, summary *model.WorkloadTimeSummary, seconds int64) error
	// Insert creates the summary row for a (workload, status) pair
	Insert(ctx context.Context, workloadID uuid.UUID, status messaging.WorkloadStatus, seconds int64) (*model.WorkloadTimeSummary, error)
	// RunningTimesInProject reports total running seconds per workload
	RunningTimesInProject(ctx context.Context, projectID uuid.UUID, now time.Time) ([]WorkloadRunningTime, error)
	// AveragePendingTimeInProject reports the mean pending seconds for
	// workloads created inside the date range; nil when there are none
	AveragePendingTimeInProject(ctx context.Context, projectID uuid.UUID, startDate, endDate, now time.Time) (*float64, error)
}

// WorkloadTimeSummaryFacade implements WorkloadTimeSummaryFacadeInterface.
type WorkloadTimeSummaryFacade struct {
	BaseFacade
}

func (f *WorkloadTimeSummaryFacade) GetByWorkloadAndStatus(ctx context.Context, workloadID uuid.UUID, status messaging.WorkloadStatus) (*model.WorkloadTimeSummary, error) {
	summary := &model.WorkloadTimeSummary{}
	err := f.getDB().WithContext(ctx).
		Where("workload_id = ? AND status = ?", workloadID, status).
		Take(summary).Error
	if err != nil {
		return nil, checkErr(err, false)
	}
	return summary, nil
}

func (f *WorkloadTimeSummaryFacade) Increment(ctx context.Context, summary *model.WorkloadTimeSummary, seconds int64) error {
	if seconds < 0 {
		seconds = 0
	}
	summary.TotalElapsedSeconds += seconds
	err := f.getDB().WithContext(ctx).Model(summary).Updates(map[string]interface{}{
		"total_elapsed_seconds": summary.TotalElapsedSeconds,
		"updated_at":            time.Now().UTC(),
		"updated_by":            "system",
	}).Error
	return checkErr(err, false)
}

func (f *WorkloadTimeSummaryFacade) Insert(ctx context.Context, workloadID uuid.UUID, status messaging.WorkloadStatus, seconds int64) (*model.WorkloadTimeSummary, error) {
	if seconds < 0 {
		seconds = 0
	}
	summary := &model.WorkloadTimeSummary{
		WorkloadID:          workloadID,
		Status:              status,
		TotalElapsedSeconds: seconds,
	}
	summary.CreatedBy = "system"
	summary.UpdatedBy = "system"
	if err := f.getDB().WithContext(ctx).Create(summary).Error; err != nil {
		return nil, checkErr(err, false)
	}
	return summary, nil
}

// The analytics queries below build their SQL with squirrel and run it raw:
// the CASE/epoch arithmetic does not map onto the ORM.

func (f *WorkloadTimeSummaryFacade) RunningTimesInProject(ctx context.Context, projectID uuid.UUID, now time.Time) ([]WorkloadRunningTime, error) {
	builder := sqrl.Select(
		"w.id AS workload_id",
		"COALESCE(s.total_elapsed_seconds, 0) + "+
			"CASE WHEN w.status = ? THEN EXTRACT(EPOCH FROM (? - w.last_status_transition_at)) ELSE 0 END"+
			" AS total_running_seconds").
		From(model.TableNameWorkload + " w").
		LeftJoin(model.TableNameWorkloadTimeSummary + " s ON s.workload_id = w.id AND s.status = ?").
		Where(sqrl.Eq{"w.project_id": projectID}).
		PlaceholderFormat(sqrl.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	args = append([]interface{}{
		string(messaging.WorkloadStatusRunning),
		now,
		string(messaging.WorkloadStatusRunning),
	}, args...)

	var rows []WorkloadRunningTime
	if err := f.getDB().WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, checkErr(err, false)
	}
	return rows, nil
}

func (f *WorkloadTimeSummaryFacade) AveragePendingTimeInProject(ctx context.Context, projectID uuid.UUID, startDate, endDate, now time.Time) (*float64, error) {
	builder := sqrl.Select(
		"AVG(CASE WHEN w.status = ? THEN EXTRACT(EPOCH FROM (? - w.last_status_transition_at)) + COALESCE(s.total_elapsed_seconds, 0)" +
			" ELSE s.total_elapsed_seconds END) AS avg_pending_seconds").
		From(model.TableNameWorkload + " w").
		LeftJoin(model.TableNameWorkloadTimeSummary + " s ON s.workload_id = w.id AND s.status = ?").
		Where(sqrl.Eq{"w.project_id": projectID}).
		Where(sqrl.GtOrEq{"w.created_at": startDate}).
		Where(sqrl.LtOrEq{"w.created_at": endDate}).
		PlaceholderFormat(sqrl.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	args = append([]interface{}{
		string(messaging.WorkloadStatusPending),
		now,
		string(messaging.WorkloadStatusPending),
	}, args...)

	var result struct {
		AvgPendingSeconds *float64 `gorm:"column:avg_pending_seconds"`
	}
	if err := f.getDB().WithContext(ctx).Raw(query, args...).Scan(&result).Error; err != nil {
		return nil, checkErr(err, false)
	}
	return result.AvgPendingSeconds, nil
}
