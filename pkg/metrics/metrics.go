// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedbackMessagesTotal counts feedback-queue messages by type and result.
	FeedbackMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airm_feedback_messages_total",
			Help: "Total number of feedback queue messages processed",
		},
		[]string{"message_type", "result"},
	)

	// WorkloadStatusTransitionsTotal counts aggregate status transitions.
	WorkloadStatusTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airm_workload_status_transitions_total",
			Help: "Total number of aggregate workload status transitions",
		},
		[]string{"status"},
	)

	// DispatcherAppliesTotal counts manifest documents applied by result.
	DispatcherAppliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airm_dispatcher_applies_total",
			Help: "Total number of manifest documents applied to the cluster",
		},
		[]string{"kind", "result"},
	)

	// DispatcherWatchEventsTotal counts watcher events by kind and type.
	DispatcherWatchEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airm_dispatcher_watch_events_total",
			Help: "Total number of resource watch events observed",
		},
		[]string{"kind", "event_type"},
	)

	// DispatcherWatchRestartsTotal counts watch reconnects per kind.
	DispatcherWatchRestartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "airm_dispatcher_watch_restarts_total",
			Help: "Total number of watch re-establishments",
		},
		[]string{"kind"},
	)
)
