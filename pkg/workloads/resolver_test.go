// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"testing"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/stretchr/testify/assert"
)

func comp(kind messaging.ComponentKind, status messaging.ComponentStatus) *model.WorkloadComponent {
	return &model.WorkloadComponent{Kind: kind, Status: status}
}

func TestResolveWorkloadStatus(t *testing.T) {
	tests := []struct {
		name          string
		currentStatus messaging.WorkloadStatus
		components    []*model.WorkloadComponent
		want          messaging.WorkloadStatus
	}{
		{
			name:          "no components",
			currentStatus: messaging.WorkloadStatusPending,
			components:    nil,
			want:          messaging.WorkloadStatusUnknown,
		},
		{
			name:          "all deleted",
			currentStatus: messaging.WorkloadStatusDeleting,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusDeleted),
				comp(messaging.ComponentKindService, messaging.ComponentStatusDeleted),
			},
			want: messaging.WorkloadStatusDeleted,
		},
		{
			name:          "any delete failed wins over deleting",
			currentStatus: messaging.WorkloadStatusDeleting,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusDeleted),
				comp(messaging.ComponentKindService, messaging.ComponentStatusDeleteFailed),
			},
			want: messaging.WorkloadStatusDeleteFailed,
		},
		{
			name:          "deleting is sticky",
			currentStatus: messaging.WorkloadStatusDeleting,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRunning),
				comp(messaging.ComponentKindService, messaging.ComponentStatusDeleted),
			},
			want: messaging.WorkloadStatusDeleting,
		},
		{
			name:          "all completed",
			currentStatus: messaging.WorkloadStatusRunning,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindJob, messaging.ComponentStatusComplete),
				comp(messaging.ComponentKindService, messaging.ComponentStatusReady),
				comp(messaging.ComponentKindConfigMap, messaging.ComponentStatusAdded),
			},
			want: messaging.WorkloadStatusComplete,
		},
		{
			name:          "downloading wins over pending and running",
			currentStatus: messaging.WorkloadStatusPending,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindKaiwoJob, messaging.ComponentStatusDownloading),
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRunning),
				comp(messaging.ComponentKindService, messaging.ComponentStatusPending),
			},
			want: messaging.WorkloadStatusDownloading,
		},
		{
			name:          "completed plus terminated is terminated",
			currentStatus: messaging.WorkloadStatusRunning,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindKaiwoJob, messaging.ComponentStatusTerminated),
				comp(messaging.ComponentKindService, messaging.ComponentStatusReady),
				comp(messaging.ComponentKindConfigMap, messaging.ComponentStatusDeleted),
			},
			want: messaging.WorkloadStatusTerminated,
		},
		{
			name:          "job complete with failed sidecar pod is failed",
			currentStatus: messaging.WorkloadStatusRunning,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindJob, messaging.ComponentStatusComplete),
				comp(messaging.ComponentKindPod, messaging.ComponentStatusFailed),
			},
			want: messaging.WorkloadStatusFailed,
		},
		{
			name:          "create failed is failed for every kind",
			currentStatus: messaging.WorkloadStatusPending,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindConfigMap, messaging.ComponentStatusCreateFailed),
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRunning),
			},
			want: messaging.WorkloadStatusFailed,
		},
		{
			name:          "registered components keep the workload pending",
			currentStatus: messaging.WorkloadStatusPending,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRegistered),
				comp(messaging.ComponentKindService, messaging.ComponentStatusRegistered),
			},
			want: messaging.WorkloadStatusPending,
		},
		{
			name:          "pending service wins over running deployment",
			currentStatus: messaging.WorkloadStatusPending,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRunning),
				comp(messaging.ComponentKindService, messaging.ComponentStatusPending),
			},
			want: messaging.WorkloadStatusPending,
		},
		{
			name:          "running deployment with ready service is running",
			currentStatus: messaging.WorkloadStatusPending,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRunning),
				comp(messaging.ComponentKindService, messaging.ComponentStatusReady),
			},
			want: messaging.WorkloadStatusRunning,
		},
		{
			name:          "kaiwo error counts as pending",
			currentStatus: messaging.WorkloadStatusRunning,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindKaiwoJob, messaging.ComponentStatusError),
			},
			want: messaging.WorkloadStatusPending,
		},
		{
			name:          "aim service degraded counts as pending",
			currentStatus: messaging.WorkloadStatusRunning,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindAIMService, messaging.ComponentStatusDegraded),
			},
			want: messaging.WorkloadStatusPending,
		},
		{
			name:          "unmatched statuses are unknown",
			currentStatus: messaging.WorkloadStatusRunning,
			components: []*model.WorkloadComponent{
				comp(messaging.ComponentKindIngress, messaging.ComponentStatusPending),
			},
			want: messaging.WorkloadStatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveWorkloadStatus(tt.currentStatus, tt.components)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The resolver output only depends on the current status and the component
// multiset; the order components arrive in must not matter.
func TestResolveWorkloadStatusOrderIndependent(t *testing.T) {
	a := []*model.WorkloadComponent{
		comp(messaging.ComponentKindDeployment, messaging.ComponentStatusRunning),
		comp(messaging.ComponentKindService, messaging.ComponentStatusPending),
		comp(messaging.ComponentKindConfigMap, messaging.ComponentStatusAdded),
	}
	b := []*model.WorkloadComponent{a[2], a[0], a[1]}

	assert.Equal(t,
		ResolveWorkloadStatus(messaging.WorkloadStatusPending, a),
		ResolveWorkloadStatus(messaging.WorkloadStatusPending, b),
	)
}
