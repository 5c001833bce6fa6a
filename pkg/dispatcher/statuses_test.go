// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"testing"

	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

func obj(content map[string]interface{}) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: content}
}

func TestStatusForDeployment(t *testing.T) {
	running := obj(map[string]interface{}{
		"spec":   map[string]interface{}{"replicas": int64(2)},
		"status": map[string]interface{}{"availableReplicas": int64(2)},
	})
	status, _ := statusForDeployment(running)
	assert.Equal(t, messaging.ComponentStatusRunning, status)

	pending := obj(map[string]interface{}{
		"spec":   map[string]interface{}{"replicas": int64(2)},
		"status": map[string]interface{}{"availableReplicas": int64(1)},
	})
	status, _ = statusForDeployment(pending)
	assert.Equal(t, messaging.ComponentStatusPending, status)

	// No replicas field defaults to 1.
	defaulted := obj(map[string]interface{}{
		"status": map[string]interface{}{"availableReplicas": int64(1)},
	})
	status, _ = statusForDeployment(defaulted)
	assert.Equal(t, messaging.ComponentStatusRunning, status)
}

func TestStatusForJob(t *testing.T) {
	tests := []struct {
		name   string
		object map[string]interface{}
		want   messaging.ComponentStatus
	}{
		{
			name: "complete condition",
			object: map[string]interface{}{
				"status": map[string]interface{}{
					"conditions": []interface{}{
						map[string]interface{}{"type": "Complete", "status": "True"},
					},
				},
			},
			want: messaging.ComponentStatusComplete,
		},
		{
			name: "failed condition",
			object: map[string]interface{}{
				"status": map[string]interface{}{
					"conditions": []interface{}{
						map[string]interface{}{"type": "Failed", "status": "True", "message": "backoff limit exceeded"},
					},
				},
			},
			want: messaging.ComponentStatusFailed,
		},
		{
			name: "suspended",
			object: map[string]interface{}{
				"spec": map[string]interface{}{"suspend": true},
			},
			want: messaging.ComponentStatusSuspended,
		},
		{
			name: "active pods",
			object: map[string]interface{}{
				"status": map[string]interface{}{"active": int64(1)},
			},
			want: messaging.ComponentStatusRunning,
		},
		{
			name:   "nothing yet",
			object: map[string]interface{}{},
			want:   messaging.ComponentStatusPending,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusForJob(obj(tt.object))
			assert.Equal(t, tt.want, status)
		})
	}
}

func TestStatusForPod(t *testing.T) {
	phases := map[string]messaging.ComponentStatus{
		"Running":   messaging.ComponentStatusRunning,
		"Succeeded": messaging.ComponentStatusComplete,
		"Failed":    messaging.ComponentStatusFailed,
		"Pending":   messaging.ComponentStatusPending,
	}
	for phase, want := range phases {
		status, _ := statusForPod(obj(map[string]interface{}{
			"status": map[string]interface{}{"phase": phase},
		}))
		assert.Equal(t, want, status, "phase %s", phase)
	}
}

func TestStatusForService(t *testing.T) {
	clusterIP := obj(map[string]interface{}{
		"spec": map[string]interface{}{"type": "ClusterIP"},
	})
	status, _ := statusForService(clusterIP)
	assert.Equal(t, messaging.ComponentStatusReady, status)

	pendingLB := obj(map[string]interface{}{
		"spec": map[string]interface{}{"type": "LoadBalancer"},
	})
	status, _ = statusForService(pendingLB)
	assert.Equal(t, messaging.ComponentStatusPending, status)

	readyLB := obj(map[string]interface{}{
		"spec": map[string]interface{}{"type": "LoadBalancer"},
		"status": map[string]interface{}{
			"loadBalancer": map[string]interface{}{
				"ingress": []interface{}{map[string]interface{}{"ip": "10.0.0.1"}},
			},
		},
	})
	status, _ = statusForService(readyLB)
	assert.Equal(t, messaging.ComponentStatusReady, status)
}

func TestStatusForCronJob(t *testing.T) {
	suspended := obj(map[string]interface{}{
		"spec": map[string]interface{}{"suspend": true},
	})
	status, _ := statusForCronJob(suspended)
	assert.Equal(t, messaging.ComponentStatusSuspended, status)

	active := obj(map[string]interface{}{
		"status": map[string]interface{}{
			"active": []interface{}{map[string]interface{}{"name": "run-1"}},
		},
	})
	status, _ = statusForCronJob(active)
	assert.Equal(t, messaging.ComponentStatusRunning, status)

	idle := obj(map[string]interface{}{})
	status, _ = statusForCronJob(idle)
	assert.Equal(t, messaging.ComponentStatusReady, status)
}

// Kaiwo resources report through status.status and the value passes through
// upper-cased.
func TestStatusForKaiwo(t *testing.T) {
	for _, value := range []string{"RUNNING", "DOWNLOADING", "TERMINATED", "STARTING"} {
		status, _ := statusForKaiwo(obj(map[string]interface{}{
			"kind":   "KaiwoJob",
			"status": map[string]interface{}{"status": value},
		}))
		assert.Equal(t, messaging.ComponentStatus(value), status)
	}

	status, _ := statusForKaiwo(obj(map[string]interface{}{"kind": "KaiwoJob"}))
	assert.Equal(t, messaging.ComponentStatusPending, status)
}

func TestStatusForAIMService(t *testing.T) {
	status, _ := statusForAIMService(obj(map[string]interface{}{
		"status": map[string]interface{}{"status": "Degraded"},
	}))
	assert.Equal(t, messaging.ComponentStatusDegraded, status)
}

func TestStatusForConfigMapLikeKinds(t *testing.T) {
	empty := obj(map[string]interface{}{})
	for name, fn := range map[string]statusFunc{
		"configmap": statusForConfigMap,
		"ingress":   statusForIngress,
		"httproute": statusForHTTPRoute,
	} {
		status, reason := fn(empty)
		assert.Equal(t, messaging.ComponentStatusAdded, status, name)
		assert.Equal(t, "Resource has been added to the cluster.", reason, name)
	}
}
