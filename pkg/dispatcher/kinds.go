// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// statusFunc maps a resource's status sub-object to the normalized component
// status plus a human-readable reason. Pure over the object.
type statusFunc func(obj *unstructured.Unstructured) (messaging.ComponentStatus, string)

// watchedKind describes one resource kind the dispatcher tracks. Optional
// kinds are CRD-backed; their watchers start only when the API reports the
// resource installed.
type watchedKind struct {
	Kind     messaging.ComponentKind
	GVR      schema.GroupVersionResource
	Optional bool
	Status   statusFunc
}

func (w watchedKind) apiVersion() string {
	if w.GVR.Group == "" {
		return w.GVR.Version
	}
	return w.GVR.Group + "/" + w.GVR.Version
}

var watchedKinds = []watchedKind{
	{
		Kind:   messaging.ComponentKindDeployment,
		GVR:    schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "deployments"},
		Status: statusForDeployment,
	},
	{
		Kind:   messaging.ComponentKindStatefulSet,
		GVR:    schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "statefulsets"},
		Status: statusForStatefulSet,
	},
	{
		Kind:   messaging.ComponentKindDaemonSet,
		GVR:    schema.GroupVersionResource{Group: "apps", Version: "v1", Resource: "daemonsets"},
		Status: statusForDaemonSet,
	},
	{
		Kind:   messaging.ComponentKindCronJob,
		GVR:    schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "cronjobs"},
		Status: statusForCronJob,
	},
	{
		Kind:   messaging.ComponentKindJob,
		GVR:    schema.GroupVersionResource{Group: "batch", Version: "v1", Resource: "jobs"},
		Status: statusForJob,
	},
	{
		Kind:   messaging.ComponentKindPod,
		GVR:    schema.GroupVersionResource{Version: "v1", Resource: "pods"},
		Status: statusForPod,
	},
	{
		Kind:   messaging.ComponentKindService,
		GVR:    schema.GroupVersionResource{Version: "v1", Resource: "services"},
		Status: statusForService,
	},
	{
		Kind:   messaging.ComponentKindConfigMap,
		GVR:    schema.GroupVersionResource{Version: "v1", Resource: "configmaps"},
		Status: statusForConfigMap,
	},
	{
		Kind:     messaging.ComponentKindIngress,
		GVR:      schema.GroupVersionResource{Group: "networking.k8s.io", Version: "v1", Resource: "ingresses"},
		Optional: true,
		Status:   statusForIngress,
	},
	{
		Kind:     messaging.ComponentKindHTTPRoute,
		GVR:      schema.GroupVersionResource{Group: "gateway.networking.k8s.io", Version: "v1", Resource: "httproutes"},
		Optional: true,
		Status:   statusForHTTPRoute,
	},
	{
		Kind:     messaging.ComponentKindKaiwoJob,
		GVR:      schema.GroupVersionResource{Group: "kaiwo.silogen.ai", Version: "v1alpha1", Resource: "kaiwojobs"},
		Optional: true,
		Status:   statusForKaiwo,
	},
	{
		Kind:     messaging.ComponentKindKaiwoService,
		GVR:      schema.GroupVersionResource{Group: "kaiwo.silogen.ai", Version: "v1alpha1", Resource: "kaiwoservices"},
		Optional: true,
		Status:   statusForKaiwo,
	},
	{
		Kind:     messaging.ComponentKindAIMService,
		GVR:      schema.GroupVersionResource{Group: "aim.silogen.ai", Version: "v1alpha1", Resource: "aimservices"},
		Optional: true,
		Status:   statusForAIMService,
	},
	{
		Kind:     messaging.ComponentKindExternalSecret,
		GVR:      schema.GroupVersionResource{Group: "external-secrets.io", Version: "v1beta1", Resource: "externalsecrets"},
		Optional: true,
		Status:   statusForExternalSecret,
	},
}
