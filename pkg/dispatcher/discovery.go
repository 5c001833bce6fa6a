// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package dispatcher

import (
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"k8s.io/client-go/discovery"
	"k8s.io/klog/v2"
)

// probeInstalledKinds asks the API server which of the supported resources
// exist in this cluster. Core kinds are assumed present; a CRD-backed kind
// whose group/version is absent simply gets no watcher.
func probeInstalledKinds(disc discovery.DiscoveryInterface) map[messaging.ComponentKind]bool {
	installed := map[messaging.ComponentKind]bool{}
	for _, wk := range watchedKinds {
		if !wk.Optional {
			installed[wk.Kind] = true
			continue
		}
		resources, err := disc.ServerResourcesForGroupVersion(wk.apiVersion())
		if err != nil {
			klog.V(2).Infof("Group version %s not served: %v", wk.apiVersion(), err)
			continue
		}
		for _, resource := range resources.APIResources {
			if resource.Name == wk.GVR.Resource {
				installed[wk.Kind] = true
				break
			}
		}
	}
	return installed
}
