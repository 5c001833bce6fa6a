// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/amd-enterprise-ai/airm/pkg/config"
	"github.com/amd-enterprise-ai/airm/pkg/dispatcher"
	"github.com/amd-enterprise-ai/airm/pkg/k8sclient"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := log.InitGlobalLogger(&cfg.Log); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	clusterID, err := uuid.Parse(cfg.Cluster.ID)
	if err != nil {
		log.Fatalf("cluster.id must be a valid UUID: %v", err)
	}

	restConfig, err := k8sclient.NewRestConfig(cfg.Cluster.KubeConfigPath)
	if err != nil {
		log.Fatalf("Failed to load Kubernetes config: %v", err)
	}
	dynamicClient, err := k8sclient.NewDynamicClient(restConfig)
	if err != nil {
		log.Fatalf("Failed to create dynamic client: %v", err)
	}
	discoveryClient, err := k8sclient.NewDiscoveryClient(restConfig)
	if err != nil {
		log.Fatalf("Failed to create discovery client: %v", err)
	}

	bus := messaging.NewClient(cfg.Messaging.URL)
	defer bus.Close()
	publisher := messaging.NewFeedbackPublisher(bus)

	if cfg.Cluster.APIBaseURL != "" {
		heartbeater := dispatcher.NewHeartbeater(clusterID, cfg.Cluster.APIBaseURL, cfg.Cluster.GetHeartbeatInterval())
		go heartbeater.Run(ctx)
	} else {
		log.Warn("cluster.apiBaseUrl not set, heartbeats disabled; the API will report this cluster unhealthy")
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.GetHTTPPort()), nil); err != nil {
			log.Errorf("Metrics server exited: %v", err)
		}
	}()

	d := dispatcher.New(clusterID, dynamicClient, discoveryClient, publisher, bus)
	log.Infof("Starting dispatcher for cluster %s", clusterID)
	if err := d.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Dispatcher exited: %v", err)
	}
}
