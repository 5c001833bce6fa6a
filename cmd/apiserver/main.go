// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/amd-enterprise-ai/airm/pkg/config"
	"github.com/amd-enterprise-ai/airm/pkg/database"
	aimshandler "github.com/amd-enterprise-ai/airm/pkg/handlers/aims"
	clustershandler "github.com/amd-enterprise-ai/airm/pkg/handlers/clusters"
	projectshandler "github.com/amd-enterprise-ai/airm/pkg/handlers/projects"
	workloadshandler "github.com/amd-enterprise-ai/airm/pkg/handlers/workloads"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/amd-enterprise-ai/airm/pkg/managed"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/amd-enterprise-ai/airm/pkg/router"
	"github.com/amd-enterprise-ai/airm/pkg/server"
	"github.com/amd-enterprise-ai/airm/pkg/sql"
	"github.com/amd-enterprise-ai/airm/pkg/workloads"
	"github.com/gin-gonic/gin"
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

	db, err := sql.InitDefault(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}
	facade := database.NewFacade(db)

	bus := messaging.NewClient(cfg.Messaging.URL)
	defer bus.Close()
	sender := messaging.NewSender(bus)

	service := workloads.NewService(facade, sender, cfg.GetHealthWindow())
	consumer := workloads.NewFeedbackConsumer(facade)
	go bus.Consume(ctx, messaging.FeedbackQueueName, consumer.HandleMessage)

	workloadHandler := workloadshandler.NewHandler(facade, service)
	if cfg.AIM != nil {
		catalog := managed.NewAIMCatalogClient(cfg.AIM)
		workloadHandler.WithManagedService(managed.NewService(catalog))
		aimHandler := aimshandler.NewHandler(catalog)
		router.RegisterGroup(func(g *gin.RouterGroup) error { return aimHandler.RegisterRoutes(g) })
	}
	clusterHandler := clustershandler.NewHandler(facade, cfg.GetHealthWindow())
	projectHandler := projectshandler.NewHandler(facade)
	router.RegisterGroup(func(g *gin.RouterGroup) error { return workloadHandler.RegisterRoutes(g) })
	router.RegisterGroup(func(g *gin.RouterGroup) error { return clusterHandler.RegisterRoutes(g) })
	router.RegisterGroup(func(g *gin.RouterGroup) error { return projectHandler.RegisterRoutes(g) })

	log.Infof("Starting AIRM API server on port %d", cfg.GetHTTPPort())
	if err := server.InitServer(ctx, cfg); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}
