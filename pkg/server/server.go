// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package server

import (
	"context"
	"fmt"

	"github.com/amd-enterprise-ai/airm/pkg/config"
	"github.com/amd-enterprise-ai/airm/pkg/router"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitServer builds the gin engine with the registered route groups and runs
// it on the configured port. Blocks until the listener fails.
func InitServer(ctx context.Context, cfg *config.Config) error {
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	ginEngine.GET("/health", handleHealth)
	ginEngine.GET("/ready", handleReady)
	ginEngine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := router.InitRouter(ginEngine, cfg); err != nil {
		return err
	}

	return ginEngine.Run(fmt.Sprintf(":%d", cfg.GetHTTPPort()))
}
