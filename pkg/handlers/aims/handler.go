// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package aims

import (
	"github.com/amd-enterprise-ai/airm/pkg/handlers/common"
	"github.com/amd-enterprise-ai/airm/pkg/managed"
	"github.com/gin-gonic/gin"
)

// AIMsResponse is the catalog list response.
type AIMsResponse struct {
	Data []managed.AIM `json:"data"`
}

type Handler struct {
	catalog *managed.AIMCatalogClient
}

func NewHandler(catalog *managed.AIMCatalogClient) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) RegisterRoutes(g *gin.RouterGroup) error {
	g.GET("/aims", h.ListAIMs)
	return nil
}

// ListAIMs returns the deployable AIMs known to the catalog.
func (h *Handler) ListAIMs(c *gin.Context) {
	common.Handle(c, h.listAIMs)
}

func (h *Handler) listAIMs(c *gin.Context) (interface{}, error) {
	aims, err := h.catalog.List(c.Request.Context())
	if err != nil {
		return nil, err
	}
	return &AIMsResponse{Data: aims}, nil
}
