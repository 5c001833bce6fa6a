// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package managed

import (
	"context"
	"fmt"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/config"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/log"
	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
)

const aimCatalogCacheKey = "aim-catalog"

// AIM describes one deployable AI model container from the catalog.
type AIM struct {
	ImageName    string   `json:"image_name"`
	ImageTag     string   `json:"image_tag"`
	ModelID      string   `json:"model_id,omitempty"`
	DisplayName  string   `json:"display_name,omitempty"`
	Description  string   `json:"description,omitempty"`
	GPUModels    []string `json:"gpu_models,omitempty"`
	MinGPUCount  int      `json:"min_gpu_count,omitempty"`
	Capabilities []string `json:"capabilities,omitempty"`
}

// AIMCatalog is the catalog endpoint's response shape.
type AIMCatalog struct {
	Data []AIM `json:"data"`
}

// AIMCatalogClient fetches the list of deployable AIMs from the catalog
// service. The catalog sits behind a model-serving stack that can take a
// long time to answer, hence the extended read timeout; responses are cached
// to keep the submission path fast.
type AIMCatalogClient struct {
	client *resty.Client
	cache  *gocache.Cache
	ttl    time.Duration
}

func NewAIMCatalogClient(cfg *config.AIMConfig) *AIMCatalogClient {
	client := resty.New().
		SetBaseURL(cfg.CatalogURL).
		SetTimeout(cfg.GetReadTimeout()).
		SetRetryCount(2)
	return &AIMCatalogClient{
		client: client,
		cache:  gocache.New(cfg.GetCacheTTL(), time.Minute),
		ttl:    cfg.GetCacheTTL(),
	}
}

// List returns the catalog, served from cache within the TTL.
func (c *AIMCatalogClient) List(ctx context.Context) ([]AIM, error) {
	if cached, ok := c.cache.Get(aimCatalogCacheKey); ok {
		return cached.([]AIM), nil
	}

	catalog := &AIMCatalog{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(catalog).
		Get("/aims")
	if err != nil {
		return nil, errors.NewError().WithCode(errors.CodeRemoteServiceError).
			WithMessage("failed to fetch AIM catalog").WithError(err)
	}
	if resp.IsError() {
		return nil, errors.NewError().WithCode(errors.CodeRemoteServiceError).
			WithMessagef("AIM catalog returned %s", resp.Status())
	}

	log.Infof("Fetched %d AIMs from catalog", len(catalog.Data))
	c.cache.SetDefault(aimCatalogCacheKey, catalog.Data)
	return catalog.Data, nil
}

// Find returns the catalog entry matching image name and tag.
func (c *AIMCatalogClient) Find(ctx context.Context, imageName, imageTag string) (*AIM, error) {
	aims, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range aims {
		if aims[i].ImageName == imageName && aims[i].ImageTag == imageTag {
			return &aims[i], nil
		}
	}
	return nil, errors.NewError().WithCode(errors.RequestDataNotExisted).
		WithMessage(fmt.Sprintf("AIM %s:%s not found in catalog", imageName, imageTag))
}
