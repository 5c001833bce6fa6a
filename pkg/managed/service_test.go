// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package managed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/amd-enterprise-ai/airm/pkg/config"
	airmerrors "github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogServer(t *testing.T, hits *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/aims" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt64(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"image_name":"llama","image_tag":"v1","model_id":"meta/llama"},
			{"image_name":"mistral","image_tag":"v2"}
		]}`))
	}))
}

func catalogClientFor(url string) *AIMCatalogClient {
	return NewAIMCatalogClient(&config.AIMConfig{
		CatalogURL:         url,
		ReadTimeoutSeconds: 5,
		CacheTTLSeconds:    300,
	})
}

func TestAIMCatalogListCaches(t *testing.T) {
	var hits int64
	server := newCatalogServer(t, &hits)
	defer server.Close()

	catalog := catalogClientFor(server.URL)
	ctx := context.Background()

	first, err := catalog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = catalog.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits), "second list must be served from cache")
}

func TestAIMCatalogFindMissing(t *testing.T) {
	var hits int64
	server := newCatalogServer(t, &hits)
	defer server.Close()

	catalog := catalogClientFor(server.URL)
	_, err := catalog.Find(context.Background(), "nonexistent", "v9")
	require.Error(t, err)
	apiErr := err.(*airmerrors.Error)
	assert.Equal(t, airmerrors.RequestDataNotExisted, apiErr.Code)
}

func TestPrepareAIMSubmission(t *testing.T) {
	var hits int64
	server := newCatalogServer(t, &hits)
	defer server.Close()

	service := NewService(catalogClientFor(server.URL))
	workloadID := uuid.New()

	submission, err := service.PrepareAIMSubmission(context.Background(), workloadID, "proj-a", "llama", "v1")
	require.NoError(t, err)

	require.True(t, submission.Details.HasAIM())
	assert.Equal(t, "llama", submission.Details.AIMImageName)
	assert.True(t, strings.HasPrefix(submission.Details.Name, "mw-"))
	assert.True(t, strings.HasPrefix(submission.DisplayName, "llama-v1-"))
	assert.Equal(t,
		WorkloadInternalHost(submission.Details.Name, "proj-a"),
		submission.Details.OutputHosts["internal"])

	manifest := string(submission.Manifest)
	assert.Contains(t, manifest, "kind: AIMService")
	assert.Contains(t, manifest, "image: llama:v1")
	assert.Contains(t, manifest, "name: "+submission.Details.Name)
	assert.Contains(t, manifest, "model: meta/llama")
	assert.NotContains(t, manifest, "namespace:", "namespace is injected at submission")
}

func TestPrepareAIMSubmissionWithoutCatalog(t *testing.T) {
	service := NewService(nil)
	_, err := service.PrepareAIMSubmission(context.Background(), uuid.New(), "proj-a", "llama", "v1")
	require.Error(t, err)
	apiErr := err.(*airmerrors.Error)
	assert.Equal(t, airmerrors.CodeLackOfConfig, apiErr.Code)
}
