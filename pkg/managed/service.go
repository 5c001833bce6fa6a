// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package managed

import (
	"context"

	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/google/uuid"
	"sigs.k8s.io/yaml"
)

const aimServiceAPIVersion = "aim.silogen.ai/v1alpha1"

// Service assembles the submission inputs for managed AIM workloads: it
// resolves the AIM from the catalog, generates the workload name, and renders
// the AIMService manifest the generic submission path then validates and
// dispatches like any other workload.
type Service struct {
	catalog *AIMCatalogClient
}

func NewService(catalog *AIMCatalogClient) *Service {
	return &Service{catalog: catalog}
}

// AIMSubmission is the resolved input for the generic submission path.
type AIMSubmission struct {
	Details     *WorkloadDetails
	DisplayName string
	Manifest    []byte
}

// PrepareAIMSubmission resolves the AIM and produces details, display name
// and manifest for the workload id allocated by the caller. The project name
// is the namespace the workload will land in.
func (s *Service) PrepareAIMSubmission(ctx context.Context, workloadID uuid.UUID, projectName, imageName, imageTag string) (*AIMSubmission, error) {
	if s.catalog == nil {
		return nil, errors.NewError().WithCode(errors.CodeLackOfConfig).
			WithMessage("AIM catalog is not configured")
	}

	aim, err := s.catalog.Find(ctx, imageName, imageTag)
	if err != nil {
		return nil, err
	}

	aimID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(aim.ImageName+":"+aim.ImageTag))
	details := &WorkloadDetails{
		AIMID:        &aimID,
		AIMImageName: aim.ImageName,
		AIMImageTag:  aim.ImageTag,
	}

	name, err := GenerateWorkloadName(workloadID, details)
	if err != nil {
		return nil, err
	}
	details.Name = name
	details.OutputHosts = map[string]string{
		"internal": WorkloadInternalHost(name, projectName),
	}

	displayName, err := GenerateDisplayName(workloadID, details)
	if err != nil {
		return nil, err
	}

	manifest, err := buildAIMServiceManifest(name, aim)
	if err != nil {
		return nil, err
	}

	return &AIMSubmission{
		Details:     details,
		DisplayName: displayName,
		Manifest:    manifest,
	}, nil
}

// buildAIMServiceManifest renders the single AIMService document deployed
// for an AIM workload. Namespace and labels are injected downstream like for
// any submitted manifest.
func buildAIMServiceManifest(name string, aim *AIM) ([]byte, error) {
	doc := map[string]interface{}{
		"apiVersion": aimServiceAPIVersion,
		"kind":       "AIMService",
		"metadata": map[string]interface{}{
			"name": name,
		},
		"spec": map[string]interface{}{
			"image": aim.ImageName + ":" + aim.ImageTag,
		},
	}
	if aim.ModelID != "" {
		doc["spec"].(map[string]interface{})["model"] = aim.ModelID
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, errors.NewError().WithCode(errors.InternalError).
			WithMessage("failed to render AIMService manifest").WithError(err)
	}
	return out, nil
}
