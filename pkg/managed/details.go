// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package managed

import (
	"encoding/json"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/google/uuid"
)

// WorkloadDetails is the kind-specific payload of a managed or AIM workload,
// persisted as the workload's details JSONB column. Generic workloads carry
// no details. References to charts, models and datasets are non-owning.
type WorkloadDetails struct {
	// Name is the generated Kubernetes-facing workload name.
	Name string `json:"name,omitempty"`

	ChartID   *uuid.UUID `json:"chart_id,omitempty"`
	ChartName string     `json:"chart_name,omitempty"`
	ModelID   *uuid.UUID `json:"model_id,omitempty"`
	DatasetID *uuid.UUID `json:"dataset_id,omitempty"`

	AIMID        *uuid.UUID `json:"aim_id,omitempty"`
	AIMImageName string     `json:"aim_image_name,omitempty"`
	AIMImageTag  string     `json:"aim_image_tag,omitempty"`

	UserInputs         map[string]interface{} `json:"user_inputs,omitempty"`
	Manifest           string                 `json:"manifest,omitempty"`
	OutputHosts        map[string]string      `json:"output_hosts,omitempty"`
	ClusterAuthGroupID string                 `json:"cluster_auth_group_id,omitempty"`
}

func (d *WorkloadDetails) HasChart() bool {
	return d.ChartID != nil
}

func (d *WorkloadDetails) HasAIM() bool {
	return d.AIMID != nil
}

// Kind derives the workload discriminator from the referenced resources.
func (d *WorkloadDetails) Kind() model.WorkloadKind {
	if d.HasAIM() {
		return model.WorkloadKindAIM
	}
	return model.WorkloadKindManaged
}

// Marshal renders the details for the workload's JSONB column.
func (d *WorkloadDetails) Marshal() (json.RawMessage, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.NewError().WithCode(errors.InvalidDataError).
			WithMessage("failed to serialize workload details").WithError(err)
	}
	return data, nil
}

// DetailsOf parses the details column of a managed or AIM workload; a
// generic workload yields nil.
func DetailsOf(workload *model.Workload) (*WorkloadDetails, error) {
	if len(workload.Details) == 0 {
		return nil, nil
	}
	details := &WorkloadDetails{}
	if err := json.Unmarshal(workload.Details, details); err != nil {
		return nil, errors.NewError().WithCode(errors.InvalidDataError).
			WithMessagef("failed to parse details of workload %s", workload.ID).WithError(err)
	}
	return details, nil
}
