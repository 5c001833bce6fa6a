// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package managed

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/google/uuid"
)

const maxChartWorkloadNameLength = 53

// GenerateWorkloadName produces the Kubernetes-facing name of a managed
// workload.
//
// AIM workloads: 8-character hash (to fit within DNS constraints with long
// namespace names). Chart workloads: mw-{chart_name}-{timestamp}-{uuid_prefix}
// capped at 53 characters. A workload with neither reference cannot be named;
// that is an engineering bug, not a user error.
func GenerateWorkloadName(workloadID uuid.UUID, details *WorkloadDetails) (string, error) {
	if details == nil {
		return "", errors.NewError().WithCode(errors.InconsistentStateError).
			WithMessagef("Cannot generate workload name for workload %s: workload has no details", workloadID)
	}

	switch {
	case details.HasAIM():
		// "mw-" prefix ensures the name starts with a letter (KServe
		// requirement); the 8-char hash leaves room for long namespaces
		// plus the "-predictor" suffix within the 63-char DNS limit.
		digest := sha256.Sum256([]byte(workloadID.String()))
		return fmt.Sprintf("mw-%x", digest[:4]), nil
	case details.HasChart():
		prefix := strings.NewReplacer(" ", "-", "_", "-").Replace(details.ChartName)
		if len(prefix) > 33 {
			prefix = prefix[:33]
		}
		timestamp := strconv.FormatInt(time.Now().Unix(), 10)
		name := fmt.Sprintf("mw-%s-%s-%s", prefix, timestamp, workloadID.String()[:4])
		if len(name) > maxChartWorkloadNameLength {
			name = name[:maxChartWorkloadNameLength]
		}
		return name, nil
	default:
		return "", errors.NewError().WithCode(errors.InconsistentStateError).
			WithMessagef("Cannot generate workload name for workload %s: workload must have either a chart or AIM reference", workloadID)
	}
}

// GenerateDisplayName produces the human-facing default display name.
func GenerateDisplayName(workloadID uuid.UUID, details *WorkloadDetails) (string, error) {
	uuidPrefix := workloadID.String()[:8]

	switch {
	case details != nil && details.HasAIM():
		return fmt.Sprintf("%s-%s-%s", details.AIMImageName, details.AIMImageTag, uuidPrefix), nil
	case details != nil && details.HasChart():
		return fmt.Sprintf("%s-%s", details.ChartName, uuidPrefix), nil
	default:
		return "", errors.NewError().WithCode(errors.InconsistentStateError).
			WithMessagef("Cannot generate display name for workload %s: workload must have either a chart or AIM reference", workloadID)
	}
}

// WorkloadInternalHost is the in-cluster service host of a managed workload.
func WorkloadInternalHost(workloadName, namespace string) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local", workloadName, namespace)
}
