// Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
// See LICENSE for license information.

package workloads

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/amd-enterprise-ai/airm/pkg/database/model"
	"github.com/amd-enterprise-ai/airm/pkg/errors"
	"github.com/amd-enterprise-ai/airm/pkg/messaging"
	"github.com/google/uuid"
	yamlutil "k8s.io/apimachinery/pkg/util/yaml"
	"sigs.k8s.io/yaml"
)

// MaxManifestSize bounds uploaded manifests.
const MaxManifestSize = 2 * 1024 * 1024

// ManifestDocument is one parsed document of the submitted manifest stream.
type ManifestDocument map[string]interface{}

func (d ManifestDocument) kind() string {
	kind, _ := d["kind"].(string)
	return kind
}

func (d ManifestDocument) apiVersion() string {
	apiVersion, _ := d["apiVersion"].(string)
	return apiVersion
}

func (d ManifestDocument) metadata() map[string]interface{} {
	metadata, _ := d["metadata"].(map[string]interface{})
	return metadata
}

func (d ManifestDocument) name() string {
	metadata := d.metadata()
	if metadata == nil {
		return ""
	}
	name, _ := metadata["name"].(string)
	return name
}

// ValidateAndParseManifest parses the byte stream as a sequence of YAML
// documents and enforces the submission rules. Nothing is mutated here;
// injection happens after the component rows exist.
func ValidateAndParseManifest(data []byte) ([]ManifestDocument, error) {
	if len(data) > MaxManifestSize {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("File size too large. Max size is 2 MB.")
	}

	docs, err := parseManifestDocuments(data)
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("Each manifest item must specify a 'kind'")
	}

	for _, doc := range docs {
		if err := validateManifestDocument(doc); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func parseManifestDocuments(data []byte) ([]ManifestDocument, error) {
	reader := yamlutil.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))
	var docs []ManifestDocument
	for {
		raw, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
				WithMessage("Invalid YAML content in workload manifest").WithError(err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		doc := ManifestDocument{}
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errors.NewError().WithCode(errors.RequestParameterInvalid).
				WithMessage("Invalid YAML content in workload manifest").WithError(err)
		}
		if len(doc) == 0 {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func validateManifestDocument(doc ManifestDocument) error {
	kind := doc.kind()
	if kind == "" {
		return errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("Each manifest item must specify a 'kind'")
	}
	if !messaging.IsSupportedComponentKind(kind) {
		return errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessagef("Unsupported resource kind: %s", kind)
	}

	metadata := doc.metadata()
	if metadata == nil || metadata["name"] == nil {
		return errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessagef("%s metadata must contain 'name' attribute", kind)
	}
	if _, ok := metadata["namespace"]; ok {
		return errors.NewError().WithCode(errors.RequestParameterInvalid).
			WithMessage("Workload components must not contain the 'namespace' attribute, it will be injected")
	}

	componentKind := messaging.ComponentKind(kind)
	switch componentKind {
	case messaging.ComponentKindDeployment, messaging.ComponentKindJob:
		if podSpec := nestedMap(doc, "spec", "template", "spec"); podSpec != nil {
			if _, ok := podSpec["serviceAccountName"]; ok {
				return errors.NewError().WithCode(errors.RequestParameterInvalid).
					WithMessage("Service account is not allowed for the supplied workload")
			}
		}
	case messaging.ComponentKindKaiwoJob, messaging.ComponentKindKaiwoService:
		if spec := nestedMap(doc, "spec"); spec != nil {
			if _, ok := spec["serviceAccountName"]; ok {
				return errors.NewError().WithCode(errors.RequestParameterInvalid).
					WithMessage("Service account is not allowed for the supplied workload")
			}
		}
	}
	return nil
}

// ExtractWorkloadComponents builds the component rows for each document in
// document order; the caller persists them before injection so every
// component has its id.
func ExtractWorkloadComponents(docs []ManifestDocument, workloadID uuid.UUID) []*model.WorkloadComponent {
	components := make([]*model.WorkloadComponent, 0, len(docs))
	for _, doc := range docs {
		components = append(components, &model.WorkloadComponent{
			WorkloadID: workloadID,
			Name:       doc.name(),
			Kind:       messaging.ComponentKind(doc.kind()),
			APIVersion: doc.apiVersion(),
			Status:     messaging.ComponentStatusRegistered,
		})
	}
	return components
}

func injectStandardWorkloadLabels(labels map[string]interface{}, workloadID, componentID, projectID uuid.UUID) {
	labels[WorkloadIDLabel] = workloadID.String()
	labels[ProjectIDLabel] = projectID.String()
	labels[ComponentIDLabel] = componentID.String()
}

// InjectWorkloadMetadata stamps namespace, identity labels and the scheduling
// queue onto each document and re-serializes the stream in submission order.
// Documents and components must be index-aligned.
func InjectWorkloadMetadata(workloadID uuid.UUID, project *model.Project, docs []ManifestDocument, components []*model.WorkloadComponent) (string, error) {
	if len(docs) != len(components) {
		return "", errors.NewError().WithCode(errors.InconsistentStateError).
			WithMessage("manifest documents and components are misaligned")
	}

	var rendered []string
	for i, doc := range docs {
		component := components[i]
		metadata := ensureMap(doc, "metadata")
		metadata["namespace"] = project.Name
		labels := ensureMap(metadata, "labels")
		injectStandardWorkloadLabels(labels, workloadID, component.ID, project.ID)

		switch messaging.ComponentKind(doc.kind()) {
		case messaging.ComponentKindPod:
			// https://kueue.sigs.k8s.io/docs/tasks/run/plain_pods/
			labels[KueueQueueNameLabel] = project.Name

		case messaging.ComponentKindJob,
			messaging.ComponentKindDeployment,
			messaging.ComponentKindStatefulSet:
			labels[KueueQueueNameLabel] = project.Name
			spec := ensureMap(doc, "spec")
			template := ensureMap(spec, "template")
			templateMetadata := ensureMap(template, "metadata")
			templateLabels := ensureMap(templateMetadata, "labels")
			injectStandardWorkloadLabels(templateLabels, workloadID, component.ID, project.ID)

		case messaging.ComponentKindDaemonSet:
			spec := ensureMap(doc, "spec")
			template := ensureMap(spec, "template")
			templateMetadata := ensureMap(template, "metadata")
			templateLabels := ensureMap(templateMetadata, "labels")
			injectStandardWorkloadLabels(templateLabels, workloadID, component.ID, project.ID)
			templateLabels[KueueQueueNameLabel] = project.Name

		case messaging.ComponentKindCronJob:
			// https://kueue.sigs.k8s.io/docs/tasks/run/run_cronjobs/
			spec := ensureMap(doc, "spec")
			jobTemplate := ensureMap(spec, "jobTemplate")
			jobTemplateMetadata := ensureMap(jobTemplate, "metadata")
			jobTemplateLabels := ensureMap(jobTemplateMetadata, "labels")
			injectStandardWorkloadLabels(jobTemplateLabels, workloadID, component.ID, project.ID)
			jobTemplateLabels[KueueQueueNameLabel] = project.Name
			jobTemplateSpec := ensureMap(jobTemplate, "spec")
			podTemplate := ensureMap(jobTemplateSpec, "template")
			podTemplateMetadata := ensureMap(podTemplate, "metadata")
			podTemplateLabels := ensureMap(podTemplateMetadata, "labels")
			injectStandardWorkloadLabels(podTemplateLabels, workloadID, component.ID, project.ID)

		case messaging.ComponentKindKaiwoJob, messaging.ComponentKindKaiwoService:
			spec := ensureMap(doc, "spec")
			spec["clusterQueue"] = project.Name
		}

		out, err := yaml.Marshal(map[string]interface{}(doc))
		if err != nil {
			return "", errors.NewError().WithCode(errors.InternalError).
				WithMessage("failed to serialize manifest document").WithError(err)
		}
		rendered = append(rendered, string(out))
	}

	return strings.Join(rendered, "---\n"), nil
}

func ensureMap(parent map[string]interface{}, key string) map[string]interface{} {
	if child, ok := parent[key].(map[string]interface{}); ok {
		return child
	}
	child := map[string]interface{}{}
	parent[key] = child
	return child
}

func nestedMap(parent map[string]interface{}, keys ...string) map[string]interface{} {
	current := parent
	for _, key := range keys {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil
		}
		current = next
	}
	return current
}
