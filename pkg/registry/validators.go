package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/mbraga/flowsmith/pkg/metadata"
	"github.com/mbraga/flowsmith/pkg/models"
)

// NodeLimitValidator enforces the catalog's per-type instance limit
// (description.maxNodes). Without a metadata provider, or without a
// catalog entry for the type, the check is skipped.
type NodeLimitValidator struct{}

func (NodeLimitValidator) ID() string { return "node-limit" }

func (NodeLimitValidator) Priority() int { return 100 }

func (NodeLimitValidator) NodeTypes() []string { return nil }

func (NodeLimitValidator) Check(node *models.NodeJSON, workflow *models.WorkflowJSON, meta metadata.Provider) []models.Issue {
	if meta == nil {
		return nil
	}

	entry, err := meta.GetByNameAndVersion(node.Type, node.TypeVersion)
	if err != nil || entry == nil {
		return nil
	}

	limit := entry.Description.MaxNodes
	if limit <= 0 {
		return nil
	}

	count := 0

	for i := range workflow.Nodes {
		if workflow.Nodes[i].Type == node.Type {
			count++
		}
	}

	if count <= limit {
		return nil
	}

	return []models.Issue{{
		Code:     models.IssueNodeLimit,
		Severity: models.SeverityError,
		Message:  fmt.Sprintf("workflow holds %d nodes of type %q, catalog allows %d", count, node.Type, limit),
		Node:     node.Name,
	}}
}

// ParametersSchemaValidator checks node parameters against the catalog's
// parameter schema with gojsonschema. Missing provider, entry or schema
// all degrade to a skip.
type ParametersSchemaValidator struct{}

func (ParametersSchemaValidator) ID() string { return "parameters-schema" }

func (ParametersSchemaValidator) Priority() int { return 50 }

func (ParametersSchemaValidator) NodeTypes() []string { return nil }

func (ParametersSchemaValidator) Check(node *models.NodeJSON, _ *models.WorkflowJSON, meta metadata.Provider) []models.Issue {
	if meta == nil {
		return nil
	}

	entry, err := meta.GetByNameAndVersion(node.Type, node.TypeVersion)
	if err != nil || entry == nil || entry.Description.Properties == nil {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(entry.Description.Properties),
		gojsonschema.NewGoLoader(node.Parameters),
	)
	if err != nil {
		// Unusable catalog schema, not a node problem.
		return nil
	}

	issues := make([]models.Issue, 0, len(result.Errors()))

	for _, schemaErr := range result.Errors() {
		issues = append(issues, models.Issue{
			Code:     models.IssueParametersSchema,
			Severity: models.SeverityError,
			Message:  schemaErr.String(),
			Node:     node.Name,
		})
	}

	return issues
}
