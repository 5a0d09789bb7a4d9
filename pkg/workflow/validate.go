package workflow

import (
	"strings"

	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/models"
)

// ValidateOptions tunes the built-in structural checks.
type ValidateOptions struct {
	// AllowNoTrigger suppresses the MISSING_TRIGGER warning for
	// intentionally trigger-less graphs (subworkflows, fragments).
	AllowNoTrigger bool
}

// Validate runs one aggregated validation pass: structural checks first,
// then every applicable validator plugin per node in strictly descending
// priority order. Issues accumulate; nothing aborts early, and a missing
// metadata provider only degrades metadata-backed checks to a skip.
func (b *Builder) Validate(opts ValidateOptions) *models.ValidationResult {
	result := &models.ValidationResult{
		Valid:    true,
		Errors:   []models.Issue{},
		Warnings: []models.Issue{},
	}

	if len(b.order) == 0 {
		result.Add(models.Issue{
			Code:     models.IssueNoNodes,
			Severity: models.SeverityError,
			Message:  "workflow has no nodes",
		})

		return result
	}

	if !opts.AllowNoTrigger && !b.hasTrigger() {
		result.Add(models.Issue{
			Code:     models.IssueMissingTrigger,
			Severity: models.SeverityWarning,
			Message:  "workflow has no trigger node",
		})
	}

	wf, issues := b.buildJSON(true)
	for _, err := range issues {
		result.Add(models.Issue{
			Code:     models.IssueBrokenReference,
			Severity: models.SeverityError,
			Message:  err.Error(),
		})
	}

	reg := b.registryOrDefault()

	for i := range wf.Nodes {
		node := &wf.Nodes[i]

		for _, v := range reg.ValidatorsForNodeType(node.Type) {
			for _, issue := range v.Check(node, wf, b.metadata) {
				result.Add(issue)
			}
		}
	}

	return result
}

func (b *Builder) hasTrigger() bool {
	for _, key := range b.order {
		gn := b.nodes[key]

		if !gn.imported && gn.node.Kind == builder.KindTrigger {
			return true
		}

		if gn.imported && typeLooksTrigger(gn.raw.Type) {
			return true
		}
	}

	return false
}

// typeLooksTrigger is the import-side heuristic: snapshots carry no kind
// tag, so the type string decides.
func typeLooksTrigger(nodeType string) bool {
	lower := strings.ToLower(nodeType)

	return strings.Contains(lower, "trigger") || strings.Contains(lower, "webhook")
}
