package models

import "fmt"

// Issue codes produced by the built-in validation pass.
const (
	IssueNoNodes          = "NO_NODES"
	IssueMissingTrigger   = "MISSING_TRIGGER"
	IssueBrokenReference  = "BROKEN_REFERENCE"
	IssueNodeLimit        = "NODE_LIMIT_EXCEEDED"
	IssueParametersSchema = "PARAMETERS_SCHEMA"
)

// IssueSeverity splits validation findings into blocking errors and
// advisory warnings.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue is one non-fatal validation finding. Issues are aggregated into
// a ValidationResult and never raised as errors, so a single pass
// surfaces every problem at once.
type Issue struct {
	Code     string        `json:"code"`
	Severity IssueSeverity `json:"severity"`
	Message  string        `json:"message"`
	Node     string        `json:"node,omitempty"`
}

func (i Issue) String() string {
	if i.Node != "" {
		return fmt.Sprintf("%s: %s (node %q)", i.Code, i.Message, i.Node)
	}

	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// ValidationResult aggregates every finding of one validation pass.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// Add routes an issue to the matching bucket and flips Valid for
// error-severity findings.
func (r *ValidationResult) Add(issue Issue) {
	if issue.Severity == SeverityError {
		r.Errors = append(r.Errors, issue)
		r.Valid = false

		return
	}

	r.Warnings = append(r.Warnings, issue)
}
