// Package registry provides the priority-ordered plugin tables that make
// node validation, composite expansion and output serialization
// extensible without touching the workflow assembler.
package registry

import (
	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/metadata"
	"github.com/mbraga/flowsmith/pkg/models"
)

// Entry is a resolved branch entry point: the target node's final key
// plus the pinned input index.
type Entry struct {
	Key        string
	InputIndex int
}

// AssemblyContext is the assembler surface handed to composite handlers
// while they materialize a composite into the graph.
type AssemblyContext interface {
	// RegisterNode inserts the node and its subnode attachments into
	// the graph, resolving name collisions, and returns the final key.
	RegisterNode(node *builder.Node) string

	// AddBranch recursively adds a branch reference and returns the
	// entry points a control output should wire to. Group branches
	// yield one entry per member.
	AddBranch(ref builder.Ref) ([]Entry, error)

	// Connect records a resolved edge from an output port of the node
	// with the given final key.
	Connect(sourceKey, connectionType string, outputIndex int, target Entry)
}

// CompositeHandler expands one control-flow shape into concrete nodes
// and edges. New shapes are added by registering new handlers; the
// assembler itself never learns about composite internals.
type CompositeHandler interface {
	ID() string
	Priority() int

	// Accepts reports whether ref is a composite this handler expands.
	Accepts(ref builder.Ref) bool

	// Head returns the control node of an accepted composite, nil
	// otherwise.
	Head(ref builder.Ref) *builder.Node

	// AddNodes materializes the composite through ctx and returns the
	// control node's final key, which becomes the current node for
	// subsequent chaining.
	AddNodes(ref builder.Ref, ctx AssemblyContext) (string, error)
}

// Validator checks one node of an assembled workflow and reports
// non-fatal issues. A missing metadata provider degrades metadata-backed
// validators to a skip, never a failure.
type Validator interface {
	ID() string
	Priority() int

	// NodeTypes filters which node types the validator applies to; an
	// empty list applies it to every node.
	NodeTypes() []string

	Check(node *models.NodeJSON, workflow *models.WorkflowJSON, meta metadata.Provider) []models.Issue
}

// Serializer renders an assembled workflow into one output format.
type Serializer interface {
	ID() string
	Priority() int
	Format() string
	Serialize(workflow *models.WorkflowJSON) ([]byte, error)
}
