package workflow

import (
	"errors"
	"fmt"

	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/models"
	"github.com/mbraga/flowsmith/pkg/registry"
)

// BrokenReferenceError reports a declared connection whose target never
// joined the workflow. It is raised at serialize time, never silently
// dropped.
type BrokenReferenceError struct {
	Source string
	Target string
}

func (e *BrokenReferenceError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("workflow: connection from %q references %q, which is not part of the workflow", e.Source, e.Target)
	}

	return fmt.Sprintf("workflow: connection references %q, which is not part of the workflow", e.Target)
}

// BuildJSON produces the canonical wire representation. It is a pure
// read: repeated calls without intervening mutation are structurally
// identical, and the rename map is never cleared by a read.
func (b *Builder) BuildJSON() (*models.WorkflowJSON, error) {
	wf, issues := b.buildJSON(false)
	if len(issues) > 0 {
		return nil, errors.Join(issues...)
	}

	return wf, nil
}

// ExportFormat renders the workflow through the serializer registered
// for format, consulting the custom registry before the shared default.
func (b *Builder) ExportFormat(format string) ([]byte, error) {
	wf, err := b.BuildJSON()
	if err != nil {
		return nil, err
	}

	if b.registry != nil {
		if serializer, serr := b.registry.SerializerFor(format); serr == nil {
			return serializer.Serialize(wf)
		}
	}

	serializer, err := registry.Default().SerializerFor(format)
	if err != nil {
		return nil, err
	}

	return serializer.Serialize(wf)
}

// buildJSON assembles the wire structure. In tolerant mode unresolvable
// edges are collected instead of aborting, so validation can report
// every broken reference in one pass.
func (b *Builder) buildJSON(tolerant bool) (*models.WorkflowJSON, []error) {
	var issues []error

	issues = append(issues, b.errs...)

	if !tolerant && len(issues) > 0 {
		return nil, issues
	}

	edges := append([]resolvedEdge(nil), b.edges...)

	for _, key := range b.order {
		gn := b.nodes[key]
		if gn.imported {
			continue
		}

		for _, declared := range gn.node.Edges() {
			resolved, err := b.resolveDeclared(key, declared)
			if err != nil {
				issues = append(issues, err)

				if !tolerant {
					return nil, issues
				}

				continue
			}

			edges = append(edges, resolved...)
		}
	}

	edges = dedupeEdges(edges)

	wf := &models.WorkflowJSON{
		ID:          b.id,
		Name:        b.name,
		Nodes:       make([]models.NodeJSON, 0, len(b.order)),
		Connections: map[string]models.NodeConnections{},
		Settings:    b.settings,
		PinData:     b.pinData,
		Meta:        b.meta,
	}

	for i, key := range b.order {
		wf.Nodes = append(wf.Nodes, b.nodeJSON(i, key))
	}

	for _, edge := range edges {
		nc, ok := wf.Connections[edge.sourceKey]
		if !ok {
			nc = models.NodeConnections{}
			wf.Connections[edge.sourceKey] = nc
		}

		lists := nc[edge.connType]
		for len(lists) <= edge.outputIndex {
			lists = append(lists, []models.TargetRef{})
		}

		lists[edge.outputIndex] = append(lists[edge.outputIndex], models.TargetRef{
			Node:  edge.targetKey,
			Type:  edge.connType,
			Index: edge.inputIndex,
		})
		nc[edge.connType] = lists
	}

	return wf, issues
}

// nodeJSON renders one node descriptor. Imported snapshots pass through
// verbatim; builder nodes get parameter normalization and, when the
// author never placed them, an auto-layout position.
func (b *Builder) nodeJSON(index int, key string) models.NodeJSON {
	gn := b.nodes[key]
	if gn.imported {
		return gn.raw
	}

	node := gn.node
	desc := models.NodeJSON{
		ID:               node.ID,
		Name:             key,
		Type:             node.Type,
		TypeVersion:      node.TypeVersion,
		Parameters:       normalizeParameters(node.Parameters),
		Credentials:      node.Credentials,
		Disabled:         node.Disabled,
		Notes:            node.Notes,
		NotesInFlow:      node.NotesInFlow,
		ExecuteOnce:      node.ExecuteOnce,
		RetryOnFail:      node.RetryOnFail,
		AlwaysOutputData: node.AlwaysOutputData,
		OnError:          node.OnFail,
	}

	if node.Position != nil {
		desc.Position = *node.Position
	} else {
		desc.Position = b.layout(index)
	}

	return desc
}

// resolveDeclared resolves one entry of a node's declared-edge log into
// concrete edges, consulting the rename map for every target shape.
func (b *Builder) resolveDeclared(sourceKey string, declared builder.Edge) ([]resolvedEdge, error) {
	entries, err := b.entryPoints(declared.Target)
	if err != nil {
		var broken *BrokenReferenceError
		if errors.As(err, &broken) && broken.Source == "" {
			broken.Source = sourceKey
		}

		return nil, err
	}

	resolved := make([]resolvedEdge, 0, len(entries))

	for _, entry := range entries {
		resolved = append(resolved, resolvedEdge{
			sourceKey:   sourceKey,
			connType:    builder.ConnectionMain,
			outputIndex: declared.OutputIndex,
			targetKey:   entry.Key,
			inputIndex:  entry.InputIndex,
		})
	}

	return resolved, nil
}

// dedupeEdges drops exact duplicate edges, keeping first-declaration
// order, so declaring the same connection twice yields one edge.
func dedupeEdges(edges []resolvedEdge) []resolvedEdge {
	seen := make(map[resolvedEdge]struct{}, len(edges))
	out := edges[:0]

	for _, edge := range edges {
		if _, dup := seen[edge]; dup {
			continue
		}

		seen[edge] = struct{}{}
		out = append(out, edge)
	}

	return out
}
