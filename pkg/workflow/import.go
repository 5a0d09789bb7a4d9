package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Import reconstructs a builder from canonical wire output. Nodes come
// back as terminal snapshots: their original shape is preserved exactly
// for round-trip fidelity, the display name is kept separate from the
// internal lookup key, and edge-declaring operations on them fail
// loudly.
func Import(data []byte, opts ...Option) (*Builder, error) {
	var wf models.WorkflowJSON

	if err := json.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("workflow: decode: %w", err)
	}

	if err := validate.Struct(&wf); err != nil {
		return nil, fmt.Errorf("workflow: invalid wire format: %w", err)
	}

	b := New(wf.ID, wf.Name, opts...)
	b.settings = wf.Settings
	b.pinData = wf.PinData
	b.meta = wf.Meta

	for i := range wf.Nodes {
		desc := wf.Nodes[i]

		// Lookup key: the display name when present, otherwise the id,
		// otherwise the type tag. Collisions get the usual suffix.
		name := desc.Name
		if name == "" {
			name = desc.ID
		}

		if name == "" {
			name = desc.Type
		}

		key := b.uniqueKey(name)
		snapshot := restoredNode(desc)
		b.nameByID[snapshot.ID] = key
		b.nodes[key] = &graphNode{key: key, node: snapshot, imported: true, raw: desc}
		b.order = append(b.order, key)
	}

	for sourceName, nc := range wf.Connections {
		sourceKey, err := b.importedKey(sourceName)
		if err != nil {
			return nil, err
		}

		for connType, lists := range nc {
			for outputIndex, targets := range lists {
				for _, target := range targets {
					targetKey, err := b.importedKey(target.Node)
					if err != nil {
						return nil, err
					}

					b.edges = append(b.edges, resolvedEdge{
						sourceKey:   sourceKey,
						connType:    connType,
						outputIndex: outputIndex,
						targetKey:   targetKey,
						inputIndex:  target.Index,
					})
				}
			}
		}
	}

	return b, nil
}

// restoredNode rebuilds a frozen builder node from a wire descriptor so
// the rest of the core (validation, id regeneration) can treat imported
// steps uniformly.
func restoredNode(desc models.NodeJSON) *builder.Node {
	node := builder.NewNode(desc.Type, builder.Config{
		ID:          desc.ID,
		Name:        desc.Name,
		TypeVersion: desc.TypeVersion,
		Parameters:  desc.Parameters,
	})

	return node.Freeze()
}

func (b *Builder) importedKey(name string) (string, error) {
	if _, ok := b.nodes[name]; ok {
		return name, nil
	}

	return "", &BrokenReferenceError{Target: name}
}
