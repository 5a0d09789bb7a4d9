package workflow

import "github.com/google/uuid"

// nodeIDNamespace anchors the UUIDv5 derivation of node identifiers.
var nodeIDNamespace = uuid.MustParse("9f2c1b66-3a7d-5e49-8a21-4cd5fe1db0a3")

// NodeID derives the stable identifier for a node from the workflow id,
// the node type and the node's final key. Equal triples yield equal ids
// across independently constructed builders; any differing component
// changes the id.
func NodeID(workflowID, nodeType, nodeKey string) string {
	data := workflowID + "\x00" + nodeType + "\x00" + nodeKey

	return uuid.NewSHA1(nodeIDNamespace, []byte(data)).String()
}

// RegenerateNodeIDs rewrites every node id in place to its deterministic
// value. Nothing else changes: connections are keyed by final name, so
// superseded ids never orphan an edge.
func (b *Builder) RegenerateNodeIDs() {
	for _, key := range b.order {
		gn := b.nodes[key]

		if gn.imported {
			gn.raw.ID = NodeID(b.id, gn.raw.Type, key)

			continue
		}

		gn.node.ID = NodeID(b.id, gn.node.Type, key)
	}

	// Re-key the rename map to the regenerated ids so composite head
	// resolution and late edge declarations keep working.
	b.nameByID = make(map[string]string, len(b.order))

	for _, key := range b.order {
		gn := b.nodes[key]

		if gn.imported {
			b.nameByID[gn.raw.ID] = key

			continue
		}

		b.nameByID[gn.node.ID] = key
	}
}
