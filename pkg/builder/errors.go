package builder

import "fmt"

// UsageError reports a builder operation invoked on a node that does not
// support it: a branch-only method on a plain node, or an edge declared
// from an imported snapshot. It is raised with panic so misuse surfaces
// at the call site instead of producing a half-built graph.
type UsageError struct {
	Op     string
	Node   string
	Kind   Kind
	Reason string
}

func (e *UsageError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("builder: %s on node %q: %s", e.Op, e.Node, e.Reason)
	}

	return fmt.Sprintf("builder: %s is not supported by node %q (kind %q)", e.Op, e.Node, e.Kind)
}

func (n *Node) mustKind(kind Kind, op string) {
	if n.Kind != kind {
		panic(&UsageError{Op: op, Node: n.Name, Kind: n.Kind})
	}
}

func (n *Node) mustConnect(op string) {
	if !n.connectable {
		panic(&UsageError{
			Op:     op,
			Node:   n.Name,
			Kind:   n.Kind,
			Reason: "node was reconstructed from serialized form and cannot declare new connections",
		})
	}
}
