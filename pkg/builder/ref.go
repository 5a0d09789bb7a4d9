// Package builder provides the fluent node, chain and composite model used
// to author workflow graphs before they are assembled into canonical form.
package builder

// Ref is the closed set of values accepted as a connection source or
// target: node instances, chains, port selectors, unmaterialized
// composites, and fan-out groups.
type Ref interface {
	ref()
}

// Group fans a single output port out to several targets at the same
// output index.
type Group []Ref

func (Group) ref() {}

// tailOf returns the continuation point of a reference: the element a
// chain extended from it would proxy its next operation to.
func tailOf(target Ref) Ref {
	switch v := target.(type) {
	case Group:
		if len(v) == 0 {
			return nil
		}

		return tailOf(v[len(v)-1])
	case *InputTarget:
		return v.Node
	case *OutputSelector:
		return v.Node
	case *Chain:
		return v.tail
	default:
		return target
	}
}

// emptyGroup reports whether ref is a Group with no connectable member,
// including groups nested to any depth. An edge to one would resolve to
// zero targets and vanish silently, so To rejects it up front.
func emptyGroup(ref Ref) bool {
	g, ok := ref.(Group)
	if !ok {
		return false
	}

	for _, item := range g {
		if !emptyGroup(item) {
			return false
		}
	}

	return true
}

// controlOf unwraps a reference down to the node that answers fluent
// operations for it. For composites this is the control node.
func controlOf(target Ref) *Node {
	switch v := target.(type) {
	case *Node:
		return v
	case *IfElse:
		return v.ControlNode
	case *SwitchCase:
		return v.ControlNode
	case *SplitInBatches:
		return v.ControlNode
	case *InputTarget:
		return v.Node
	case *OutputSelector:
		return v.Node
	case *Chain:
		return v.TailNode()
	case Group:
		if len(v) == 0 {
			return nil
		}

		return controlOf(v[len(v)-1])
	}

	return nil
}
