package builder

// Chain is the continuation produced by To. It remembers every reference
// seen so far and forwards node operations to its tail; when the tail is
// a composite, operations delegate to the composite's control node so
// callers never special-case control flow while chaining.
type Chain struct {
	head  Ref
	tail  Ref
	items []Ref
}

func (*Chain) ref() {}

func newChain(head *Node, target Ref) *Chain {
	return &Chain{head: head, tail: tailOf(target), items: []Ref{head, target}}
}

func (c *Chain) extend(target Ref) *Chain {
	items := make([]Ref, 0, len(c.items)+1)
	items = append(items, c.items...)
	items = append(items, target)

	return &Chain{head: c.head, tail: tailOf(target), items: items}
}

// Head returns the first reference of the chain. Connections targeting a
// chain resolve to its head.
func (c *Chain) Head() Ref {
	return c.head
}

// Items returns every reference the chain has passed through, in order.
func (c *Chain) Items() []Ref {
	return c.items
}

// Tail returns the chain's continuation point.
func (c *Chain) Tail() Ref {
	return c.tail
}

// TailNode returns the node that answers fluent operations for the
// chain: the tail itself, or the control node of a composite tail.
func (c *Chain) TailNode() *Node {
	return controlOf(c.tail)
}

// To declares an edge from the chain's tail node to target.
func (c *Chain) To(target Ref, outputIndex ...int) *Chain {
	c.TailNode().To(target, outputIndex...)

	return c.extend(target)
}

// Input pins an input port on the chain's tail node.
func (c *Chain) Input(index int) *InputTarget {
	return c.TailNode().Input(index)
}

// Output selects an output port on the chain's tail node.
func (c *Chain) Output(index int) *OutputSelector {
	return c.TailNode().Output(index)
}

// OnError declares an edge from the tail node's error output to handler.
func (c *Chain) OnError(handler Ref) *Chain {
	tail := c.TailNode()
	tail.To(handler, tail.ErrorOutputIndex())

	return c.extend(handler)
}

// OnTrue delegates to the tail node; it panics unless the tail is a
// branch node.
func (c *Chain) OnTrue(target Ref) *IfElse {
	return c.TailNode().OnTrue(target)
}

// OnFalse delegates to the tail node; it panics unless the tail is a
// branch node.
func (c *Chain) OnFalse(target Ref) *IfElse {
	return c.TailNode().OnFalse(target)
}

// OnCase delegates to the tail node; it panics unless the tail is a
// switch node.
func (c *Chain) OnCase(index int, target Ref) *SwitchCase {
	return c.TailNode().OnCase(index, target)
}

// OnEachBatch delegates to the tail node; it panics unless the tail is a
// loop node.
func (c *Chain) OnEachBatch(target Ref) *SplitInBatches {
	return c.TailNode().OnEachBatch(target)
}

// OnDone delegates to the tail node; it panics unless the tail is a
// loop node.
func (c *Chain) OnDone(target Ref) *SplitInBatches {
	return c.TailNode().OnDone(target)
}

// InputTarget is a terminal connection marker pinning a specific input
// port of its node.
type InputTarget struct {
	Node  *Node
	Index int
}

func (*InputTarget) ref() {}

// OutputSelector pins a specific output port of its node; To on the
// selector is equivalent to To(target, index) on the node.
type OutputSelector struct {
	Node  *Node
	Index int
}

func (*OutputSelector) ref() {}

// To declares an edge from the selected output port to target.
func (s *OutputSelector) To(target Ref) *Chain {
	return s.Node.To(target, s.Index)
}
