package builder

// Composites are inert descriptions of control-flow shapes. They never
// enter a graph directly; a matching composite handler plugin expands
// them into concrete nodes and edges during assembly.

// IfElse describes a two-way branch: output 0 routes to True, output 1
// to False. Either branch may be nil (no edge), a single reference, or a
// Group fanning out at the same output index.
type IfElse struct {
	ControlNode *Node
	True        Ref
	False       Ref
}

func (*IfElse) ref() {}

// OnTrue sets the true branch and returns the composite for chaining.
func (c *IfElse) OnTrue(target Ref) *IfElse {
	c.True = target

	return c
}

// OnFalse sets the false branch and returns the composite for chaining.
func (c *IfElse) OnFalse(target Ref) *IfElse {
	c.False = target

	return c
}

// SwitchCase describes a multi-way switch with a sparse case map: output
// index i routes to Cases[i]. Indices need not be sequential.
type SwitchCase struct {
	ControlNode *Node
	Cases       map[int]Ref
}

func (*SwitchCase) ref() {}

// OnCase sets the branch for the given case index and returns the
// composite for chaining.
func (c *SwitchCase) OnCase(index int, target Ref) *SwitchCase {
	if c.Cases == nil {
		c.Cases = map[int]Ref{}
	}

	c.Cases[index] = target

	return c
}

// SplitInBatches describes a batched loop: output 0 emits the final
// result once all batches are done, output 1 emits each batch. The Each
// branch is expected to loop back into the control node explicitly.
type SplitInBatches struct {
	ControlNode *Node
	Each        Ref
	Done        Ref
}

func (*SplitInBatches) ref() {}

// OnEachBatch sets the per-batch branch and returns the composite.
func (c *SplitInBatches) OnEachBatch(target Ref) *SplitInBatches {
	c.Each = target

	return c
}

// OnDone sets the completion branch and returns the composite.
func (c *SplitInBatches) OnDone(target Ref) *SplitInBatches {
	c.Done = target

	return c
}

// Control returns the loop node unchanged so the Each branch can declare
// its loop-back edge explicitly rather than implicitly.
func (c *SplitInBatches) Control() *Node {
	return c.ControlNode
}
