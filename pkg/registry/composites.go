package registry

import (
	"fmt"
	"sort"

	"github.com/mbraga/flowsmith/pkg/builder"
)

// Built-in composite handlers for the branch, switch and loop shapes.

// IfElseHandler expands a two-way branch composite: output 0 wires to
// the true branch, output 1 to the false branch.
type IfElseHandler struct{}

func (IfElseHandler) ID() string { return "ifelse" }

func (IfElseHandler) Priority() int { return 0 }

func (IfElseHandler) Accepts(ref builder.Ref) bool {
	_, ok := ref.(*builder.IfElse)

	return ok
}

func (IfElseHandler) Head(ref builder.Ref) *builder.Node {
	if c, ok := ref.(*builder.IfElse); ok {
		return c.ControlNode
	}

	return nil
}

func (h IfElseHandler) AddNodes(ref builder.Ref, ctx AssemblyContext) (string, error) {
	c, ok := ref.(*builder.IfElse)
	if !ok {
		return "", fmt.Errorf("handler %q cannot expand %T", h.ID(), ref)
	}

	key := ctx.RegisterNode(c.ControlNode)

	for index, branch := range []builder.Ref{c.True, c.False} {
		if err := wireBranch(ctx, key, index, branch); err != nil {
			return "", err
		}
	}

	return key, nil
}

// SwitchCaseHandler expands a multi-way switch composite. Case indices
// may be sparse; they are wired in ascending order for determinism.
type SwitchCaseHandler struct{}

func (SwitchCaseHandler) ID() string { return "switchcase" }

func (SwitchCaseHandler) Priority() int { return 0 }

func (SwitchCaseHandler) Accepts(ref builder.Ref) bool {
	_, ok := ref.(*builder.SwitchCase)

	return ok
}

func (SwitchCaseHandler) Head(ref builder.Ref) *builder.Node {
	if c, ok := ref.(*builder.SwitchCase); ok {
		return c.ControlNode
	}

	return nil
}

func (h SwitchCaseHandler) AddNodes(ref builder.Ref, ctx AssemblyContext) (string, error) {
	c, ok := ref.(*builder.SwitchCase)
	if !ok {
		return "", fmt.Errorf("handler %q cannot expand %T", h.ID(), ref)
	}

	key := ctx.RegisterNode(c.ControlNode)

	indices := make([]int, 0, len(c.Cases))
	for index := range c.Cases {
		indices = append(indices, index)
	}

	sort.Ints(indices)

	for _, index := range indices {
		if err := wireBranch(ctx, key, index, c.Cases[index]); err != nil {
			return "", err
		}
	}

	return key, nil
}

// SplitInBatchesHandler expands a batched loop composite: output 0 wires
// to the done branch, output 1 to the per-batch branch. The loop-back
// edge from the batch branch into the control node is the author's to
// declare explicitly.
type SplitInBatchesHandler struct{}

func (SplitInBatchesHandler) ID() string { return "splitinbatches" }

func (SplitInBatchesHandler) Priority() int { return 0 }

func (SplitInBatchesHandler) Accepts(ref builder.Ref) bool {
	_, ok := ref.(*builder.SplitInBatches)

	return ok
}

func (SplitInBatchesHandler) Head(ref builder.Ref) *builder.Node {
	if c, ok := ref.(*builder.SplitInBatches); ok {
		return c.ControlNode
	}

	return nil
}

func (h SplitInBatchesHandler) AddNodes(ref builder.Ref, ctx AssemblyContext) (string, error) {
	c, ok := ref.(*builder.SplitInBatches)
	if !ok {
		return "", fmt.Errorf("handler %q cannot expand %T", h.ID(), ref)
	}

	key := ctx.RegisterNode(c.ControlNode)

	if err := wireBranch(ctx, key, 0, c.Done); err != nil {
		return "", err
	}

	if err := wireBranch(ctx, key, 1, c.Each); err != nil {
		return "", err
	}

	return key, nil
}

// wireBranch adds one branch of a composite and wires the control output
// to each entry point. Nil branches declare no edge; Group branches fan
// out at the same output index.
func wireBranch(ctx AssemblyContext, controlKey string, outputIndex int, branch builder.Ref) error {
	if branch == nil {
		return nil
	}

	entries, err := ctx.AddBranch(branch)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		ctx.Connect(controlKey, builder.ConnectionMain, outputIndex, entry)
	}

	return nil
}
