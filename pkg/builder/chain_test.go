package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_To_ProxiesToTail(t *testing.T) {
	a := NewNode("set", Config{Name: "A"})
	b := NewNode("set", Config{Name: "B"})
	c := NewNode("set", Config{Name: "C"})

	chain := a.To(b).To(c)

	assert.Same(t, a, chain.Head())
	assert.Same(t, c, chain.Tail())
	require.Len(t, b.Edges(), 1)
	assert.Same(t, c, b.Edges()[0].Target)
	assert.Len(t, chain.Items(), 3)
}

func TestChain_CompositeTailDelegatesToControl(t *testing.T) {
	a := NewNode("set", Config{Name: "A"})
	branch := NewIf("if", Config{Name: "Check"})
	x := NewNode("set", Config{Name: "X"})
	composite := branch.OnTrue(x)

	next := NewNode("set", Config{Name: "Next"})
	chain := a.To(composite)
	assert.Same(t, branch, chain.TailNode())

	chain = chain.To(next)

	// Continuation ran from the IF node's own output.
	require.Len(t, branch.Edges(), 1)
	assert.Same(t, next, branch.Edges()[0].Target)
	assert.Same(t, next, chain.Tail())
}

func TestChain_GroupTailIsLastMember(t *testing.T) {
	a := NewNode("set", Config{Name: "A"})
	b := NewNode("set", Config{Name: "B"})
	c := NewNode("set", Config{Name: "C"})

	chain := a.To(Group{b, c})

	assert.Same(t, c, chain.Tail())
	require.Len(t, a.Edges(), 1)
}

func TestChain_OnError_UsesTailErrorIndex(t *testing.T) {
	a := NewNode("set", Config{Name: "A"})
	branch := NewIf("if", Config{Name: "Check"})
	handler := NewNode("set", Config{Name: "H"})

	a.To(branch).OnError(handler)

	require.Len(t, branch.Edges(), 1)
	assert.Equal(t, 2, branch.Edges()[0].OutputIndex)
}

func TestChain_InputOutputSelectors(t *testing.T) {
	a := NewNode("set", Config{Name: "A"})
	merge := NewNode("merge", Config{Name: "Merge"})

	chain := a.To(merge)
	target := chain.Input(1)

	assert.Same(t, merge, target.Node)
	assert.Equal(t, 1, target.Index)

	selector := chain.Output(0)
	assert.Same(t, merge, selector.Node)
}

func TestChain_OnTrue_DelegatesKindCheck(t *testing.T) {
	a := NewNode("set", Config{Name: "A"})
	b := NewNode("set", Config{Name: "B"})

	chain := a.To(b)

	assert.Panics(t, func() {
		chain.OnTrue(NewNode("set", Config{}))
	})
}
