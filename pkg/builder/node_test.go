package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_Defaults(t *testing.T) {
	node := NewNode("set", Config{})

	assert.NotEmpty(t, node.ID)
	assert.Equal(t, "set", node.Name)
	assert.Equal(t, KindPlain, node.Kind)
	assert.InDelta(t, 1.0, node.TypeVersion, 0)
	assert.NotNil(t, node.Parameters)
	assert.True(t, node.Connectable())
}

func TestNewNode_ConfigOverrides(t *testing.T) {
	pos := [2]float64{100, 200}
	node := NewTrigger("webhook", Config{
		Name:        "Start",
		TypeVersion: 2,
		Position:    &pos,
		Parameters:  map[string]any{"path": "/hook"},
	})

	assert.Equal(t, "Start", node.Name)
	assert.Equal(t, KindTrigger, node.Kind)
	assert.InDelta(t, 2.0, node.TypeVersion, 0)
	assert.Equal(t, "/hook", node.Parameters["path"])
}

func TestNode_To_DeclaresEdge(t *testing.T) {
	source := NewNode("set", Config{Name: "A"})
	target := NewNode("set", Config{Name: "B"})

	chain := source.To(target)

	require.Len(t, source.Edges(), 1)
	assert.Equal(t, 0, source.Edges()[0].OutputIndex)
	assert.Same(t, target, source.Edges()[0].Target)
	assert.Same(t, target, chain.Tail())
	assert.Same(t, source, chain.Head())
}

func TestNode_To_ExplicitOutputIndex(t *testing.T) {
	source := NewIf("if", Config{Name: "Check"})
	target := NewNode("set", Config{Name: "B"})

	source.To(target, 1)

	require.Len(t, source.Edges(), 1)
	assert.Equal(t, 1, source.Edges()[0].OutputIndex)
}

func TestNode_To_InputTargetEndsChainAtNode(t *testing.T) {
	source := NewNode("set", Config{Name: "A"})
	merge := NewNode("merge", Config{Name: "Merge"})

	chain := source.To(merge.Input(1))

	target, ok := source.Edges()[0].Target.(*InputTarget)
	require.True(t, ok)
	assert.Equal(t, 1, target.Index)
	assert.Same(t, merge, chain.Tail())
}

func TestNode_To_EmptyGroupPanics(t *testing.T) {
	source := NewNode("set", Config{Name: "A"})

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		usage, ok := recovered.(*UsageError)
		require.True(t, ok)
		assert.Equal(t, "To", usage.Op)
	}()

	source.To(Group{})
}

func TestNode_To_NestedEmptyGroupPanics(t *testing.T) {
	source := NewNode("set", Config{Name: "A"})

	assert.Panics(t, func() {
		source.To(Group{Group{}})
	})

	// A group with at least one real member is fine.
	assert.NotPanics(t, func() {
		source.To(Group{Group{}, NewNode("set", Config{Name: "B"})})
	})
}

func TestNode_Output_ToIsEquivalent(t *testing.T) {
	source := NewIf("if", Config{Name: "Check"})
	target := NewNode("set", Config{Name: "B"})

	source.Output(1).To(target)

	require.Len(t, source.Edges(), 1)
	assert.Equal(t, 1, source.Edges()[0].OutputIndex)
}

func TestNode_OnError_IndexByKind(t *testing.T) {
	handler := NewNode("set", Config{Name: "H"})

	plain := NewNode("set", Config{Name: "P"})
	plain.OnError(handler)
	assert.Equal(t, 1, plain.Edges()[0].OutputIndex)

	branch := NewIf("if", Config{Name: "B"})
	branch.OnError(handler)
	assert.Equal(t, 2, branch.Edges()[0].OutputIndex)

	configured := NewSwitch("switch", Config{
		Name:       "S",
		Parameters: map[string]any{"numberOutputs": 3},
	})
	configured.OnError(handler)
	assert.Equal(t, 3, configured.Edges()[0].OutputIndex)

	fallback := NewSwitch("switch", Config{Name: "S2"})
	fallback.OnError(handler)
	assert.Equal(t, 4, fallback.Edges()[0].OutputIndex)
}

func TestNode_OnTrue_WrongKindPanics(t *testing.T) {
	plain := NewNode("set", Config{Name: "P"})
	target := NewNode("set", Config{Name: "T"})

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		usage, ok := recovered.(*UsageError)
		require.True(t, ok)
		assert.Equal(t, "OnTrue", usage.Op)
		assert.Equal(t, KindPlain, usage.Kind)
	}()

	plain.OnTrue(target)
}

func TestNode_OnCase_WrongKindPanics(t *testing.T) {
	branch := NewIf("if", Config{Name: "B"})

	assert.Panics(t, func() {
		branch.OnCase(0, NewNode("set", Config{}))
	})
}

func TestNode_OnTrueOnFalse_BuildsComposite(t *testing.T) {
	branch := NewIf("if", Config{Name: "Check"})
	a := NewNode("set", Config{Name: "A"})
	b := NewNode("set", Config{Name: "B"})

	composite := branch.OnTrue(a).OnFalse(b)

	assert.Same(t, branch, composite.ControlNode)
	assert.Same(t, a, composite.True)
	assert.Same(t, b, composite.False)
}

func TestNode_OnCase_SparseIndices(t *testing.T) {
	sw := NewSwitch("switch", Config{Name: "Route"})
	a := NewNode("set", Config{Name: "A"})
	b := NewNode("set", Config{Name: "B"})

	composite := sw.OnCase(0, a).OnCase(5, b)

	require.Len(t, composite.Cases, 2)
	assert.Same(t, a, composite.Cases[0])
	assert.Same(t, b, composite.Cases[5])
}

func TestNode_Loop_CompositeAndControl(t *testing.T) {
	loop := NewLoop("splitInBatches", Config{Name: "Batch"})
	each := NewNode("set", Config{Name: "Work"})
	done := NewNode("set", Config{Name: "Finish"})

	composite := loop.OnEachBatch(each).OnDone(done)

	assert.Same(t, loop, composite.Control())
	assert.Same(t, each, composite.Each)
	assert.Same(t, done, composite.Done)

	// Explicit loop-back edge through the control accessor.
	each.To(composite.Control())
	require.Len(t, each.Edges(), 1)
	assert.Same(t, loop, each.Edges()[0].Target)
}

func TestNode_Update_ReturnsNewValue(t *testing.T) {
	original := NewNode("set", Config{
		Name:       "A",
		Parameters: map[string]any{"mode": "keep", "options": map[string]any{"dot": true}},
	})
	original.To(NewNode("set", Config{Name: "B"}))

	disabled := true
	updated := original.Update(Patch{
		Parameters: map[string]any{"options": map[string]any{"binary": false}, "extra": 1},
		Disabled:   &disabled,
	})

	require.NotSame(t, original, updated)
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.Name, updated.Name)
	assert.Len(t, updated.Edges(), 1)
	assert.True(t, updated.Disabled)
	assert.False(t, original.Disabled)

	// Deep merge keeps untouched keys on both levels.
	assert.Equal(t, "keep", updated.Parameters["mode"])
	options, ok := updated.Parameters["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, options["dot"])
	assert.Equal(t, 1, updated.Parameters["extra"])

	// The original's parameters are untouched.
	assert.NotContains(t, original.Parameters, "extra")
}

func TestNode_Update_OverridesIdentityWhenAsked(t *testing.T) {
	original := NewNode("set", Config{Name: "A"})

	updated := original.Update(Patch{Name: "Renamed", TypeVersion: 3})

	assert.Equal(t, "Renamed", updated.Name)
	assert.InDelta(t, 3.0, updated.TypeVersion, 0)
	assert.Equal(t, "A", original.Name)
}

func TestNode_Freeze_BlocksEdgeDeclarations(t *testing.T) {
	frozen := NewNode("set", Config{Name: "Snapshot"}).Freeze()

	assert.False(t, frozen.Connectable())
	assert.Panics(t, func() {
		frozen.To(NewNode("set", Config{}))
	})
	assert.Panics(t, func() {
		frozen.Attach(NewNode("lm", Config{}), "ai_languageModel")
	})
}

func TestNode_Attach_DeclaresSubnode(t *testing.T) {
	agent := NewNode("agent", Config{Name: "Agent"})
	model := NewNode("lmChatOpenAi", Config{Name: "Model"})

	agent.Attach(model, "ai_languageModel")

	require.Len(t, agent.Attachments(), 1)
	assert.Same(t, model, agent.Attachments()[0].Node)
	assert.Equal(t, "ai_languageModel", agent.Attachments()[0].Type)
}
