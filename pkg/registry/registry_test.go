package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/metadata"
	"github.com/mbraga/flowsmith/pkg/models"
)

type stubValidator struct {
	id       string
	priority int
	types    []string
}

func (v stubValidator) ID() string { return v.id }

func (v stubValidator) Priority() int { return v.priority }

func (v stubValidator) NodeTypes() []string { return v.types }

func (v stubValidator) Check(*models.NodeJSON, *models.WorkflowJSON, metadata.Provider) []models.Issue {
	return nil
}

type stubSerializer struct {
	id     string
	format string
}

func (s stubSerializer) ID() string { return s.id }

func (s stubSerializer) Priority() int { return 0 }

func (s stubSerializer) Format() string { return s.format }

func (s stubSerializer) Serialize(*models.WorkflowJSON) ([]byte, error) { return nil, nil }

func TestRegistry_RegisterValidator_DuplicateID(t *testing.T) {
	r := New()

	require.NoError(t, r.RegisterValidator(stubValidator{id: "v1"}))

	err := r.RegisterValidator(stubValidator{id: "v1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicatePlugin)
}

func TestRegistry_Validators_PriorityDescendingStable(t *testing.T) {
	r := New()

	require.NoError(t, r.RegisterValidator(stubValidator{id: "low", priority: 1}))
	require.NoError(t, r.RegisterValidator(stubValidator{id: "high", priority: 10}))
	require.NoError(t, r.RegisterValidator(stubValidator{id: "tie-first", priority: 5}))
	require.NoError(t, r.RegisterValidator(stubValidator{id: "tie-second", priority: 5}))

	ids := make([]string, 0, 4)
	for _, v := range r.Validators() {
		ids = append(ids, v.ID())
	}

	assert.Equal(t, []string{"high", "tie-first", "tie-second", "low"}, ids)
}

func TestRegistry_ValidatorsForNodeType_EmptyFilterMatchesAll(t *testing.T) {
	r := New()

	require.NoError(t, r.RegisterValidator(stubValidator{id: "all"}))
	require.NoError(t, r.RegisterValidator(stubValidator{id: "only-set", types: []string{"set"}}))

	forSet := r.ValidatorsForNodeType("set")
	require.Len(t, forSet, 2)

	forHTTP := r.ValidatorsForNodeType("httpRequest")
	require.Len(t, forHTTP, 1)
	assert.Equal(t, "all", forHTTP[0].ID())
}

func TestRegistry_RegisterSerializer_DuplicateFormat(t *testing.T) {
	r := New()

	require.NoError(t, r.RegisterSerializer(stubSerializer{id: "a", format: "json"}))

	err := r.RegisterSerializer(stubSerializer{id: "b", format: "json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateFormat)
}

func TestRegistry_SerializerFor_UnknownFormat(t *testing.T) {
	r := New()

	_, err := r.SerializerFor("yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRegistry_FindCompositeHandler(t *testing.T) {
	r := New()
	RegisterDefaults(r)

	branch := builder.NewIf("if", builder.Config{Name: "Check"})
	composite := branch.OnTrue(builder.NewNode("set", builder.Config{}))

	handler, ok := r.FindCompositeHandler(composite)
	require.True(t, ok)
	assert.Equal(t, "ifelse", handler.ID())

	_, ok = r.FindCompositeHandler(builder.NewNode("set", builder.Config{}))
	assert.False(t, ok)
}

func TestRegistry_ResolveCompositeHeadName(t *testing.T) {
	r := New()
	RegisterDefaults(r)

	branch := builder.NewIf("if", builder.Config{Name: "Check"})
	composite := branch.OnTrue(builder.NewNode("set", builder.Config{}))

	// Rename map wins over the node's own name.
	name, ok := r.ResolveCompositeHeadName(composite, map[string]string{branch.ID: "Check 1"})
	require.True(t, ok)
	assert.Equal(t, "Check 1", name)

	// Legacy fallback without a mapping entry.
	name, ok = r.ResolveCompositeHeadName(composite, map[string]string{})
	require.True(t, ok)
	assert.Equal(t, "Check", name)

	_, ok = r.ResolveCompositeHeadName(builder.NewNode("set", builder.Config{}), nil)
	assert.False(t, ok)
}

func TestRegistry_ClearAll(t *testing.T) {
	r := New()
	RegisterDefaults(r)

	r.ClearAll()

	assert.Empty(t, r.Validators())
	assert.Empty(t, r.CompositeHandlers())

	_, err := r.SerializerFor("json")
	assert.Error(t, err)
}

func TestDefault_SharedInstanceHasBuiltins(t *testing.T) {
	r := Default()

	assert.Same(t, r, Default())

	_, err := r.SerializerFor("json")
	assert.NoError(t, err)

	loop := builder.NewLoop("splitInBatches", builder.Config{Name: "Batch"})
	composite := loop.OnEachBatch(builder.NewNode("set", builder.Config{}))

	handler, ok := r.FindCompositeHandler(composite)
	require.True(t, ok)
	assert.Equal(t, "splitinbatches", handler.ID())
}
