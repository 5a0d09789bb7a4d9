// Package workflow assembles builder nodes and composites into the
// canonical graph: it resolves name collisions and connection targets,
// assigns deterministic identifiers, and serializes to the wire format
// the external execution engine consumes.
package workflow

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/metadata"
	"github.com/mbraga/flowsmith/pkg/models"
	"github.com/mbraga/flowsmith/pkg/registry"
)

// graphNode is one assembled step, keyed by its final name. Builder
// nodes keep their live pointer so edges declared after Add still
// materialize; imported nodes keep their verbatim wire descriptor.
type graphNode struct {
	key      string
	node     *builder.Node
	imported bool
	raw      models.NodeJSON
}

// resolvedEdge is a fully resolved connection between two final keys.
type resolvedEdge struct {
	sourceKey   string
	connType    string
	outputIndex int
	targetKey   string
	inputIndex  int
}

// LayoutFunc supplies a position for the i-th node when the author set
// none.
type LayoutFunc func(index int) [2]float64

// Builder accumulates nodes and composites into the canonical graph.
// One builder is a single-writer value for one construction session;
// concurrent mutation is unsupported.
type Builder struct {
	id       string
	name     string
	settings map[string]any
	pinData  map[string]any
	meta     map[string]any

	registry *registry.Registry
	metadata metadata.Provider
	layout   LayoutFunc

	nodes    map[string]*graphNode
	order    []string
	nameByID map[string]string
	edges    []resolvedEdge
	current  string
	errs     []error
}

// Option configures a Builder.
type Option func(*Builder)

// WithRegistry sets a custom plugin registry. It is consulted before the
// shared default for composite handlers and serializers, and replaces
// the default validator set.
func WithRegistry(r *registry.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithMetadata sets the node-type metadata provider consumed by
// validator plugins. Without one, metadata-backed checks are skipped.
func WithMetadata(p metadata.Provider) Option {
	return func(b *Builder) { b.metadata = p }
}

// WithSettings sets the workflow settings block.
func WithSettings(settings map[string]any) Option {
	return func(b *Builder) { b.settings = settings }
}

// WithPinData sets the workflow pin data block.
func WithPinData(pinData map[string]any) Option {
	return func(b *Builder) { b.pinData = pinData }
}

// WithMeta sets the workflow meta block.
func WithMeta(meta map[string]any) Option {
	return func(b *Builder) { b.meta = meta }
}

// WithAutoLayout overrides the fallback position assignment for nodes
// the author never placed.
func WithAutoLayout(layout LayoutFunc) Option {
	return func(b *Builder) { b.layout = layout }
}

// New creates a workflow builder. An empty id gets a fresh UUID.
func New(id, name string, opts ...Option) *Builder {
	b := &Builder{
		id:       id,
		name:     name,
		layout:   defaultLayout,
		nodes:    map[string]*graphNode{},
		nameByID: map[string]string{},
	}

	if b.id == "" {
		b.id = uuid.NewString()
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func defaultLayout(index int) [2]float64 {
	return [2]float64{float64(250 * index), 0}
}

// ID returns the workflow id.
func (b *Builder) ID() string {
	return b.id
}

// Name returns the workflow name.
func (b *Builder) Name() string {
	return b.name
}

// CurrentKey returns the final key chaining continues from, which is the
// last node or composite control added.
func (b *Builder) CurrentKey() string {
	return b.current
}

// NodeKeys returns the final node keys in insertion order.
func (b *Builder) NodeKeys() []string {
	return append([]string(nil), b.order...)
}

// NodeFor returns the node registered under the given final key.
func (b *Builder) NodeFor(key string) (*builder.Node, bool) {
	gn, ok := b.nodes[key]
	if !ok {
		return nil, false
	}

	return gn.node, true
}

// KeyFor returns the final (possibly renamed) key of a node that joined
// the workflow.
func (b *Builder) KeyFor(node *builder.Node) (string, bool) {
	key, ok := b.nameByID[node.ID]

	return key, ok
}

// Add inserts a node, chain, group or composite into the graph. This is
// the only operation that mutates graph state: composites are expanded
// through their handler plugin, name collisions are resolved, and the
// control (or last) node becomes the current node for To chaining.
func (b *Builder) Add(ref builder.Ref) *Builder {
	key, err := b.addRef(ref)
	if err != nil {
		b.errs = append(b.errs, err)

		return b
	}

	if key != "" {
		b.current = key
	}

	return b
}

// To inserts target and wires the current node's output (default 0) to
// target's entry points, then continues from target.
func (b *Builder) To(target builder.Ref, outputIndex ...int) *Builder {
	source := b.current

	index := 0
	if len(outputIndex) > 0 {
		index = outputIndex[0]
	}

	b.Add(target)

	if source == "" {
		return b
	}

	entries, err := b.entryPoints(target)
	if err != nil {
		b.errs = append(b.errs, err)

		return b
	}

	for _, entry := range entries {
		b.Connect(source, builder.ConnectionMain, index, entry)
	}

	return b
}

func (b *Builder) addRef(ref builder.Ref) (string, error) {
	switch v := ref.(type) {
	case nil:
		return "", nil
	case *builder.Node:
		return b.RegisterNode(v), nil
	case *builder.InputTarget:
		return b.RegisterNode(v.Node), nil
	case *builder.OutputSelector:
		return b.RegisterNode(v.Node), nil
	case *builder.Chain:
		last := ""

		for _, item := range v.Items() {
			key, err := b.addRef(item)
			if err != nil {
				return "", err
			}

			if key != "" {
				last = key
			}
		}

		return last, nil
	case builder.Group:
		last := ""

		for _, item := range v {
			key, err := b.addRef(item)
			if err != nil {
				return "", err
			}

			if key != "" {
				last = key
			}
		}

		return last, nil
	default:
		if handler, ok := b.findCompositeHandler(ref); ok {
			return handler.AddNodes(ref, b)
		}

		return "", fmt.Errorf("workflow: no composite handler accepts %T", ref)
	}
}

// RegisterNode implements registry.AssemblyContext. Registering the same
// node twice is a no-op returning the existing key; a fresh node whose
// desired name is taken gets the smallest unused integer suffix.
func (b *Builder) RegisterNode(node *builder.Node) string {
	if key, ok := b.nameByID[node.ID]; ok {
		return key
	}

	key := b.uniqueKey(node.Name)
	b.nameByID[node.ID] = key
	b.nodes[key] = &graphNode{key: key, node: node}
	b.order = append(b.order, key)

	for _, attachment := range node.Attachments() {
		subKey := b.RegisterNode(attachment.Node)
		b.edges = append(b.edges, resolvedEdge{
			sourceKey: subKey,
			connType:  attachment.Type,
			targetKey: key,
		})
	}

	return key
}

// AddBranch implements registry.AssemblyContext.
func (b *Builder) AddBranch(ref builder.Ref) ([]registry.Entry, error) {
	if ref == nil {
		return nil, nil
	}

	if _, err := b.addRef(ref); err != nil {
		return nil, err
	}

	return b.entryPoints(ref)
}

// Connect implements registry.AssemblyContext.
func (b *Builder) Connect(sourceKey, connectionType string, outputIndex int, target registry.Entry) {
	b.edges = append(b.edges, resolvedEdge{
		sourceKey:   sourceKey,
		connType:    connectionType,
		outputIndex: outputIndex,
		targetKey:   target.Key,
		inputIndex:  target.InputIndex,
	})
}

// entryPoints resolves the entry keys a connection into ref should
// target. Callers must have added ref already.
func (b *Builder) entryPoints(ref builder.Ref) ([]registry.Entry, error) {
	switch v := ref.(type) {
	case nil:
		return nil, nil
	case *builder.Node:
		key, ok := b.nameByID[v.ID]
		if !ok {
			return nil, &BrokenReferenceError{Target: v.Name}
		}

		return []registry.Entry{{Key: key}}, nil
	case *builder.InputTarget:
		key, ok := b.nameByID[v.Node.ID]
		if !ok {
			return nil, &BrokenReferenceError{Target: v.Node.Name}
		}

		return []registry.Entry{{Key: key, InputIndex: v.Index}}, nil
	case *builder.OutputSelector:
		key, ok := b.nameByID[v.Node.ID]
		if !ok {
			return nil, &BrokenReferenceError{Target: v.Node.Name}
		}

		return []registry.Entry{{Key: key}}, nil
	case *builder.Chain:
		return b.entryPoints(v.Head())
	case builder.Group:
		entries := make([]registry.Entry, 0, len(v))

		for _, item := range v {
			sub, err := b.entryPoints(item)
			if err != nil {
				return nil, err
			}

			entries = append(entries, sub...)
		}

		return entries, nil
	default:
		name, ok := b.resolveHeadName(ref)
		if !ok {
			return nil, &BrokenReferenceError{Target: fmt.Sprintf("%T", ref)}
		}

		if _, exists := b.nodes[name]; !exists {
			return nil, &BrokenReferenceError{Target: name}
		}

		return []registry.Entry{{Key: name}}, nil
	}
}

// uniqueKey resolves a name collision by appending the smallest unused
// integer suffix.
func (b *Builder) uniqueKey(name string) string {
	if name == "" {
		name = "Node"
	}

	candidate := name
	for suffix := 1; ; suffix++ {
		if _, taken := b.nodes[candidate]; !taken {
			return candidate
		}

		candidate = fmt.Sprintf("%s %d", name, suffix)
	}
}

// findCompositeHandler consults the custom registry before the shared
// default.
func (b *Builder) findCompositeHandler(ref builder.Ref) (registry.CompositeHandler, bool) {
	if b.registry != nil {
		if handler, ok := b.registry.FindCompositeHandler(ref); ok {
			return handler, true
		}
	}

	return registry.Default().FindCompositeHandler(ref)
}

// resolveHeadName resolves a composite's control node to its final key
// through the rename map, custom registry first.
func (b *Builder) resolveHeadName(ref builder.Ref) (string, bool) {
	if b.registry != nil {
		if name, ok := b.registry.ResolveCompositeHeadName(ref, b.nameByID); ok {
			return name, true
		}
	}

	return registry.Default().ResolveCompositeHeadName(ref, b.nameByID)
}

func (b *Builder) registryOrDefault() *registry.Registry {
	if b.registry != nil {
		return b.registry
	}

	return registry.Default()
}
