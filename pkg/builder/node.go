package builder

import (
	"dario.cat/mergo"
	"github.com/google/uuid"
)

// Kind tags a node with the builder variant it supports. Only the
// matching variant exposes the corresponding fluent methods.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindTrigger Kind = "trigger"
	KindBranch  Kind = "branch"
	KindSwitch  Kind = "switch"
	KindLoop    Kind = "loop"
)

// ConnectionMain is the default connection type carrying item data
// between nodes. Subnode attachments use their own connection types.
const ConnectionMain = "main"

// switchErrorOutputFallback is the error output index assumed for switch
// nodes that do not declare an output count in their parameters.
const switchErrorOutputFallback = 4

// Config carries the optional settings accepted by the node constructors.
type Config struct {
	ID               string
	Name             string
	TypeVersion      float64
	Parameters       map[string]any
	Credentials      map[string]any
	Position         *[2]float64
	Disabled         bool
	Notes            string
	NotesInFlow      bool
	ExecuteOnce      bool
	RetryOnFail      bool
	AlwaysOutputData bool
	OnFail           string
}

// Patch is the partial update accepted by Update. Nil pointer fields are
// left untouched; Parameters and Credentials are deep-merged over the
// existing maps.
type Patch struct {
	ID               string
	Name             string
	TypeVersion      float64
	Parameters       map[string]any
	Credentials      map[string]any
	Position         *[2]float64
	Disabled         *bool
	Notes            *string
	NotesInFlow      *bool
	ExecuteOnce      *bool
	RetryOnFail      *bool
	AlwaysOutputData *bool
	OnFail           *string
}

// Edge is one declared outgoing connection. The target may stay
// unresolved until the node joins a workflow.
type Edge struct {
	Target      Ref
	OutputIndex int
}

// Attachment declares a subnode dependency wired into the owning node
// over a dedicated connection type (for example "ai_languageModel").
// On assembly the attached node is registered alongside its owner and
// the edge runs from the attachment into the owner.
type Attachment struct {
	Node *Node
	Type string
}

// Node is one workflow step. Its identity fields are immutable except
// through Update, which returns a new value; declared connections
// accumulate in an append-only log read once at assembly time.
type Node struct {
	ID          string
	Type        string
	TypeVersion float64
	Name        string
	Kind        Kind

	Parameters  map[string]any
	Credentials map[string]any
	Position    *[2]float64

	Disabled         bool
	Notes            string
	NotesInFlow      bool
	ExecuteOnce      bool
	RetryOnFail      bool
	AlwaysOutputData bool
	OnFail           string

	connectable bool
	edges       []Edge
	attachments []Attachment
}

func (*Node) ref() {}

// NewNode creates a plain action node.
func NewNode(nodeType string, cfg Config) *Node {
	return newNode(KindPlain, nodeType, cfg)
}

// NewTrigger creates a trigger node, the entry point of a workflow.
func NewTrigger(nodeType string, cfg Config) *Node {
	return newNode(KindTrigger, nodeType, cfg)
}

// NewIf creates a two-way branch node exposing OnTrue and OnFalse.
func NewIf(nodeType string, cfg Config) *Node {
	return newNode(KindBranch, nodeType, cfg)
}

// NewSwitch creates a multi-way switch node exposing OnCase.
func NewSwitch(nodeType string, cfg Config) *Node {
	return newNode(KindSwitch, nodeType, cfg)
}

// NewLoop creates a batched loop node exposing OnEachBatch and OnDone.
func NewLoop(nodeType string, cfg Config) *Node {
	return newNode(KindLoop, nodeType, cfg)
}

func newNode(kind Kind, nodeType string, cfg Config) *Node {
	node := &Node{
		ID:               cfg.ID,
		Type:             nodeType,
		TypeVersion:      cfg.TypeVersion,
		Name:             cfg.Name,
		Kind:             kind,
		Parameters:       cfg.Parameters,
		Credentials:      cfg.Credentials,
		Position:         cfg.Position,
		Disabled:         cfg.Disabled,
		Notes:            cfg.Notes,
		NotesInFlow:      cfg.NotesInFlow,
		ExecuteOnce:      cfg.ExecuteOnce,
		RetryOnFail:      cfg.RetryOnFail,
		AlwaysOutputData: cfg.AlwaysOutputData,
		OnFail:           cfg.OnFail,
		connectable:      true,
	}

	if node.ID == "" {
		node.ID = uuid.NewString()
	}

	if node.Name == "" {
		node.Name = nodeType
	}

	if node.TypeVersion == 0 {
		node.TypeVersion = 1
	}

	if node.Parameters == nil {
		node.Parameters = map[string]any{}
	}

	return node
}

// To declares an edge from this node to target at the given output index
// (default 0). The target may be a single node, a Group for fan-out, or
// an InputTarget pinning the destination's input port. The returned
// chain ends at the last target.
func (n *Node) To(target Ref, outputIndex ...int) *Chain {
	n.mustConnect("To")

	if emptyGroup(target) {
		panic(&UsageError{Op: "To", Node: n.Name, Kind: n.Kind, Reason: "target group is empty"})
	}

	index := 0
	if len(outputIndex) > 0 {
		index = outputIndex[0]
	}

	n.edges = append(n.edges, Edge{Target: target, OutputIndex: index})

	return newChain(n, target)
}

// Input pins this node's input port at the given index. Connecting to
// the result targets that specific port, which multi-input nodes such as
// merge require.
func (n *Node) Input(index int) *InputTarget {
	return &InputTarget{Node: n, Index: index}
}

// Output selects this node's output port at the given index; To on the
// selector is equivalent to To(target, index) on the node.
func (n *Node) Output(index int) *OutputSelector {
	return &OutputSelector{Node: n, Index: index}
}

// OnError declares an edge from this node's error output to handler.
func (n *Node) OnError(handler Ref) *Chain {
	return n.To(handler, n.ErrorOutputIndex())
}

// ErrorOutputIndex derives the error output port from the node kind:
// plain nodes use 1, branch nodes 2, and switch nodes their configured
// output count.
func (n *Node) ErrorOutputIndex() int {
	switch n.Kind {
	case KindBranch:
		return 2
	case KindSwitch:
		if count, ok := intParam(n.Parameters["numberOutputs"]); ok && count > 0 {
			return count
		}

		return switchErrorOutputFallback
	default:
		return 1
	}
}

// OnTrue starts a branch composite routing output 0 to target. Only
// branch nodes support it.
func (n *Node) OnTrue(target Ref) *IfElse {
	n.mustKind(KindBranch, "OnTrue")
	n.mustConnect("OnTrue")

	return &IfElse{ControlNode: n, True: target}
}

// OnFalse starts a branch composite routing output 1 to target. Only
// branch nodes support it.
func (n *Node) OnFalse(target Ref) *IfElse {
	n.mustKind(KindBranch, "OnFalse")
	n.mustConnect("OnFalse")

	return &IfElse{ControlNode: n, False: target}
}

// OnCase starts a switch composite routing the given case output to
// target. Only switch nodes support it; indices may be sparse.
func (n *Node) OnCase(index int, target Ref) *SwitchCase {
	n.mustKind(KindSwitch, "OnCase")
	n.mustConnect("OnCase")

	return &SwitchCase{ControlNode: n, Cases: map[int]Ref{index: target}}
}

// OnEachBatch starts a loop composite routing the per-batch output to
// target. Only loop nodes support it.
func (n *Node) OnEachBatch(target Ref) *SplitInBatches {
	n.mustKind(KindLoop, "OnEachBatch")
	n.mustConnect("OnEachBatch")

	return &SplitInBatches{ControlNode: n, Each: target}
}

// OnDone starts a loop composite routing the completion output to
// target. Only loop nodes support it.
func (n *Node) OnDone(target Ref) *SplitInBatches {
	n.mustKind(KindLoop, "OnDone")
	n.mustConnect("OnDone")

	return &SplitInBatches{ControlNode: n, Done: target}
}

// Attach declares a subnode dependency over the given connection type.
// It returns the node itself for chaining.
func (n *Node) Attach(sub *Node, connectionType string) *Node {
	n.mustConnect("Attach")
	n.attachments = append(n.attachments, Attachment{Node: sub, Type: connectionType})

	return n
}

// Update returns a new node with the patch applied. Identity, declared
// edges and attachments carry over unless overridden; parameter and
// credential maps are deep-merged.
func (n *Node) Update(patch Patch) *Node {
	clone := *n
	clone.edges = append([]Edge(nil), n.edges...)
	clone.attachments = append([]Attachment(nil), n.attachments...)

	if patch.ID != "" {
		clone.ID = patch.ID
	}

	if patch.Name != "" {
		clone.Name = patch.Name
	}

	if patch.TypeVersion != 0 {
		clone.TypeVersion = patch.TypeVersion
	}

	if patch.Parameters != nil {
		clone.Parameters = mergeMaps(n.Parameters, patch.Parameters)
	}

	if patch.Credentials != nil {
		clone.Credentials = mergeMaps(n.Credentials, patch.Credentials)
	}

	if patch.Position != nil {
		clone.Position = patch.Position
	}

	if patch.Disabled != nil {
		clone.Disabled = *patch.Disabled
	}

	if patch.Notes != nil {
		clone.Notes = *patch.Notes
	}

	if patch.NotesInFlow != nil {
		clone.NotesInFlow = *patch.NotesInFlow
	}

	if patch.ExecuteOnce != nil {
		clone.ExecuteOnce = *patch.ExecuteOnce
	}

	if patch.RetryOnFail != nil {
		clone.RetryOnFail = *patch.RetryOnFail
	}

	if patch.AlwaysOutputData != nil {
		clone.AlwaysOutputData = *patch.AlwaysOutputData
	}

	if patch.OnFail != nil {
		clone.OnFail = *patch.OnFail
	}

	return &clone
}

// Edges returns the declared connection log in declaration order.
func (n *Node) Edges() []Edge {
	return n.edges
}

// Attachments returns the declared subnode dependencies.
func (n *Node) Attachments() []Attachment {
	return n.attachments
}

// Connectable reports whether the node may declare new connections.
// Nodes reconstructed from serialized form are terminal snapshots.
func (n *Node) Connectable() bool {
	return n.connectable
}

// Freeze marks the node as a terminal snapshot: any further
// edge-declaring operation panics with a UsageError.
func (n *Node) Freeze() *Node {
	n.connectable = false

	return n
}

func mergeMaps(base, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(base))
	if err := mergo.Merge(&merged, base); err != nil {
		panic(&UsageError{Op: "Update", Reason: err.Error()})
	}

	if err := mergo.Merge(&merged, patch, mergo.WithOverride); err != nil {
		panic(&UsageError{Op: "Update", Reason: err.Error()})
	}

	return merged
}

func intParam(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}

	return 0, false
}
