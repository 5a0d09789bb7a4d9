// Package models defines the canonical wire format for assembled
// workflow graphs and the shared validation result types.
package models

// TargetRef identifies one end of a resolved connection: the target
// node's final name, the connection type, and the target input index.
type TargetRef struct {
	Node  string `json:"node"`
	Type  string `json:"type"`
	Index int    `json:"index"`
}

// NodeConnections maps a connection type to its output-index-ordered
// target lists. The outer slice is indexed by output port; unused lower
// ports hold empty lists so indices stay positional.
type NodeConnections map[string][][]TargetRef

// NodeJSON is the canonical descriptor of one workflow step.
type NodeJSON struct {
	ID               string         `json:"id"`
	Name             string         `json:"name,omitempty"`
	Type             string         `json:"type"        validate:"required"`
	TypeVersion      float64        `json:"typeVersion"`
	Position         [2]float64     `json:"position"`
	Parameters       map[string]any `json:"parameters"`
	Credentials      map[string]any `json:"credentials,omitempty"`
	Disabled         bool           `json:"disabled,omitempty"`
	Notes            string         `json:"notes,omitempty"`
	NotesInFlow      bool           `json:"notesInFlow,omitempty"`
	ExecuteOnce      bool           `json:"executeOnce,omitempty"`
	RetryOnFail      bool           `json:"retryOnFail,omitempty"`
	AlwaysOutputData bool           `json:"alwaysOutputData,omitempty"`
	OnError          string         `json:"onError,omitempty"`
}

// WorkflowJSON is the canonical wire format consumed by the external
// execution engine. Connections are keyed by the source node's final
// name, never by id, so id regeneration cannot orphan an edge.
type WorkflowJSON struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name" validate:"required"`
	Nodes       []NodeJSON                 `json:"nodes"       validate:"dive"`
	Connections map[string]NodeConnections `json:"connections"`
	Settings    map[string]any             `json:"settings,omitempty"`
	PinData     map[string]any             `json:"pinData,omitempty"`
	Meta        map[string]any             `json:"meta,omitempty"`
}

// NodeByName returns the descriptor with the given name, if present.
func (w *WorkflowJSON) NodeByName(name string) (*NodeJSON, bool) {
	for i := range w.Nodes {
		if w.Nodes[i].Name == name {
			return &w.Nodes[i], true
		}
	}

	return nil, false
}
