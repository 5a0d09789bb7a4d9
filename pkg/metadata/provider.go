// Package metadata defines the boundary to the external node-type
// catalog. The builder core never requires a provider: validators that
// consume metadata skip their checks when none is configured.
package metadata

import "fmt"

// Description carries the catalog facts validators consume.
type Description struct {
	DisplayName string         `json:"displayName,omitempty"`
	MaxNodes    int            `json:"maxNodes,omitempty"` // 0 means unlimited
	Properties  map[string]any `json:"properties,omitempty"`
}

// NodeType is one catalog entry for a (type, version) pair.
type NodeType struct {
	Description Description `json:"description"`
}

// Provider resolves node-type metadata by type tag and version.
type Provider interface {
	GetByNameAndVersion(nodeType string, version float64) (*NodeType, error)
}

// StaticProvider is an in-memory Provider keyed by type tag. Versions
// are not distinguished; the latest registered entry wins.
type StaticProvider struct {
	types map[string]*NodeType
}

// NewStaticProvider creates an empty in-memory provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{types: map[string]*NodeType{}}
}

// Register adds or replaces the catalog entry for nodeType.
func (p *StaticProvider) Register(nodeType string, entry *NodeType) {
	p.types[nodeType] = entry
}

// GetByNameAndVersion implements Provider.
func (p *StaticProvider) GetByNameAndVersion(nodeType string, _ float64) (*NodeType, error) {
	entry, ok := p.types[nodeType]
	if !ok {
		return nil, fmt.Errorf("node type %q not registered", nodeType)
	}

	return entry, nil
}
