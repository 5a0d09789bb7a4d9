package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/mbraga/flowsmith/pkg/builder"
	"github.com/mbraga/flowsmith/pkg/log"
)

// Static error variables for registration and lookup failures.
var (
	ErrDuplicatePlugin = errors.New("plugin id already registered")
	ErrDuplicateFormat = errors.New("serializer format already registered")
	ErrUnknownFormat   = errors.New("no serializer registered for format")
)

// Registry holds three independent id-keyed plugin tables. Each table is
// returned priority-sorted, descending, with registration order breaking
// ties. Registration is mutex-guarded so concurrent duplicate
// registration fails deterministically instead of racing.
type Registry struct {
	mu          sync.RWMutex
	logger      *slog.Logger
	validators  []Validator
	handlers    []CompositeHandler
	serializers []Serializer
	formats     map[string]Serializer
}

// New creates an empty registry. Isolated instances are freely
// constructible for testing; Default returns the shared one.
func New() *Registry {
	return &Registry{
		logger:  log.WithModule("registry"),
		formats: map[string]Serializer{},
	}
}

// RegisterValidator adds a validator; duplicate ids are rejected.
func (r *Registry) RegisterValidator(v Validator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.validators {
		if existing.ID() == v.ID() {
			return fmt.Errorf("validator %q: %w", v.ID(), ErrDuplicatePlugin)
		}
	}

	r.validators = append(r.validators, v)
	r.logger.Debug("Registered validator", "id", v.ID(), "priority", v.Priority())

	return nil
}

// RegisterCompositeHandler adds a composite handler; duplicate ids are
// rejected.
func (r *Registry) RegisterCompositeHandler(h CompositeHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.handlers {
		if existing.ID() == h.ID() {
			return fmt.Errorf("composite handler %q: %w", h.ID(), ErrDuplicatePlugin)
		}
	}

	r.handlers = append(r.handlers, h)
	r.logger.Debug("Registered composite handler", "id", h.ID(), "priority", h.Priority())

	return nil
}

// RegisterSerializer adds a serializer; duplicate ids and duplicate
// formats are both rejected.
func (r *Registry) RegisterSerializer(s Serializer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.serializers {
		if existing.ID() == s.ID() {
			return fmt.Errorf("serializer %q: %w", s.ID(), ErrDuplicatePlugin)
		}
	}

	if _, taken := r.formats[s.Format()]; taken {
		return fmt.Errorf("format %q: %w", s.Format(), ErrDuplicateFormat)
	}

	r.serializers = append(r.serializers, s)
	r.formats[s.Format()] = s
	r.logger.Debug("Registered serializer", "id", s.ID(), "format", s.Format())

	return nil
}

// Validators returns every validator, priority-sorted.
func (r *Registry) Validators() []Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedByPriority(r.validators, Validator.Priority)
}

// ValidatorsForNodeType returns, priority-sorted, the validators that
// apply to the given node type. Validators with an empty type filter
// apply to every node.
func (r *Registry) ValidatorsForNodeType(nodeType string) []Validator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Validator, 0, len(r.validators))

	for _, v := range r.validators {
		types := v.NodeTypes()
		if len(types) == 0 {
			matched = append(matched, v)

			continue
		}

		for _, t := range types {
			if t == nodeType {
				matched = append(matched, v)

				break
			}
		}
	}

	return sortedByPriority(matched, Validator.Priority)
}

// CompositeHandlers returns every composite handler, priority-sorted.
func (r *Registry) CompositeHandlers() []CompositeHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedByPriority(r.handlers, CompositeHandler.Priority)
}

// FindCompositeHandler returns the first handler, in priority order,
// whose type guard accepts ref.
func (r *Registry) FindCompositeHandler(ref builder.Ref) (CompositeHandler, bool) {
	for _, h := range r.CompositeHandlers() {
		if h.Accepts(ref) {
			return h, true
		}
	}

	return nil, false
}

// ResolveCompositeHeadName resolves the final graph key of a composite's
// control node. When nameByID (node id to renamed key) knows the node,
// the renamed key wins; otherwise the node's own name is the legacy
// fallback. Non-composite refs resolve to nothing.
func (r *Registry) ResolveCompositeHeadName(ref builder.Ref, nameByID map[string]string) (string, bool) {
	h, ok := r.FindCompositeHandler(ref)
	if !ok {
		return "", false
	}

	head := h.Head(ref)
	if head == nil {
		return "", false
	}

	if nameByID != nil {
		if key, known := nameByID[head.ID]; known {
			return key, true
		}
	}

	return head.Name, true
}

// SerializerFor returns the serializer registered for format.
func (r *Registry) SerializerFor(format string) (Serializer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return s, nil
}

// ClearAll resets every table.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.validators = nil
	r.handlers = nil
	r.serializers = nil
	r.formats = map[string]Serializer{}
}

func sortedByPriority[T any](items []T, priority func(T) int) []T {
	out := append([]T(nil), items...)

	sort.SliceStable(out, func(i, j int) bool {
		return priority(out[i]) > priority(out[j])
	})

	return out
}
