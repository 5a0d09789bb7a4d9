package registry

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared process-wide registry with the built-in
// plugins registered. It is read-mostly state: registration happens once
// at startup; construction-time callers only look plugins up.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = New()
		RegisterDefaults(defaultRegistry)
	})

	return defaultRegistry
}

// RegisterDefaults installs the built-in composite handlers, the
// canonical JSON serializer and the core validators into r.
func RegisterDefaults(r *Registry) {
	must(r.RegisterCompositeHandler(IfElseHandler{}))
	must(r.RegisterCompositeHandler(SwitchCaseHandler{}))
	must(r.RegisterCompositeHandler(SplitInBatchesHandler{}))
	must(r.RegisterSerializer(JSONSerializer{}))
	must(r.RegisterValidator(NodeLimitValidator{}))
	must(r.RegisterValidator(ParametersSchemaValidator{}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
