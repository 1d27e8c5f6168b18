package mapping

import (
	"fmt"
	"maps"
	"slices"
)

// Child is a member annotation of a handler, mapped shallowly.
type Child struct {
	Name    string         `json:"name" yaml:"name"`
	Options map[string]any `json:"options" yaml:"options"`
}

// Entry is one function of the registry.
type Entry struct {
	// Name is the unique key of the entry.
	Name string `json:"name" yaml:"name"`
	// Handler is the entry point path, e.g. "orders/api.Handle".
	Handler string `json:"handler" yaml:"handler"`
	// DisplayName is the deployed function name.
	DisplayName string `json:"displayName" yaml:"displayName"`
	// Options is the merged option bag, including "handler". It holds "name"
	// only for a declared function whose name is not a string.
	Options map[string]any `json:"options" yaml:"options"`
	// Handlers are the member annotations of the handler declaration.
	Handlers []Child `json:"handlers,omitempty" yaml:"handlers,omitempty"`
	// Annotation and SourceFile are empty for entries that were declared by
	// hand rather than collected.
	Annotation string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
	SourceFile string `json:"sourceFile,omitempty" yaml:"sourceFile,omitempty"`
}

// Function returns the function definition of the entry:
// the option bag plus the display name, when there is one.
func (e *Entry) Function() map[string]any {
	fn := maps.Clone(e.Options)
	if fn == nil {
		fn = make(map[string]any)
	}

	if e.DisplayName != "" {
		fn["name"] = e.DisplayName
	}

	return fn
}

// Registry holds unique entries in insertion order.
// It is not safe for concurrent use.
type Registry struct {
	entries map[string]*Entry
	order   []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*Entry)}
}

// FromFunctions builds a registry from existing function definitions,
// in name order. Each definition keeps its keys; "handler" and a string
// "name" populate the entry's Handler and DisplayName. A "name" of any other
// type stays in Options.
func FromFunctions(functions map[string]map[string]any) (*Registry, error) {
	r := NewRegistry()
	for _, name := range slices.Sorted(maps.Keys(functions)) {
		def := functions[name]

		opts := maps.Clone(def)
		if opts == nil {
			opts = make(map[string]any)
		}

		display, ok := opts["name"].(string)
		if ok {
			delete(opts, "name")
		}
		handler, _ := opts["handler"].(string)

		if err := r.Insert(&Entry{Name: name, Handler: handler, DisplayName: display, Options: opts}); err != nil {
			return nil, fmt.Errorf("invalid function %q: %w", name, err)
		}
	}

	return r, nil
}

// Insert adds e, failing with ErrDuplicateName if its name is taken.
// A failed insert leaves the registry unchanged.
func (r *Registry) Insert(e *Entry) error {
	if _, ok := r.entries[e.Name]; ok {
		return &EntryError{Kind: ErrDuplicateName, Name: e.Name}
	}

	r.entries[e.Name] = e
	r.order = append(r.order, e.Name)
	return nil
}

// Get returns the entry named name.
func (r *Registry) Get(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Has reports whether an entry named name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns entry names in insertion order.
func (r *Registry) Names() []string {
	return slices.Clone(r.order)
}

// Entries returns the entries in insertion order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name])
	}

	return out
}

// Clone returns a registry with the same entries. Entries are shared.
func (r *Registry) Clone() *Registry {
	return &Registry{
		entries: maps.Clone(r.entries),
		order:   slices.Clone(r.order),
	}
}

// Functions returns the function definitions keyed by entry name.
func (r *Registry) Functions() map[string]map[string]any {
	out := make(map[string]map[string]any, len(r.order))
	for _, e := range r.Entries() {
		out[e.Name] = e.Function()
	}

	return out
}
