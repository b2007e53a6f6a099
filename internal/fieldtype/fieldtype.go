// Package fieldtype implements the Field Type Registry (component A): a
// closed set of field kinds, each with validate/serialize/deserialize/
// default semantics, invoked uniformly by the Blueprint Engine (B).
//
// Import Path: github.com/shepherd-cms/corepress/internal/fieldtype
package fieldtype

import (
	"fmt"
	"sync"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// FieldError is a single validation failure. Field is left empty by
// handlers; the Blueprint Engine tags it with the owning field's key
// before returning results to the caller.
type FieldError struct {
	Field   string
	Message string
}

// Options is the kind-specific configuration attached to a field
// definition (e.g. select's option list, media's multiple flag).
type Options map[string]any

// Handler implements the four operations of spec §4.1 for one field kind.
type Handler interface {
	Kind() domain.FieldKind
	Validate(value any, rules []domain.ValidationRule, options Options) []FieldError
	Serialize(value any) (any, error)
	Deserialize(raw any) (any, error)
	Default(options Options) any
}

// Registry is a lookup table of field kind handlers. Built-in kinds are
// registered once by NewRegistry and cannot be overridden; plugins may
// register additional kinds (§4.6) but never replace a built-in.
type Registry struct {
	mu       sync.RWMutex
	handlers map[domain.FieldKind]Handler
	builtin  map[domain.FieldKind]bool
}

// NewRegistry constructs a Registry pre-populated with the 18 built-in
// kind handlers. Deliberately not a package-level global: each call site
// (and each plugin test) gets an isolated registry, avoiding the
// init-order races §5 warns about.
func NewRegistry() *Registry {
	r := &Registry{
		handlers: make(map[domain.FieldKind]Handler),
		builtin:  make(map[domain.FieldKind]bool),
	}
	for _, h := range builtinHandlers() {
		r.handlers[h.Kind()] = h
		r.builtin[h.Kind()] = true
	}
	return r
}

// Register adds a handler for a new kind. Returns an error if the kind is
// already registered as a built-in.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.builtin[h.Kind()] {
		return fmt.Errorf("fieldtype: cannot override built-in kind %q", h.Kind())
	}
	r.handlers[h.Kind()] = h
	return nil
}

// Lookup returns the handler for kind, if registered.
func (r *Registry) Lookup(kind domain.FieldKind) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[kind]
	return h, ok
}

func builtinHandlers() []Handler {
	return []Handler{
		newTextHandler(domain.FieldKindText),
		newTextHandler(domain.FieldKindTextarea),
		newTextHandler(domain.FieldKindRichText),
		numberHandler{},
		booleanHandler{},
		newDateHandler(domain.FieldKindDate),
		newDateHandler(domain.FieldKindDateTime),
		slugHandler{},
		emailHandler{},
		urlHandler{},
		selectHandler{},
		multiselectHandler{},
		jsonHandler{},
		mediaHandler{},
		relationHandler{},
		colorHandler{},
		locationHandler{},
		referenceHandler{},
	}
}

// isEmptyString reports whether v is the empty-string sentinel used by
// several kinds to mean "no value" for non-required fields.
func isEmptyString(v any) bool {
	s, ok := v.(string)
	return ok && s == ""
}

func ruleValue(rules []domain.ValidationRule, name string) (any, bool) {
	for _, r := range rules {
		if r.Name == name {
			return r.Value, true
		}
	}
	return nil, false
}

func boolOption(o Options, key string) bool {
	if o == nil {
		return false
	}
	b, _ := o[key].(bool)
	return b
}
