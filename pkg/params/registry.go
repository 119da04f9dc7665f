package params

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry is the per-method store of parameter descriptors.
//
// It is populated once while handler types are defined, then sealed and
// read by any number of dispatchers. Stores are append-only: no descriptor
// is ever replaced or removed.
type Registry struct {
	mu       sync.RWMutex
	store    map[MethodKey][]Descriptor
	sealed   bool
	resolver TypeResolver
	logger   *slog.Logger
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithLogger sets the logger used for declaration diagnostics
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolver replaces the reflection-based type resolver
func WithResolver(resolver TypeResolver) RegistryOption {
	return func(r *Registry) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		store:    make(map[MethodKey][]Descriptor),
		resolver: ReflectResolver{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply attaches d to parameter index of method on owner.
//
// The returned error may be a warning (TypeResolutionError,
// DuplicateIndexError) in which case the descriptor was stored anyway;
// use IsWarning to tell them apart from hard failures.
func (r *Registry) Apply(owner any, method string, index int, d Declarator) error {
	key := KeyOf(owner, method)
	if index < 0 {
		return &InvalidIndexError{Key: key, Index: index, Count: -1}
	}

	types, err := r.resolver.ParamTypes(ownerType(owner), method)
	if err != nil {
		return r.append(key, UnknownType, index, d, &TypeResolutionError{Key: key, Index: index, Cause: err})
	}
	return r.applyResolved(key, types, index, d)
}

// ApplyKey attaches d using parameter types the caller already knows.
// A nil types slice means the types are unavailable.
func (r *Registry) ApplyKey(key MethodKey, types []TypeRef, index int, d Declarator) error {
	if index < 0 {
		return &InvalidIndexError{Key: key, Index: index, Count: -1}
	}
	if types == nil {
		return r.append(key, UnknownType, index, d, &TypeResolutionError{Key: key, Index: index})
	}
	return r.applyResolved(key, types, index, d)
}

func (r *Registry) applyResolved(key MethodKey, types []TypeRef, index int, d Declarator) error {
	if index >= len(types) {
		return &InvalidIndexError{Key: key, Index: index, Count: len(types)}
	}
	return r.append(key, types[index], index, d, nil)
}

func (r *Registry) append(key MethodKey, ref TypeRef, index int, d Declarator, typeErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("declare %s on %s: %w", d.source, key, ErrSealed)
	}

	existing := r.store[key]
	desc := d.descriptor(ref, index)

	var dupErr error
	sources := []Source{}
	for _, prev := range existing {
		if prev.Index == index {
			sources = append(sources, prev.Source)
		}
	}
	if len(sources) > 0 {
		dupErr = &DuplicateIndexError{Key: key, Index: index, Sources: append(sources, desc.Source)}
		r.logger.Warn("duplicate parameter declaration",
			"method", key.String(), "index", index, "source", desc.Source.String())
	}
	if typeErr != nil {
		r.logger.Warn("parameter type unresolved", "method", key.String(), "index", index, "error", typeErr)
	}

	r.store[key] = append(existing, desc)
	r.logger.Debug("parameter declared",
		"method", key.String(), "index", index, "source", desc.Source.String(),
		"name", desc.Name, "type", desc.Type.String())

	return errors.Join(typeErr, dupErr)
}

// Declare applies each binding to method on owner in order and joins the errors
func (r *Registry) Declare(owner any, method string, bindings ...Binding) error {
	var errs []error
	for _, b := range bindings {
		if err := r.Apply(owner, method, b.Index, b.Declarator); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Params returns the descriptors declared for method on owner, in store order
func (r *Registry) Params(owner any, method string) []Descriptor {
	return r.ParamsFor(KeyOf(owner, method))
}

// ParamsFor returns a copy of the descriptors stored under key.
// The result is never nil.
func (r *Registry) ParamsFor(key MethodKey) []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.store[key]
	out := make([]Descriptor, len(stored))
	for i, d := range stored {
		out[i] = d.clone()
	}
	return out
}

// Methods returns every method with at least one declaration, sorted
func (r *Registry) Methods() []MethodKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]MethodKey, 0, len(r.store))
	for key := range r.store {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Duplicates returns one DuplicateIndexError per ambiguous parameter position
func (r *Registry) Duplicates() []*DuplicateIndexError {
	var dups []*DuplicateIndexError
	for _, key := range r.Methods() {
		bySlot := make(map[int][]Source)
		var slots []int
		for _, d := range r.ParamsFor(key) {
			if _, seen := bySlot[d.Index]; !seen {
				slots = append(slots, d.Index)
			}
			bySlot[d.Index] = append(bySlot[d.Index], d.Source)
		}
		sort.Ints(slots)
		for _, slot := range slots {
			if len(bySlot[slot]) > 1 {
				dups = append(dups, &DuplicateIndexError{Key: key, Index: slot, Sources: bySlot[slot]})
			}
		}
	}
	return dups
}

// Seal ends the declaration phase. Later declarations fail with ErrSealed.
// Duplicate parameter positions make Seal fail so startup can abort.
func (r *Registry) Seal() error {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()

	var errs []error
	for _, dup := range r.Duplicates() {
		errs = append(errs, dup)
	}
	return errors.Join(errs...)
}

// Sealed reports whether Seal was called
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}
