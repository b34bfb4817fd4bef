package codec

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/fieldbind/fieldbind"
)

// TryConstruct builds a domain value from an already-decoded primitive.
// The error, when non-nil, may implement fieldbind.Aggregate.
type TryConstruct func(value any, field string) (any, error)

// WrapperFactory produces a property-name-aware converter for one DTO
// property.
type WrapperFactory func(name string) Converter

type entry struct {
	conv      Converter
	wrap      WrapperFactory
	construct TryConstruct
}

// Registry maps value types to their converter, wrapper factory, and raw
// construct delegate. It is the fast path of the pipeline: lookups are a
// single map read, and a hit means no runtime type introspection on the
// hot path. Missing a registration is never a behavior change — callers
// fall back to Fallback, which derives behaviorally identical artifacts
// reflectively.
//
// Registration is first-write-wins, safe under concurrent initializers.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]entry)}
}

// Default is the package-level registry used when no explicit one is wired.
var Default = NewRegistry()

// Register pre-registers the fast path for value type T backed by
// primitive P: the converter, the wrapper factory, and the raw construct
// delegate are all derived from the construct/extract pair. The
// Optional[T] entry is registered alongside, so optional DTO properties
// resolve without a separate registration.
//
// Nil funcs are a configuration defect and panic.
func Register[T any, P Primitive](r *Registry, construct func(P, string) (T, error), extract func(T) P) {
	if construct == nil || extract == nil {
		panic(fmt.Sprintf("codec: nil construct or extract for %s", reflect.TypeFor[T]()))
	}

	conv := valueConverter[T, P]{construct: construct, extract: extract}
	raw := func(v any, field string) (any, error) {
		p, ok := coerce[P](v)
		if !ok {
			return nil, fmt.Errorf("invalid value %v: expected %s", v, primitiveName(reflect.TypeFor[P]()))
		}
		return construct(p, field)
	}

	r.add(reflect.TypeFor[T](), entry{conv: conv, wrap: wrapperFor(conv), construct: raw})

	ot := reflect.TypeFor[fieldbind.Optional[T]]()
	oconv := optionConverter{optType: ot, inner: conv}
	r.add(ot, entry{conv: oconv, wrap: wrapperFor(oconv), construct: raw})
}

// RegisterConstructible pre-registers T from its Constructor/Valuer
// capability, pinning the reflective artifacts into the fast-path table so
// they are derived once instead of per lookup. Panics when T lacks the
// capability.
func RegisterConstructible[T any](r *Registry) {
	t := reflect.TypeFor[T]()
	conv, ok := Fallback(t)
	if !ok {
		panic(fmt.Sprintf("codec: %s must implement codec.Constructor (pointer receiver) and codec.Valuer", t))
	}

	raw := constructVia(t)
	r.add(t, entry{conv: conv, wrap: wrapperFor(conv), construct: raw})

	ot := reflect.TypeFor[fieldbind.Optional[T]]()
	oconv := optionConverter{optType: ot, inner: conv}
	r.add(ot, entry{conv: oconv, wrap: wrapperFor(oconv), construct: raw})
}

// RegisterConverter installs a hand-written converter for t. The wrapper
// factory is derived; the construct delegate is derived only when t has
// the Constructor capability.
func (r *Registry) RegisterConverter(t reflect.Type, c Converter) {
	if t == nil || c == nil {
		panic("codec: nil type or converter")
	}
	e := entry{conv: c, wrap: wrapperFor(c)}
	if Constructible(t) {
		e.construct = constructVia(t)
	}
	r.add(t, e)
}

// HasConverter reports whether a converter is registered for t.
func (r *Registry) HasConverter(t reflect.Type) bool {
	_, ok := r.lookup(t)
	return ok
}

// Converter returns the registered converter for t.
func (r *Registry) Converter(t reflect.Type) (Converter, bool) {
	e, ok := r.lookup(t)
	if !ok {
		return nil, false
	}
	return e.conv, true
}

// WrapperFactory returns the property-name-aware wrapper factory for t.
func (r *Registry) WrapperFactory(t reflect.Type) (WrapperFactory, bool) {
	e, ok := r.lookup(t)
	if !ok || e.wrap == nil {
		return nil, false
	}
	return e.wrap, true
}

// Construct returns the raw construct delegate for t.
func (r *Registry) Construct(t reflect.Type) (TryConstruct, bool) {
	e, ok := r.lookup(t)
	if !ok || e.construct == nil {
		return nil, false
	}
	return e.construct, true
}

// Clear drops every entry. Test isolation only; never call in steady state.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[reflect.Type]entry)
}

// add is first-write-wins so concurrent initializers registering the same
// type stay idempotent.
func (r *Registry) add(t reflect.Type, e entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[t]; exists {
		return
	}
	r.entries[t] = e
}

// lookup normalizes pointers and Optional wrappers to the underlying type:
// a registration for T satisfies lookups for Optional[T] and *T. Synthesized
// optional entries are cached back into the table.
func (r *Registry) lookup(t reflect.Type) (entry, bool) {
	if t == nil {
		return entry{}, false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.RLock()
	e, ok := r.entries[t]
	r.mu.RUnlock()
	if ok {
		return e, true
	}

	elem, isOpt := fieldbind.OptionalElem(t)
	if !isOpt {
		return entry{}, false
	}
	inner, ok := r.lookup(elem)
	if !ok {
		return entry{}, false
	}

	oconv := optionConverter{optType: t, inner: inner.conv}
	e = entry{conv: oconv, wrap: wrapperFor(oconv), construct: inner.construct}
	r.add(t, e)
	return e, true
}

func wrapperFor(c Converter) WrapperFactory {
	return func(name string) Converter {
		return Named(name, c)
	}
}

// constructVia adapts the Constructor capability of t into a TryConstruct
// delegate.
func constructVia(t reflect.Type) TryConstruct {
	return func(v any, field string) (any, error) {
		p := reflect.New(t)
		if err := p.Interface().(Constructor).ConstructField(v, field); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	}
}
