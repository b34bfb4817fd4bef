// Package bind walks a target struct against a JSON document, routing every
// property through the codec pipeline. Domain-invalid fields are recorded
// into the current scope and left as absence sentinels; decoding only fails
// outright for malformed JSON or a defective target.
package bind

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/codec"
	"github.com/fieldbind/fieldbind/scope"
)

type options struct {
	registry        *codec.Registry
	disallowUnknown bool
	maxBody         int64
}

// Option configures decoding and the JSON binder.
type Option func(*options)

// WithRegistry selects the type construction registry. Defaults to
// codec.Default.
func WithRegistry(r *codec.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithDisallowUnknownFields records a field error for every payload key the
// target struct does not declare.
func WithDisallowUnknownFields() Option {
	return func(o *options) {
		o.disallowUnknown = true
	}
}

// WithMaxBodySize caps the request body the JSON binder will read.
// Defaults to 1 MiB.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBody = n
		}
	}
}

const defaultMaxBody = 1 << 20

func buildOptions(opts []Option) options {
	o := options{registry: codec.Default, maxBody: defaultMaxBody}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode deserializes data into the struct pointed to by v. Properties
// whose types are registered (or constructible) go through a validating
// converter wrapped with the property name, so their failures land in the
// current scope under the DTO property name and decoding continues with
// the next field. Nested structs recurse with the parent's field name
// restored afterward. Everything else decodes with encoding/json semantics,
// with type mismatches also recorded as field errors.
func Decode(ctx context.Context, data []byte, v any, opts ...Option) error {
	o := buildOptions(opts)

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: must be a non-nil pointer", ErrInvalidTarget)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: must be a pointer to struct", ErrInvalidTarget)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	walkStruct(ctx, o, doc, rv)
	return nil
}

func walkStruct(ctx context.Context, o options, doc map[string]json.RawMessage, rv reflect.Value) {
	rt := rv.Type()
	known := make(map[string]bool, rt.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		name, skip := jsonFieldName(sf)
		if skip {
			continue
		}
		known[name] = true

		raw := doc[name] // nil when absent; converters treat that as null

		ft := sf.Type
		if wrap, ok := o.registry.WrapperFactory(ft); ok {
			readInto(ctx, field, wrap(name), raw)
			continue
		}
		if inner, ok := codec.Fallback(ft); ok {
			readInto(ctx, field, codec.Named(name, inner), raw)
			continue
		}

		if len(raw) == 0 || string(raw) == "null" {
			continue
		}

		if ft.Kind() == reflect.Struct && !fieldbind.IsOptionalType(ft) && !hasUnmarshaler(ft) {
			var child map[string]json.RawMessage
			if err := json.Unmarshal(raw, &child); err != nil {
				scope.AddError(ctx, name, fmt.Sprintf("invalid value %s: expected object", trimRaw(raw)))
				continue
			}
			// The child's fields own the current name while they parse;
			// the parent name is back in place for the next sibling.
			if sc := scope.Current(ctx); sc != nil {
				restore := sc.PushField(name)
				walkStruct(ctx, o, child, field)
				restore()
			} else {
				walkStruct(ctx, o, child, field)
			}
			continue
		}

		if err := json.Unmarshal(raw, field.Addr().Interface()); err != nil {
			scope.AddError(ctx, name, fmt.Sprintf("invalid value %s: expected %s", trimRaw(raw), ft.String()))
		}
	}

	if o.disallowUnknown {
		for key := range doc {
			if !known[key] {
				scope.AddError(ctx, key, "unknown field")
			}
		}
	}
}

// readInto runs one converter read and materializes the result into the
// struct field. An absent result leaves the field at its zero value; the
// scope already carries the corresponding error, and the boundary must not
// hand the struct to business logic while it does.
func readInto(ctx context.Context, field reflect.Value, conv codec.Converter, raw json.RawMessage) {
	v, ok := conv.Read(ctx, raw)
	if !ok || v == nil {
		return
	}

	out := reflect.ValueOf(v)
	ft := field.Type()
	switch {
	case out.Type().AssignableTo(ft):
		field.Set(out)
	case ft.Kind() == reflect.Pointer && out.Type().AssignableTo(ft.Elem()):
		p := reflect.New(ft.Elem())
		p.Elem().Set(out)
		field.Set(p)
	default:
		// Registry misconfiguration, not user input.
		panic(fmt.Sprintf("bind: converter produced %s for field of type %s", out.Type(), ft))
	}
}

// jsonFieldName resolves the payload key for a struct field from its json
// tag, falling back to the Go field name like encoding/json does.
func jsonFieldName(sf reflect.StructField) (name string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if tag == "" {
		return sf.Name, false
	}
	if idx := strings.Index(tag, ","); idx != -1 {
		tag = tag[:idx]
	}
	if tag == "" {
		return sf.Name, false
	}
	return tag, false
}

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

func hasUnmarshaler(t reflect.Type) bool {
	return t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType)
}

func trimRaw(raw json.RawMessage) string {
	return strings.TrimSpace(string(raw))
}
