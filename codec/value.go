package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/scope"
)

// Primitive is the set of underlying representations a domain value type
// may be built from. JSON numbers bound for integer-backed types are
// rejected when they carry a fractional part.
type Primitive interface {
	~string | ~int64 | ~float64 | ~bool
}

// valueConverter is the pre-registered fast path for one value type: no
// runtime type introspection, just the construct/extract pair captured at
// registration.
type valueConverter[T any, P Primitive] struct {
	construct func(P, string) (T, error)
	extract   func(T) P
}

func (c valueConverter[T, P]) Read(ctx context.Context, raw json.RawMessage) (any, bool) {
	var zero T
	field := fieldNameFor(ctx, reflect.TypeFor[T]())

	if isNull(raw) {
		scope.AddError(ctx, field, msgRequired)
		return zero, false
	}

	var p P
	if err := json.Unmarshal(raw, &p); err != nil {
		scope.AddError(ctx, field, msgShape(raw, primitiveName(reflect.TypeFor[P]())))
		return zero, false
	}

	v, err := c.construct(p, field)
	if err != nil {
		recordConstructError(ctx, field, err)
		return zero, false
	}
	return v, true
}

func (c valueConverter[T, P]) Write(v any) (json.RawMessage, error) {
	t, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("codec: cannot write %T as %s", v, reflect.TypeFor[T]())
	}
	return json.Marshal(c.extract(t))
}

// optionConverter adapts a value converter to the Optional wrapper type.
// Null reads resolve to a valid absent value without recording anything;
// a present but invalid value still records through the inner converter.
// Built on the fieldbind.Slot bridge so the same implementation serves the
// generic fast path and types discovered only at run time.
type optionConverter struct {
	optType reflect.Type
	inner   Converter
}

func (c optionConverter) Read(ctx context.Context, raw json.RawMessage) (any, bool) {
	ov := reflect.New(c.optType)
	if isNull(raw) {
		return ov.Elem().Interface(), true
	}

	v, ok := c.inner.Read(ctx, raw)
	if !ok {
		return ov.Elem().Interface(), false
	}
	if !ov.Interface().(fieldbind.Slot).Fill(v) {
		panic(fmt.Sprintf("codec: converter for %s produced %T", c.optType, v))
	}
	return ov.Elem().Interface(), true
}

func (c optionConverter) Write(v any) (json.RawMessage, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Type() != c.optType {
		return nil, fmt.Errorf("codec: cannot write %T as %s", v, c.optType)
	}

	pv := reflect.New(c.optType)
	pv.Elem().Set(rv)
	inner, present := pv.Interface().(fieldbind.Slot).Present()
	if !present {
		return json.RawMessage("null"), nil
	}
	return c.inner.Write(inner)
}

// coerce bridges loosely typed primitives (json decodes numbers to float64)
// to the registered primitive type. Cross-kind conversions like number to
// string are refused.
func coerce[P Primitive](v any) (P, bool) {
	if p, ok := v.(P); ok {
		return p, true
	}

	var zero P
	pt := reflect.TypeOf(zero)
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || !rv.Type().ConvertibleTo(pt) {
		return zero, false
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if pt.Kind() == reflect.Int64 && rv.Float() != math.Trunc(rv.Float()) {
			return zero, false
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	case reflect.String:
		if pt.Kind() != reflect.String {
			return zero, false
		}
	case reflect.Bool:
		if pt.Kind() != reflect.Bool {
			return zero, false
		}
	default:
		return zero, false
	}
	if pt.Kind() == reflect.String && rv.Kind() != reflect.String {
		return zero, false
	}
	if pt.Kind() == reflect.Bool && rv.Kind() != reflect.Bool {
		return zero, false
	}

	return rv.Convert(pt).Interface().(P), true
}
