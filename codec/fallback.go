package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/scope"
)

// Constructible reports whether t carries the try-construct capability the
// fallback path needs: ConstructField on the pointer receiver and
// Primitive on the value receiver.
func Constructible(t reflect.Type) bool {
	if t == nil || t.Kind() == reflect.Pointer {
		return false
	}
	return reflect.PointerTo(t).Implements(constructorType) && t.Implements(valuerType)
}

// Fallback derives a converter for a type without a registry entry, paying
// runtime type inspection per read where the fast path pays none. The
// derived converter is behaviorally identical to a pre-registered one for
// the same construct logic; the registry is purely a performance and
// predictability optimization. Optional and pointer wrappers are
// normalized to the underlying type.
func Fallback(t reflect.Type) (Converter, bool) {
	if t == nil {
		return nil, false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if elem, ok := fieldbind.OptionalElem(t); ok {
		inner, ok := Fallback(elem)
		if !ok {
			return nil, false
		}
		return optionConverter{optType: t, inner: inner}, true
	}

	if !Constructible(t) {
		return nil, false
	}
	return reflectiveConverter{t: t}, true
}

// reflectiveConverter drives a type's own Constructor/Valuer capability.
type reflectiveConverter struct {
	t reflect.Type
}

func (c reflectiveConverter) Read(ctx context.Context, raw json.RawMessage) (any, bool) {
	zero := reflect.Zero(c.t).Interface()
	field := fieldNameFor(ctx, c.t)

	if isNull(raw) {
		scope.AddError(ctx, field, msgRequired)
		return zero, false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		scope.AddError(ctx, field, msgShape(raw, "valid JSON value"))
		return zero, false
	}

	p := reflect.New(c.t)
	if err := p.Interface().(Constructor).ConstructField(v, field); err != nil {
		recordConstructError(ctx, field, err)
		return zero, false
	}
	return p.Elem().Interface(), true
}

func (c reflectiveConverter) Write(v any) (json.RawMessage, error) {
	valuer, ok := v.(Valuer)
	if !ok {
		return nil, fmt.Errorf("codec: cannot write %T as %s", v, c.t)
	}
	return json.Marshal(valuer.Primitive())
}
