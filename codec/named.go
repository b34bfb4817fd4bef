package codec

import (
	"context"
	"encoding/json"

	"github.com/fieldbind/fieldbind/scope"
)

// Named decorates inner so that errors recorded during one field's read
// are attributed to the DTO property name instead of the value type's
// name. The previous name is restored on every exit path, so the same
// value type can back several properties and nested objects hand the name
// back to their parent when they finish.
func Named(name string, inner Converter) Converter {
	return namedConverter{name: name, inner: inner}
}

type namedConverter struct {
	name  string
	inner Converter
}

func (c namedConverter) Read(ctx context.Context, raw json.RawMessage) (any, bool) {
	if sc := scope.Current(ctx); sc != nil {
		restore := sc.PushField(c.name)
		defer restore()
	}
	return c.inner.Read(ctx, raw)
}

// Write is pure delegation; serialization needs no field-name bookkeeping.
func (c namedConverter) Write(v any) (json.RawMessage, error) {
	return c.inner.Write(v)
}
