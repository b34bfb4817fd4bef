// Package codec builds domain values from raw JSON tokens without throwing
// on invalid input. Every converter follows the same contract: a read that
// cannot materialize a value records a field error into the current scope
// and returns the absence sentinel, so deserialization of sibling fields
// continues uninterrupted. Only pipeline defects (misconfigured
// registrations) panic.
package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/scope"
)

// Converter reads and writes one value type.
type Converter interface {
	// Read attempts to build a value from a raw JSON token. The second
	// return reports whether a value materialized; false is the absence
	// sentinel. Read never fails for bad user input — it records field
	// errors into the scope carried by ctx instead.
	Read(ctx context.Context, raw json.RawMessage) (any, bool)

	// Write serializes a value back to its JSON token. No error-collection
	// interaction.
	Write(v any) (json.RawMessage, error)
}

// Constructor is the try-construct capability the reflective fallback keys
// on: a pointer-receiver method that fills the receiver from a decoded
// primitive, returning an error instead of panicking on invalid input.
// The error may implement fieldbind.Aggregate to report several
// field-level messages at once.
type Constructor interface {
	ConstructField(value any, field string) error
}

// Valuer exposes the primitive representation used on the write path.
type Valuer interface {
	Primitive() any
}

var (
	constructorType = reflect.TypeOf((*Constructor)(nil)).Elem()
	valuerType      = reflect.TypeOf((*Valuer)(nil)).Elem()
)

const msgRequired = "field is required"

var nullToken = []byte("null")

// isNull treats both an absent key (nil token) and an explicit JSON null
// as the absence marker.
func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), nullToken)
}

func msgShape(raw json.RawMessage, want string) string {
	return fmt.Sprintf("invalid value %s: expected %s", strings.TrimSpace(string(raw)), want)
}

// primitiveName maps a primitive Go type to the word used in shape-mismatch
// messages.
func primitiveName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	default:
		return t.String()
	}
}

// fieldNameFor resolves the name errors are attributed to: the scope's
// current field name when a wrapper pushed one, otherwise the stable
// fallback derived from the type name.
func fieldNameFor(ctx context.Context, t reflect.Type) string {
	if name := scope.FieldName(ctx); name != "" {
		return name
	}
	return defaultFieldName(t)
}

// defaultFieldName lowers the first rune of the unqualified type name, so
// an unwrapped Email converter reports against "email". Deterministic and
// documented: the wrapper normally overrides it with the DTO property name.
func defaultFieldName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		name = t.String()
		if idx := strings.LastIndex(name, "."); idx != -1 {
			name = name[idx+1:]
		}
	}
	if name == "" {
		return "value"
	}
	r := []rune(name)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// recordConstructError pushes a domain construction failure into the
// current collector. Errors that aggregate several field-level messages are
// merged entry by entry; anything else becomes a single message under the
// current field name.
func recordConstructError(ctx context.Context, field string, err error) {
	var agg fieldbind.Aggregate
	if errors.As(err, &agg) && len(agg.FieldErrors()) > 0 {
		scope.Merge(ctx, agg)
		return
	}
	scope.AddError(ctx, field, err.Error())
}
