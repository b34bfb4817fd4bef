package bind

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/fieldbind/fieldbind"
	"github.com/fieldbind/fieldbind/codec"
)

// Encode serializes a struct whose fields may hold registered domain
// values, routing those through the converters' write path and everything
// else through encoding/json. A value decoded by Decode re-encodes to an
// equivalent document.
func Encode(v any, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil pointer", ErrInvalidTarget)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: must be a struct", ErrInvalidTarget)
	}

	doc, err := encodeStruct(o, rv)
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func encodeStruct(o options, rv reflect.Value) (map[string]json.RawMessage, error) {
	rt := rv.Type()
	doc := make(map[string]json.RawMessage, rt.NumField())

	for i := 0; i < rv.NumField(); i++ {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanInterface() {
			continue
		}

		name, skip := jsonFieldName(sf)
		if skip {
			continue
		}

		ft := sf.Type
		if conv, ok := o.registry.Converter(ft); ok {
			raw, err := conv.Write(field.Interface())
			if err != nil {
				return nil, err
			}
			doc[name] = raw
			continue
		}
		if conv, ok := codec.Fallback(ft); ok {
			raw, err := conv.Write(field.Interface())
			if err != nil {
				return nil, err
			}
			doc[name] = raw
			continue
		}

		if ft.Kind() == reflect.Struct && !fieldbind.IsOptionalType(ft) && !hasMarshaler(ft) {
			child, err := encodeStruct(o, field)
			if err != nil {
				return nil, err
			}
			raw, err := json.Marshal(child)
			if err != nil {
				return nil, err
			}
			doc[name] = raw
			continue
		}

		raw, err := json.Marshal(field.Interface())
		if err != nil {
			return nil, err
		}
		doc[name] = raw
	}

	return doc, nil
}

var marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()

func hasMarshaler(t reflect.Type) bool {
	return t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType)
}
