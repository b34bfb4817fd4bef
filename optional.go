package fieldbind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Optional carries a value that may legitimately be absent. It is the
// absence sentinel of the binding pipeline: a failed or null read resolves
// to None, and downstream code must check presence instead of relying on
// zero values. JSON null round-trips to None.
type Optional[T any] struct {
	value   T
	present bool
}

// Some wraps a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns the absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the contained value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is present.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// MustGet returns the contained value, panicking on absence.
func (o Optional[T]) MustGet() T {
	if !o.present {
		panic(fmt.Sprintf("fieldbind: MustGet on absent Optional[%T]", o.value))
	}
	return o.value
}

// OrElse returns the contained value or the fallback when absent.
func (o Optional[T]) OrElse(fallback T) T {
	if !o.present {
		return fallback
	}
	return o.value
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// Slot is the non-generic reflection bridge to *Optional[T]. The codec
// fallback path discovers optional wrapper types only at run time and cannot
// call generic constructors, so it fills options through this interface
// instead. Not intended for application code.
type Slot interface {
	// Fill stores v when it is assignable to the element type.
	Fill(v any) bool
	// Clear resets the slot to absent.
	Clear()
	// Present returns the stored value, if any.
	Present() (any, bool)
}

// Fill implements Slot.
func (o *Optional[T]) Fill(v any) bool {
	t, ok := v.(T)
	if !ok {
		return false
	}
	*o = Some(t)
	return true
}

// Clear implements Slot.
func (o *Optional[T]) Clear() {
	*o = Optional[T]{}
}

// Present implements Slot.
func (o *Optional[T]) Present() (any, bool) {
	if !o.present {
		return nil, false
	}
	return o.value, true
}

var slotType = reflect.TypeOf((*Slot)(nil)).Elem()

// IsOptionalType reports whether t is an Optional instantiation.
func IsOptionalType(t reflect.Type) bool {
	_, ok := OptionalElem(t)
	return ok
}

// OptionalElem returns the element type of an Optional instantiation.
// It relies on the Slot bridge rather than type-name matching, so only
// types from this package qualify.
func OptionalElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Struct || t.NumField() == 0 {
		return nil, false
	}
	if !reflect.PointerTo(t).Implements(slotType) {
		return nil, false
	}
	return t.Field(0).Type, true
}
