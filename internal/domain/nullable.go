package domain

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Nullable is a patch field that tells an absent field apart from an explicit
// null. Set is false when the field was not supplied. Set with a nil Value
// clears the stored field.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableOf returns a supplied, non-null value.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a supplied null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Set, n.Value = true, nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Set, n.Value = true, &v
	return nil
}

// ValueType reports the type carried by a non-null value.
func (Nullable[T]) ValueType() reflect.Type {
	return reflect.TypeFor[T]()
}

// apply overwrites *dst when the field was supplied.
func (n Nullable[T]) apply(dst **T) {
	if !n.Set {
		return
	}
	if n.Value == nil {
		*dst = nil
		return
	}
	v := *n.Value
	*dst = &v
}
