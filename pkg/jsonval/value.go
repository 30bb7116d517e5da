// Package jsonval holds JSON values in their compact textual rendering.
//
// A Value is immutable once built. Parsing strips insignificant whitespace, so
// two values that differ only in formatting render to the same text.
package jsonval

import (
	"bytes"
	"encoding/json"
	"fmt"

	"kvdb/pkg/dberrors"
)

// Value is a single JSON document (object, array, string, number, bool or null).
// The zero Value is "absent" and renders as an empty string.
type Value struct {
	raw []byte
}

// Parse validates text as exactly one JSON value and returns its compact form.
func Parse(text []byte) (Value, error) {
	trimmed := bytes.TrimSpace(text)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("%w: empty input", dberrors.ErrInvalidJSON)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Value{}, fmt.Errorf("%w: %w", dberrors.ErrInvalidJSON, err)
	}

	return Value{raw: buf.Bytes()}, nil
}

func ParseString(text string) (Value, error) {
	return Parse([]byte(text))
}

// MustParse is Parse for literals known to be valid. It panics otherwise.
func MustParse(text string) Value {
	v, err := ParseString(text)
	if err != nil {
		panic(err)
	}
	return v
}

// From renders a Go value with encoding/json.
func From(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", dberrors.ErrInvalidJSON, err)
	}
	return Value{raw: data}, nil
}

func (v Value) IsZero() bool {
	return len(v.raw) == 0
}

// String returns the compact JSON text.
func (v Value) String() string {
	return string(v.raw)
}

// Bytes returns a copy of the compact JSON text.
func (v Value) Bytes() []byte {
	return bytes.Clone(v.raw)
}

// Len is the length of the rendered text in bytes.
func (v Value) Len() int {
	return len(v.raw)
}

// Decode unmarshals the value into dst.
func (v Value) Decode(dst any) error {
	if v.IsZero() {
		return fmt.Errorf("%w: empty value", dberrors.ErrInvalidJSON)
	}
	if err := json.Unmarshal(v.raw, dst); err != nil {
		return fmt.Errorf("%w: %w", dberrors.ErrInvalidJSON, err)
	}
	return nil
}

func (v Value) Equal(other Value) bool {
	return bytes.Equal(v.raw, other.raw)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	return bytes.Clone(v.raw), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
