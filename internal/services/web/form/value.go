package form

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// ValueKind tags the shape of a field value.
type ValueKind int

const (
	// ValueText holds text and numbers-as-strings.
	ValueText ValueKind = iota
	// ValueBool holds checkbox state.
	ValueBool
	// ValueList holds an ordered multi-select selection.
	ValueList
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is one field value. The zero Value is empty text.
//
// Values encode to JSON as a string, a boolean, or an array of strings.
type Value struct {
	kind ValueKind
	text string
	flag bool
	list []string
}

// Text returns a text value.
func Text(s string) Value { return Value{kind: ValueText, text: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, flag: b} }

// List returns a list value holding a copy of items.
func List(items ...string) Value {
	return Value{kind: ValueList, list: append([]string{}, items...)}
}

// Kind reports the value shape.
func (v Value) Kind() ValueKind { return v.kind }

// AsText returns the text when v is a text value.
func (v Value) AsText() (string, bool) { return v.text, v.kind == ValueText }

// AsBool returns the flag when v is a boolean value.
func (v Value) AsBool() (bool, bool) { return v.flag, v.kind == ValueBool }

// AsList returns a copy of the items when v is a list value.
func (v Value) AsList() ([]string, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	return append([]string{}, v.list...), true
}

// Equal reports per-field equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueBool:
		return v.flag == other.flag
	case ValueList:
		return slices.Equal(v.list, other.list)
	default:
		return v.text == other.text
	}
}

func (v Value) String() string {
	switch v.kind {
	case ValueBool:
		return fmt.Sprintf("%t", v.flag)
	case ValueList:
		return fmt.Sprintf("%q", v.list)
	default:
		return v.text
	}
}

// MarshalJSON encodes the value as a string, boolean, or string array.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueBool:
		return json.Marshal(v.flag)
	case ValueList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON accepts a string, boolean, string array, or number. Numbers
// are kept as their literal text so a number input restores verbatim.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("decode value: empty input")
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode text value: %w", err)
		}
		*v = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("decode bool value: %w", err)
		}
		*v = Bool(b)
	case 'n':
		return fmt.Errorf("decode value: null")
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode list value: %w", err)
		}
		*v = List(items...)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode value: unsupported JSON %s", data)
		}
		*v = Text(n.String())
	}
	return nil
}

// Snapshot maps field names to values.
type Snapshot map[string]Value

// Equal reports whether both snapshots hold the same keys with equal values.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for name, value := range s {
		o, ok := other[name]
		if !ok || !value.Equal(o) {
			return false
		}
	}
	return true
}
