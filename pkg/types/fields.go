package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Fields is an insertion-ordered map from field name to Value.
// The zero value is an empty, usable map.
type Fields struct {
	keys   []string
	values map[string]Value
}

// NewFields builds a Fields from pairs, keeping their order
func NewFields(pairs ...FieldPair) Fields {
	var f Fields
	for _, p := range pairs {
		f.Set(p.Name, p.Value)
	}
	return f
}

// FieldPair is a single name/value entry
type FieldPair struct {
	Name  string
	Value Value
}

// Field is shorthand for building a FieldPair
func Field(name string, value Value) FieldPair {
	return FieldPair{Name: name, Value: value}
}

// Len returns the number of fields
func (f Fields) Len() int {
	return len(f.keys)
}

// Get returns the value stored under name
func (f Fields) Get(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Has reports whether name is present
func (f Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Set stores value under name. A new name is appended to the key order;
// an existing name keeps its position.
func (f *Fields) Set(name string, value Value) {
	if f.values == nil {
		f.values = make(map[string]Value)
	}
	if _, exists := f.values[name]; !exists {
		f.keys = append(f.keys, name)
	}
	f.values[name] = value
}

// Keys returns the field names in insertion order
func (f Fields) Keys() []string {
	return slices.Clone(f.keys)
}

// Range calls fn for each field in insertion order until fn returns false
func (f Fields) Range(fn func(name string, value Value) bool) {
	for _, k := range f.keys {
		if !fn(k, f.values[k]) {
			return
		}
	}
}

// Clone returns an independent copy
func (f Fields) Clone() Fields {
	var out Fields
	f.Range(func(name string, value Value) bool {
		out.Set(name, value)
		return true
	})
	return out
}

// Equal reports whether both maps hold the same names, order and values
func (f Fields) Equal(other Fields) bool {
	if !slices.Equal(f.keys, other.keys) {
		return false
	}
	for _, k := range f.keys {
		if !f.values[k].Equal(other.values[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes a JSON object whose keys follow insertion order
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object and keeps the order its keys appear in
func (f *Fields) UnmarshalJSON(data []byte) error {
	*f = Fields{}
	if string(data) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fields: expected string key, got %v", tok)
		}
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("fields: decoding %q: %w", name, err)
		}
		f.Set(name, v)
	}

	_, err = dec.Token()
	return err
}
