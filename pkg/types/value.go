package types

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// ValueKind identifies which variant a Value holds
type ValueKind string

const (
	KindText   ValueKind = "text"
	KindList   ValueKind = "list"
	KindNumber ValueKind = "number"
	KindDate   ValueKind = "date"
)

// Value is the closed set of attribute values an entity field can hold:
// text, a list of texts, a number or a date.
type Value struct {
	kind   ValueKind
	text   string
	list   []string
	number float64
	date   time.Time
}

// Text creates a text value
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// List creates a text-array value. The slice is copied.
func List(items ...string) Value {
	return Value{kind: KindList, list: slices.Clone(items)}
}

// Number creates a numeric value
func Number(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// Date creates a date value
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t.UTC()}
}

// Kind returns the variant held by v. The zero Value reports an empty kind.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsZero reports whether v was never assigned
func (v Value) IsZero() bool {
	return v.kind == ""
}

// IsList reports whether v holds a text-array
func (v Value) IsList() bool {
	return v.kind == KindList
}

// AsText returns the text of a text value
func (v Value) AsText() (string, bool) {
	return v.text, v.kind == KindText
}

// AsList returns a copy of the items of a list value
func (v Value) AsList() ([]string, bool) {
	return slices.Clone(v.list), v.kind == KindList
}

// AsNumber returns the number of a numeric value
func (v Value) AsNumber() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// AsDate returns the time of a date value
func (v Value) AsDate() (time.Time, bool) {
	return v.date, v.kind == KindDate
}

// String renders the value as display text. Lists are joined with ", ".
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindList:
		return strings.Join(v.list, ", ")
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and content
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindList:
		return slices.Equal(v.list, other.list)
	case KindNumber:
		return v.number == other.number
	case KindDate:
		return v.date.Equal(other.date)
	default:
		return true
	}
}

// valueJSON is the tagged wire form of a Value
type valueJSON struct {
	Kind  ValueKind       `json:"kind"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON encodes the value with its kind so it round-trips without guessing
func (v Value) MarshalJSON() ([]byte, error) {
	var (
		raw []byte
		err error
	)
	switch v.kind {
	case KindText:
		raw, err = json.Marshal(v.text)
	case KindList:
		list := v.list
		if list == nil {
			list = []string{}
		}
		raw, err = json.Marshal(list)
	case KindNumber:
		raw, err = json.Marshal(v.number)
	case KindDate:
		raw, err = json.Marshal(v.date.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(valueJSON{Kind: v.kind, Value: raw})
}

// UnmarshalJSON decodes the tagged wire form
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}

	var wire valueJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch wire.Kind {
	case KindText:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return err
		}
		*v = Text(s)
	case KindList:
		var items []string
		if err := json.Unmarshal(wire.Value, &items); err != nil {
			return err
		}
		*v = List(items...)
	case KindNumber:
		var n float64
		if err := json.Unmarshal(wire.Value, &n); err != nil {
			return err
		}
		*v = Number(n)
	case KindDate:
		var s string
		if err := json.Unmarshal(wire.Value, &s); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		*v = Date(t)
	default:
		return fmt.Errorf("unknown value kind %q", wire.Kind)
	}
	return nil
}

// ValueOf converts a loosely typed value (as decoded from JSON or YAML) into a
// Value. Unsupported types report false.
func ValueOf(raw interface{}) (Value, bool) {
	switch x := raw.(type) {
	case Value:
		return x, !x.IsZero()
	case string:
		return Text(x), true
	case []string:
		return List(x...), true
	case []interface{}:
		items := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return Value{}, false
			}
			items = append(items, s)
		}
		return List(items...), true
	case int:
		return Number(float64(x)), true
	case int64:
		return Number(float64(x)), true
	case float64:
		return Number(x), true
	case float32:
		return Number(float64(x)), true
	case time.Time:
		return Date(x), true
	default:
		return Value{}, false
	}
}
