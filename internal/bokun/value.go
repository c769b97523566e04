package bokun

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the JSON type held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is a read-only view over a decoded JSON document. Lookups on a
// missing key or a value of the wrong kind yield a null Value, never a panic,
// so candidate probing can chain freely.
type Value struct {
	raw any
}

// ParseValue decodes data into a Value. Numbers are kept as json.Number so
// large ids survive unchanged.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, fmt.Errorf("decode provider json: %w", err)
	}
	return Value{raw: raw}, nil
}

func (v Value) Kind() Kind {
	switch v.raw.(type) {
	case bool:
		return KindBool
	case json.Number, float64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindNull
	}
}

func (v Value) IsNull() bool { return v.Kind() == KindNull }

// Get returns the named member of an object.
func (v Value) Get(name string) Value {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return Value{}
	}
	return Value{raw: obj[name]}
}

// Has reports whether an object carries the named member, even if null.
func (v Value) Has(name string) bool {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return false
	}
	_, exists := obj[name]
	return exists
}

// Index returns the i-th element of an array.
func (v Value) Index(i int) Value {
	arr, ok := v.raw.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Value{}
	}
	return Value{raw: arr[i]}
}

// Items returns the elements of an array, or nil for any other kind.
func (v Value) Items() []Value {
	arr, ok := v.raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Value, len(arr))
	for i, item := range arr {
		out[i] = Value{raw: item}
	}
	return out
}

// Path walks object members and, for numeric segments on arrays, indexes.
func (v Value) Path(segments ...string) Value {
	current := v
	for _, segment := range segments {
		if current.Kind() == KindArray {
			idx, err := strconv.Atoi(segment)
			if err != nil {
				return Value{}
			}
			current = current.Index(idx)
			continue
		}
		if current.Kind() != KindObject {
			return Value{}
		}
		current = current.Get(segment)
	}
	return current
}

// Text returns the value when it is a JSON string.
func (v Value) Text() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// Decimal accepts a JSON number or a numeric string.
func (v Value) Decimal() (float64, bool) {
	switch t := v.raw.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int64 accepts an integral JSON number or an integer string.
func (v Value) Int64() (int64, bool) {
	switch t := v.raw.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Bool accepts a JSON boolean or the strings "true"/"false".
func (v Value) Bool() (bool, bool) {
	switch t := v.raw.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	}
	return false, false
}

// ---------- candidate extraction ----------

// firstString returns the first candidate member holding a JSON string.
func firstString(item Value, names ...string) (string, bool) {
	for _, name := range names {
		if s, ok := item.Get(name).Text(); ok {
			return s, true
		}
	}
	return "", false
}

// firstIdentifier is firstString that also accepts integral numbers, which
// is how the provider encodes most ids.
func firstIdentifier(item Value, names ...string) string {
	for _, name := range names {
		member := item.Get(name)
		if s, ok := member.Text(); ok {
			return s
		}
		if member.Kind() == KindNumber {
			if n, ok := member.Int64(); ok {
				return strconv.FormatInt(n, 10)
			}
		}
	}
	return ""
}

// nestedString follows a path and returns the leaf when it is a string.
func nestedString(item Value, segments ...string) (string, bool) {
	return item.Path(segments...).Text()
}

// firstDecimal returns the first candidate whose value parses, skipping
// members that exist but are not numeric.
func firstDecimal(item Value, names ...string) (float64, bool) {
	for _, name := range names {
		if f, ok := item.Get(name).Decimal(); ok {
			return f, true
		}
	}
	return 0, false
}

func firstInt64(item Value, names ...string) int64 {
	for _, name := range names {
		if n, ok := item.Get(name).Int64(); ok {
			return n
		}
	}
	return 0
}

func firstBool(item Value, names ...string) bool {
	for _, name := range names {
		if b, ok := item.Get(name).Bool(); ok {
			return b
		}
	}
	return false
}

// stringOr picks the first found string among several lookups, else fallback.
func stringOr(fallback string, lookups ...func() (string, bool)) string {
	for _, lookup := range lookups {
		if s, ok := lookup(); ok {
			return s
		}
	}
	return fallback
}

func candidates(item Value, names ...string) func() (string, bool) {
	return func() (string, bool) { return firstString(item, names...) }
}

func nested(item Value, segments ...string) func() (string, bool) {
	return func() (string, bool) { return nestedString(item, segments...) }
}
