package webclip

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind int

// Value kinds.
const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindStrings
)

// Value is a dynamically typed draft value: a string, a number, a list of
// strings, or absent. The zero Value is absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	strs []string
}

// Absent is the absent value.
var Absent = Value{}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Strings returns a string-list value. The slice is copied.
func Strings(ss []string) Value {
	return Value{kind: KindStrings, strs: append([]string{}, ss...)}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v holds no value.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// Str returns the string held by v.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the number held by v.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// List returns a copy of the string list held by v.
func (v Value) List() ([]string, bool) {
	if v.kind != KindStrings {
		return nil, false
	}
	return append([]string{}, v.strs...), true
}

// Text renders v as plain text: lists are joined with ", ",
// numbers use the shortest decimal form.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindStrings:
		return strings.Join(v.strs, ", ")
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindStrings:
		if len(v.strs) != len(o.strs) {
			return false
		}
		for i := range v.strs {
			if v.strs[i] != o.strs[i] {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes v as a JSON string, number, array or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindStrings:
		if v.strs == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.strs)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes any JSON value leniently. Booleans become strings,
// arrays keep their scalar entries as strings, objects and null are absent.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// ValueOf converts a decoded JSON value into a Value.
func ValueOf(raw any) Value {
	switch x := raw.(type) {
	case string:
		return String(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return String(x.String())
		}
		return Number(f)
	case float64:
		return Number(x)
	case int:
		return Number(float64(x))
	case bool:
		return String(strconv.FormatBool(x))
	case []string:
		return Strings(x)
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			ev := ValueOf(e)
			switch ev.kind {
			case KindString, KindNumber:
				out = append(out, ev.Text())
			}
		}
		return Strings(out)
	default:
		return Absent
	}
}
