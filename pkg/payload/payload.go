// Package payload reads loosely typed JSON objects field by field. Every
// accessor either casts the field to the requested type or falls back to a
// default, it never fails.
package payload

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"cpt/pkg/na"
)

var null = []byte("null")

// Object is a decoded JSON object whose values have not been interpreted yet.
type Object map[string]json.RawMessage

func Decode(raw []byte) (Object, error) {
	var out Object
	err := json.Unmarshal(raw, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func DecodeList(raw []byte) ([]Object, error) {
	var out []Object
	err := json.Unmarshal(raw, &out)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Object{}
	}
	return out, nil
}

// Has reports whether the key exists, even if its value is null.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// value returns the raw value and whether it is usable (present and not null).
func (o Object) value(key string) (json.RawMessage, bool) {
	raw, ok := o[key]
	if !ok {
		return nil, false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, null) {
		return nil, false
	}
	return trimmed, true
}

func castInt(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	var number json.Number
	if json.Unmarshal(raw, &number) != nil {
		return 0, false
	}
	n, err := number.Int64()
	if err == nil {
		return n, true
	}
	f, err := number.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

func castFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	if raw[0] == '"' {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	var number json.Number
	if json.Unmarshal(raw, &number) != nil {
		return 0, false
	}
	f, err := number.Float64()
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int is NA when the key is missing, null or not an integer.
func (o Object) Int(key string) na.Int {
	raw, ok := o.value(key)
	if !ok {
		return na.Int{}
	}
	n, ok := castInt(raw)
	if !ok {
		return na.Int{}
	}
	return na.IntOf(n)
}

// IntOr is def when the key is missing, NA when it is null or not an integer.
func (o Object) IntOr(key string, def int64) na.Int {
	if !o.Has(key) {
		return na.IntOf(def)
	}
	return o.Int(key)
}

func (o Object) Float(key string) na.Float {
	raw, ok := o.value(key)
	if !ok {
		return na.Float{}
	}
	f, ok := castFloat(raw)
	if !ok {
		return na.Float{}
	}
	return na.FloatOf(f)
}

func (o Object) FloatOr(key string, def float64) na.Float {
	if !o.Has(key) {
		return na.FloatOf(def)
	}
	return o.Float(key)
}

// Time reads unix seconds.
func (o Object) Time(key string) na.Time {
	n := o.Int(key)
	if !n.Valid {
		return na.Time{}
	}
	return na.UnixOf(n.Value)
}

// String is "" when the key is missing or null, numbers and booleans are
// kept in their JSON spelling.
func (o Object) String(key string) string {
	raw, ok := o.value(key)
	if !ok {
		return ""
	}
	if raw[0] != '"' {
		if raw[0] == '{' || raw[0] == '[' {
			return ""
		}
		return string(raw)
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func (o Object) Bool(key string) bool {
	raw, ok := o.value(key)
	if !ok {
		return false
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return b
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		b, _ = strconv.ParseBool(s)
	}
	return b
}

// Strings keeps the string elements of a list, it is empty (never nil)
// when the key is missing or not a list.
func (o Object) Strings(key string) []string {
	out := []string{}
	raw, ok := o.value(key)
	if !ok {
		return out
	}
	var elements []json.RawMessage
	if json.Unmarshal(raw, &elements) != nil {
		return out
	}
	for _, e := range elements {
		var s string
		if json.Unmarshal(e, &s) != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Object is nil when the key is missing or not an object.
func (o Object) Object(key string) Object {
	raw, ok := o.value(key)
	if !ok || raw[0] != '{' {
		return nil
	}
	var out Object
	if json.Unmarshal(raw, &out) != nil {
		return nil
	}
	return out
}

// Objects keeps the object elements of a list, it is empty (never nil) when
// the key is missing or not a list.
func (o Object) Objects(key string) []Object {
	out := []Object{}
	raw, ok := o.value(key)
	if !ok {
		return out
	}
	var elements []json.RawMessage
	if json.Unmarshal(raw, &elements) != nil {
		return out
	}
	for _, e := range elements {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '{' {
			continue
		}
		var obj Object
		if json.Unmarshal(e, &obj) != nil {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Raw returns the value as is, nil when missing or null.
func (o Object) Raw(key string) json.RawMessage {
	raw, ok := o.value(key)
	if !ok {
		return nil
	}
	return raw
}
