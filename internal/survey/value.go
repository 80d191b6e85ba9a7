package survey

import (
	"encoding/json"
	"strconv"
)

// Value is one dynamically typed node of a parsed response or schema
// document: null, bool, number, string, array or object. The zero Value
// is null. Accessors never panic; they report whether the underlying
// type matched.
type Value struct {
	raw interface{}
}

// NewValue wraps a raw value as produced by encoding/json
// (nil, bool, float64, string, []interface{} or map[string]interface{}).
func NewValue(raw interface{}) Value {
	return Value{raw: raw}
}

// ParseValue decodes a JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return Value{raw: raw}, nil
}

func (v Value) IsNull() bool {
	return v.raw == nil
}

// Raw returns the underlying decoded value.
func (v Value) Raw() interface{} {
	return v.raw
}

func (v Value) AsString() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

func (v Value) AsBool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

func (v Value) AsNumber() (float64, bool) {
	f, ok := v.raw.(float64)
	return f, ok
}

func (v Value) AsArray() ([]Value, bool) {
	arr, ok := v.raw.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]Value, len(arr))
	for i, el := range arr {
		out[i] = Value{raw: el}
	}
	return out, true
}

func (v Value) AsObject() (map[string]Value, bool) {
	obj, ok := v.raw.(map[string]interface{})
	if !ok {
		return nil, false
	}
	out := make(map[string]Value, len(obj))
	for k, el := range obj {
		out[k] = Value{raw: el}
	}
	return out, true
}

// Field returns the named member of an object value, or null.
func (v Value) Field(name string) Value {
	if obj, ok := v.raw.(map[string]interface{}); ok {
		return Value{raw: obj[name]}
	}
	return Value{}
}

// IsEmpty reports whether the value carries no answer: null, empty
// string, empty array or empty object.
func (v Value) IsEmpty() bool {
	switch raw := v.raw.(type) {
	case nil:
		return true
	case string:
		return raw == ""
	case []interface{}:
		return len(raw) == 0
	case map[string]interface{}:
		return len(raw) == 0
	}
	return false
}

// Text renders a scalar value as plain text. Arrays and objects yield
// their JSON form; formatting of structured answers is the formatter's
// job, this is only the raw fallback.
func (v Value) Text() string {
	switch raw := v.raw.(type) {
	case nil:
		return ""
	case string:
		return raw
	case bool:
		return strconv.FormatBool(raw)
	case float64:
		return strconv.FormatFloat(raw, 'f', -1, 64)
	default:
		data, err := json.Marshal(raw)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
