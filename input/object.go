package input

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/pkg/errors"
)

var reJSONNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Object is a JSON object that remembers the order in which its keys were
// first set. Values are json.Number, bool, string, json.RawMessage or
// *Object.
type Object struct {
	keys   []string
	values map[string]interface{}
}

func NewObject() *Object {
	return &Object{values: map[string]interface{}{}}
}

func (o *Object) Set(key string, value interface{}) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *Object) Get(key string) (interface{}, bool) {
	value, ok := o.values[key]
	return value, ok
}

func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// setPath stores value at the nested location named by path, creating
// intermediate objects. A non-object value in the way is replaced.
func (o *Object) setPath(path []string, value interface{}) {
	current := o
	for _, key := range path[:len(path)-1] {
		child, ok := current.values[key].(*Object)
		if !ok {
			child = NewObject()
			current.Set(key, child)
		}
		current = child
	}
	current.Set(path[len(path)-1], value)
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, errors.Wrapf(err, "marshaling key '%s'", key)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, errors.Wrapf(err, "marshaling value of '%s'", key)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// inferJSONValue turns a command-line value into a JSON number or boolean
// when it looks like one, and a string otherwise.
func inferJSONValue(s string) interface{} {
	switch {
	case s == "true":
		return true
	case s == "false":
		return false
	case reJSONNumber.MatchString(s):
		return json.Number(s)
	default:
		return s
	}
}
