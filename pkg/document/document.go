// Package document provides path based access to sparse JSON answer documents.
//
// Reads go through gjson and never fail: a missing or malformed path resolves to a non-existent
// result. Writes go through sjson and always return a new byte slice.
package document

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var emptyObject = []byte("{}")

// Path joins key segments into a gjson/sjson path, escaping path syntax characters.
func Path(segments ...string) string {
	escaped := make([]string, 0, len(segments))
	for _, segment := range segments {
		escaped = append(escaped, escape(segment))
	}
	return strings.Join(escaped, ".")
}

func escape(segment string) string {
	var b strings.Builder
	for _, r := range segment {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', '(', ')', '[', ']', '{', '}', ',', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize returns doc or an empty object when doc is blank.
func Normalize(doc []byte) []byte {
	if len(strings.TrimSpace(string(doc))) == 0 || !gjson.ValidBytes(doc) {
		return emptyObject
	}
	return doc
}

// Get reads the value at the given key segments.
func Get(doc []byte, segments ...string) gjson.Result {
	if len(segments) == 0 {
		return gjson.ParseBytes(Normalize(doc))
	}
	return gjson.GetBytes(Normalize(doc), Path(segments...))
}

// Str reads a string answer, returning "" when absent.
func Str(doc []byte, segments ...string) string {
	result := Get(doc, segments...)
	if result.Type != gjson.String {
		return ""
	}
	return result.Str
}

// Answered reports whether the result holds a non-empty answer.
func Answered(result gjson.Result) bool {
	if !result.Exists() {
		return false
	}
	switch result.Type {
	case gjson.Null:
		return false
	case gjson.String:
		return strings.TrimSpace(result.Str) != ""
	case gjson.JSON:
		if result.IsArray() {
			return len(result.Array()) > 0
		}
		empty := true
		result.ForEach(func(_, _ gjson.Result) bool {
			empty = false
			return false
		})
		return !empty
	default:
		return true
	}
}

// Has reports whether the path holds a non-empty answer.
func Has(doc []byte, segments ...string) bool {
	return Answered(Get(doc, segments...))
}

// Set writes value at the given key segments, creating intermediate objects.
func Set(doc []byte, value interface{}, segments ...string) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", strings.Join(segments, "."), err)
	}
	return SetRaw(doc, raw, segments...)
}

// SetRaw writes already encoded JSON at the given key segments.
func SetRaw(doc []byte, raw []byte, segments ...string) ([]byte, error) {
	if len(segments) == 0 {
		return nil, fmt.Errorf("set requires a path")
	}
	out, err := sjson.SetRawBytes(clone(Normalize(doc)), Path(segments...), raw)
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", strings.Join(segments, "."), err)
	}
	return out, nil
}

// Delete removes the value at the given key segments. Deleting a missing path is a no-op.
func Delete(doc []byte, segments ...string) ([]byte, error) {
	doc = Normalize(doc)
	if !Get(doc, segments...).Exists() {
		return doc, nil
	}
	out, err := sjson.DeleteBytes(clone(doc), Path(segments...))
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", strings.Join(segments, "."), err)
	}
	return out, nil
}

// Append adds raw JSON to the end of the array at the given key segments.
func Append(doc []byte, raw []byte, segments ...string) ([]byte, error) {
	doc = Normalize(doc)
	list := Get(doc, segments...)
	if !list.Exists() {
		return SetRaw(doc, append(append([]byte("["), raw...), ']'), segments...)
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("append %s: not a list", strings.Join(segments, "."))
	}
	index := len(list.Array())
	return SetRaw(doc, raw, append(append([]string{}, segments...), strconv.Itoa(index))...)
}

// Pop removes the last element of the array at the given key segments and returns it.
// ok is false when the list is missing or empty.
func Pop(doc []byte, segments ...string) (out []byte, last gjson.Result, ok bool, err error) {
	doc = Normalize(doc)
	list := Get(doc, segments...)
	if !list.IsArray() {
		return doc, gjson.Result{}, false, nil
	}
	items := list.Array()
	if len(items) == 0 {
		return doc, gjson.Result{}, false, nil
	}
	last = items[len(items)-1]
	out, err = Delete(doc, append(append([]string{}, segments...), strconv.Itoa(len(items)-1))...)
	if err != nil {
		return nil, gjson.Result{}, false, err
	}
	return out, last, true, nil
}

// Decode unmarshals the value at the given key segments into a generic Go value.
// Missing paths decode to nil.
func Decode(doc []byte, segments ...string) (interface{}, error) {
	result := Get(doc, segments...)
	if !result.Exists() {
		return nil, nil
	}
	var value interface{}
	if err := json.Unmarshal([]byte(result.Raw), &value); err != nil {
		return nil, fmt.Errorf("decode %s: %w", strings.Join(segments, "."), err)
	}
	return value, nil
}

// Canonical round-trips value through JSON so Go values compare equal to decoded documents.
func Canonical(value interface{}) (interface{}, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EqualValue reports whether the document value at segments is structurally equal to value.
func EqualValue(doc []byte, value interface{}, segments ...string) (bool, error) {
	current, err := Decode(doc, segments...)
	if err != nil {
		return false, err
	}
	candidate, err := Canonical(value)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(current, candidate), nil
}

// Equal reports whether two documents are structurally equal, ignoring formatting and key order.
func Equal(a, b []byte) bool {
	var left, right interface{}
	if err := json.Unmarshal(Normalize(a), &left); err != nil {
		return false
	}
	if err := json.Unmarshal(Normalize(b), &right); err != nil {
		return false
	}
	return reflect.DeepEqual(left, right)
}

// Pretty returns an indented rendering with sorted keys.
func Pretty(doc []byte) []byte {
	return pretty.PrettyOptions(Normalize(doc), &pretty.Options{Width: 80, Indent: "  ", SortKeys: true})
}

func clone(doc []byte) []byte {
	out := make([]byte, len(doc))
	copy(out, doc)
	return out
}
