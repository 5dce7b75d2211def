// Package types implements the setting type registry. Each type tag maps
// to a cast/serialize/validate behavior triple used to move values
// between their raw string encoding and their typed form.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Known type tags.
const (
	TagString    = "string"
	TagInteger   = "integer"
	TagFloat     = "float"
	TagBoolean   = "boolean"
	TagArray     = "array"
	TagJSON      = "json"
	TagFile      = "file"
	TagEncrypted = "encrypted"
)

// ErrInvalidType is returned for an unrecognized type tag.
var ErrInvalidType = errors.New("unknown setting type")

// Type converts between the raw persisted representation of a setting
// value and its typed form.
type Type interface {
	// Cast converts a raw or loosely typed value to the typed form.
	Cast(value any) any
	// Serialize converts a typed value to its raw string encoding.
	Serialize(value any) (string, error)
	// Validate reports whether a value is acceptable for this type.
	Validate(value any) bool
}

// Registry maps type tags to their behavior. It is populated at startup
// and extensible by registering additional tags.
type Registry struct {
	types map[string]Type
}

// NewRegistry returns a registry with all built-in types registered.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Type)}

	r.Register(TagString, StringType{})
	r.Register(TagInteger, IntegerType{})
	r.Register(TagFloat, FloatType{})
	r.Register(TagBoolean, BooleanType{})
	r.Register(TagArray, ArrayType{})
	r.Register(TagJSON, JSONType{})
	r.Register(TagFile, FileType{})
	r.Register(TagEncrypted, EncryptedType{})

	return r
}

// Register adds or replaces the behavior for a tag.
func (r *Registry) Register(tag string, t Type) {
	r.types[tag] = t
}

// Lookup resolves a tag to its type. An empty tag resolves to string;
// an unknown tag fails with ErrInvalidType.
func (r *Registry) Lookup(tag string) (Type, error) {
	if tag == "" {
		tag = TagString
	}

	t, ok := r.types[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, tag)
	}

	return t, nil
}

// Tags returns all registered tags sorted alphabetically.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.types))
	for tag := range r.types {
		tags = append(tags, tag)
	}

	sort.Strings(tags)

	return tags
}

// StringType is the identity conversion.
type StringType struct{}

// Cast implements Type.
func (StringType) Cast(value any) any {
	return stringify(value)
}

// Serialize implements Type.
func (StringType) Serialize(value any) (string, error) {
	return stringify(value), nil
}

// Validate implements Type.
func (StringType) Validate(_ any) bool {
	return true
}

// IntegerType parses numeric values to int64.
type IntegerType struct{}

// Cast implements Type.
func (IntegerType) Cast(value any) any {
	f, ok := toFloat(value)
	if !ok {
		return int64(0)
	}

	return int64(f)
}

// Serialize implements Type.
func (IntegerType) Serialize(value any) (string, error) {
	f, _ := toFloat(value)

	return strconv.FormatInt(int64(f), 10), nil
}

// Validate implements Type.
func (IntegerType) Validate(value any) bool {
	_, ok := toFloat(value)

	return ok
}

// FloatType parses numeric values to float64.
type FloatType struct{}

// Cast implements Type.
func (FloatType) Cast(value any) any {
	f, _ := toFloat(value)

	return f
}

// Serialize implements Type.
func (FloatType) Serialize(value any) (string, error) {
	f, _ := toFloat(value)

	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Validate implements Type.
func (FloatType) Validate(value any) bool {
	_, ok := toFloat(value)

	return ok
}

// BooleanType parses permissive boolean literals.
type BooleanType struct{}

// Cast implements Type.
func (BooleanType) Cast(value any) any {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "on", "yes":
			return true
		default:
			return false
		}
	default:
		f, ok := toFloat(value)

		return ok && f == 1
	}
}

// Serialize implements Type.
func (b BooleanType) Serialize(value any) (string, error) {
	if v, ok := b.Cast(value).(bool); ok && v {
		return "1", nil
	}

	return "0", nil
}

// Validate implements Type. Only the literal boolean forms are accepted.
func (BooleanType) Validate(value any) bool {
	switch v := value.(type) {
	case bool:
		return true
	case string:
		return v == "1" || v == "0" || v == "true" || v == "false"
	default:
		f, ok := toFloat(value)

		return ok && (f == 0 || f == 1)
	}
}

// ArrayType holds structured data and coalesces anything unparsable to
// an empty container.
type ArrayType struct{}

// Cast implements Type.
func (ArrayType) Cast(value any) any {
	if s, ok := value.(string); ok {
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
			return []any{}
		}

		return out
	}

	if isContainer(value) {
		return value
	}

	return []any{}
}

// Serialize implements Type.
func (ArrayType) Serialize(value any) (string, error) {
	return marshalJSON(value)
}

// Validate implements Type.
func (ArrayType) Validate(value any) bool {
	if s, ok := value.(string); ok {
		return json.Valid([]byte(s))
	}

	return isContainer(value)
}

// JSONType holds structured data like ArrayType, but preserves null and
// scalar parse results faithfully instead of coalescing them.
type JSONType struct{}

// Cast implements Type.
func (JSONType) Cast(value any) any {
	if s, ok := value.(string); ok {
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil
		}

		return out
	}

	return value
}

// Serialize implements Type.
func (JSONType) Serialize(value any) (string, error) {
	return marshalJSON(value)
}

// Validate implements Type.
func (JSONType) Validate(value any) bool {
	if s, ok := value.(string); ok {
		return json.Valid([]byte(s))
	}

	return true
}

// FileType stores a path or URL as a plain string.
type FileType struct{}

// Cast implements Type.
func (FileType) Cast(value any) any {
	return stringify(value)
}

// Serialize implements Type.
func (FileType) Serialize(value any) (string, error) {
	return stringify(value), nil
}

// Validate implements Type.
func (FileType) Validate(value any) bool {
	_, ok := value.(string)

	return ok
}

// EncryptedType is a passthrough; the encryption itself is a
// storage-level transform applied outside the registry.
type EncryptedType struct{}

// Cast implements Type.
func (EncryptedType) Cast(value any) any {
	return value
}

// Serialize implements Type.
func (EncryptedType) Serialize(value any) (string, error) {
	return stringify(value), nil
}

// Validate implements Type.
func (EncryptedType) Validate(_ any) bool {
	return true
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// toFloat reports whether a value is numeric and returns it as float64.
// Numeric strings count as numeric, mirroring the loose input accepted
// on the write path.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()

		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

		return f, err == nil
	default:
		return 0, false
	}
}

func isContainer(value any) bool {
	if value == nil {
		return false
	}

	switch reflect.TypeOf(value).Kind() { //nolint:exhaustive // only containers matter
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}

func marshalJSON(value any) (string, error) {
	out, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("serialize structured value: %w", err)
	}

	return string(out), nil
}
