package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()

	testCases := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{name: "string", tag: "string"},
		{name: "integer", tag: "integer"},
		{name: "float", tag: "float"},
		{name: "boolean", tag: "boolean"},
		{name: "array", tag: "array"},
		{name: "json", tag: "json"},
		{name: "file", tag: "file"},
		{name: "encrypted", tag: "encrypted"},
		{name: "empty tag defaults to string", tag: ""},
		{name: "unknown tag", tag: "decimal", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ, err := r.Lookup(tc.tag)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidType)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, typ)
		})
	}
}

func TestRegistryRegisterCustomType(t *testing.T) {
	r := NewRegistry()
	r.Register("upper", StringType{})

	typ, err := r.Lookup("upper")
	require.NoError(t, err)
	assert.NotNil(t, typ)
	assert.Contains(t, r.Tags(), "upper")
}

func TestCast(t *testing.T) {
	testCases := []struct {
		name     string
		tag      string
		value    any
		expected any
	}{
		{name: "string identity", tag: "string", value: "hello", expected: "hello"},
		{name: "string from number", tag: "string", value: 42, expected: "42"},
		{name: "integer from string", tag: "integer", value: "3", expected: int64(3)},
		{name: "integer from float string", tag: "integer", value: "3.9", expected: int64(3)},
		{name: "integer from garbage", tag: "integer", value: "abc", expected: int64(0)},
		{name: "float from string", tag: "float", value: "2.5", expected: 2.5},
		{name: "boolean true literal", tag: "boolean", value: "true", expected: true},
		{name: "boolean numeric literal", tag: "boolean", value: "1", expected: true},
		{name: "boolean false literal", tag: "boolean", value: "0", expected: false},
		{name: "boolean native", tag: "boolean", value: true, expected: true},
		{name: "array from json", tag: "array", value: `["a","b"]`, expected: []any{"a", "b"}},
		{name: "array from invalid json", tag: "array", value: "{broken", expected: []any{}},
		{name: "array from null", tag: "array", value: "null", expected: []any{}},
		{name: "array passthrough", tag: "array", value: []any{"x"}, expected: []any{"x"}},
		{name: "array from scalar", tag: "array", value: 7, expected: []any{}},
		{name: "json preserves null", tag: "json", value: "null", expected: nil},
		{name: "json preserves scalar", tag: "json", value: "5", expected: float64(5)},
		{name: "json object", tag: "json", value: `{"a":1}`, expected: map[string]any{"a": float64(1)}},
		{name: "json invalid yields nil", tag: "json", value: "{broken", expected: nil},
		{name: "file passthrough", tag: "file", value: "/tmp/x.png", expected: "/tmp/x.png"},
		{name: "encrypted passthrough", tag: "encrypted", value: "s3cret", expected: "s3cret"},
	}

	r := NewRegistry()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ, err := r.Lookup(tc.tag)
			require.NoError(t, err)

			assert.Equal(t, tc.expected, typ.Cast(tc.value))
		})
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name  string
		tag   string
		value any
		valid bool
	}{
		{name: "string anything", tag: "string", value: 12, valid: true},
		{name: "integer numeric string", tag: "integer", value: "12", valid: true},
		{name: "integer garbage", tag: "integer", value: "twelve", valid: false},
		{name: "float numeric", tag: "float", value: 1.5, valid: true},
		{name: "float garbage", tag: "float", value: "x", valid: false},
		{name: "boolean literal", tag: "boolean", value: "1", valid: true},
		{name: "boolean yes is not a literal", tag: "boolean", value: "yes", valid: false},
		{name: "boolean native", tag: "boolean", value: false, valid: true},
		{name: "array container", tag: "array", value: map[string]any{}, valid: true},
		{name: "array parseable string", tag: "array", value: "[1]", valid: true},
		{name: "array broken string", tag: "array", value: "{", valid: false},
		{name: "array scalar", tag: "array", value: 3, valid: false},
		{name: "json non-string", tag: "json", value: 3, valid: true},
		{name: "json parseable string", tag: "json", value: `{"a":1}`, valid: true},
		{name: "json broken string", tag: "json", value: "{", valid: false},
		{name: "file string", tag: "file", value: "a/b", valid: true},
		{name: "file non-string", tag: "file", value: 1, valid: false},
		{name: "encrypted anything", tag: "encrypted", value: struct{}{}, valid: true},
	}

	r := NewRegistry()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ, err := r.Lookup(tc.tag)
			require.NoError(t, err)

			assert.Equal(t, tc.valid, typ.Validate(tc.value))
		})
	}
}

// Serializing a cast value and casting it again must be stable.
func TestCastSerializeRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		tag   string
		value any
	}{
		{name: "string", tag: "string", value: "hello"},
		{name: "integer", tag: "integer", value: "42"},
		{name: "float", tag: "float", value: "2.25"},
		{name: "boolean true", tag: "boolean", value: "true"},
		{name: "boolean false", tag: "boolean", value: "0"},
		{name: "array", tag: "array", value: `["a",1]`},
		{name: "json", tag: "json", value: `{"k":"v"}`},
		{name: "file", tag: "file", value: "uploads/logo.svg"},
	}

	r := NewRegistry()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ, err := r.Lookup(tc.tag)
			require.NoError(t, err)

			first := typ.Cast(tc.value)

			raw, err := typ.Serialize(first)
			require.NoError(t, err)

			assert.Equal(t, first, typ.Cast(raw))
		})
	}
}
