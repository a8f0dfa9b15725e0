package ctyconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestFromNativeToNative_RoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		value any
	}{
		{name: "null", value: nil},
		{name: "bool", value: true},
		{name: "string", value: "hello"},
		{name: "number", value: 4.5},
		{name: "empty list", value: []any{}},
		{name: "empty object", value: map[string]any{}},
		{name: "mixed list", value: []any{1.0, "two", false, nil}},
		{name: "nested object", value: map[string]any{
			"x":    2.0,
			"tags": []any{"a", "b"},
			"meta": map[string]any{"ok": true, "missing": nil},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cv, err := FromNative(tc.value)
			require.NoError(t, err)

			back, err := ToNative(cv)
			require.NoError(t, err)
			assert.Equal(t, tc.value, back)
		})
	}
}

func TestToNative_CollectionTypes(t *testing.T) {
	list := cty.ListVal([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})
	out, err := ToNative(list)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, out)

	m := cty.MapVal(map[string]cty.Value{"k": cty.StringVal("v")})
	out, err = ToNative(m)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"k": "v"}, out)
}

func TestToNative_RejectsUnknown(t *testing.T) {
	_, err := ToNative(cty.UnknownVal(cty.String))
	assert.ErrorContains(t, err, "not fully known")
}

func TestFromNative_RejectsUnsupported(t *testing.T) {
	_, err := FromNative(struct{}{})
	assert.ErrorContains(t, err, "unsupported value type")
}
