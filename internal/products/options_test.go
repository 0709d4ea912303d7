package products

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsJSONRoundTripKeepsOrder(t *testing.T) {
	opts := Options{
		{Name: "color", Value: "Silver"},
		{Name: "storage", Value: "256GB"},
	}

	encoded, err := json.Marshal(opts)
	require.NoError(t, err)
	assert.Equal(t, `{"color":"Silver","storage":"256GB"}`, string(encoded))

	var decoded Options
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, opts, decoded)
}

func TestOptionsUnmarshalRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"array", `["color","Silver"]`},
		{"string", `"color"`},
		{"number value", `{"color":1}`},
		{"nested object", `{"color":{"v":"Silver"}}`},
		{"null value", `{"color":null}`},
		{"duplicate key", `{"color":"Silver","color":"Gold"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var decoded Options
			err := json.Unmarshal([]byte(tc.payload), &decoded)
			assert.Error(t, err)
		})
	}
}

func TestOptionsUnmarshalEmptyObject(t *testing.T) {
	var decoded Options
	require.NoError(t, json.Unmarshal([]byte(`{}`), &decoded))
	assert.Empty(t, decoded)
}

func TestOptionsSetAndGet(t *testing.T) {
	var opts Options
	opts = opts.Set("color", "Silver")
	opts = opts.Set("color", "Gold")
	opts = opts.Set("storage", "1TB")

	v, ok := opts.Get("color")
	assert.True(t, ok)
	assert.Equal(t, "Gold", v)

	_, ok = opts.Get("size")
	assert.False(t, ok)
	assert.Len(t, opts, 2)
}
