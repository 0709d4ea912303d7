package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/products"
)

func TestParseSelectedOptions(t *testing.T) {
	selected, err := parseSelectedOptions([]string{"color:Silver", "storage:256GB"})
	require.NoError(t, err)
	assert.Equal(t, products.Options{
		{Name: "color", Value: "Silver"},
		{Name: "storage", Value: "256GB"},
	}, selected)
}

func TestParseSelectedOptionsLastValueWins(t *testing.T) {
	selected, err := parseSelectedOptions([]string{"color:Silver", "color:Black"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "Black", selected[0].Value)
}

func TestParseSelectedOptionsRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"color", ":Silver", "color:", ""} {
		_, err := parseSelectedOptions([]string{bad})
		assert.Error(t, err, "entry %q", bad)
	}
}

func TestParseSelectedOptionsEmpty(t *testing.T) {
	selected, err := parseSelectedOptions(nil)
	require.NoError(t, err)
	assert.Empty(t, selected)
}
