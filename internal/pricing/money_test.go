package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents int
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{999, "$9.99"},
		{2999, "$29.99"},
		{99900, "$999.00"},
		{109900, "$1099.00"},
		{-150, "-$1.50"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCents(tc.cents))
	}
}

func TestFormatRange(t *testing.T) {
	assert.Equal(t, "$999.00 - $1099.00", FormatRange(99900, 109900))
	assert.Equal(t, "$999.00", FormatRange(99900, 99900))
}
