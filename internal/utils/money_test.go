package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	cases := []struct {
		cents    int32
		expected string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{123450, "$1,234.50"},
		{100000000, "$1,000,000.00"},
		{-2500, "-$25.00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, FormatCents(tc.cents))
	}
}
