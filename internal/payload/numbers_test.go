package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"12.5", 12.5},
		{" 7 ", 7},
		{"25kg", 25},
		{"-3.25", -3.25},
		{".5", 0.5},
		{"1e3", 1000},
		{"", 0},
		{"abc", 0},
		{"Unlimited", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFloat(tt.input))
		})
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 12, ParseInt("12.9"))
	assert.Equal(t, -4, ParseInt("-4 minutes"))
	assert.Equal(t, 0, ParseInt("x"))
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"", "true", "TRUE", "1", "active", "yes", "on"} {
		assert.True(t, ParseBool(s), s)
	}
	for _, s := range []string{"false", "0", "inactive", "no"} {
		assert.False(t, ParseBool(s), s)
	}
}
