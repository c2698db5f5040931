package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinutesDisplay(t *testing.T) {
	tests := []struct {
		name        string
		minutes     string
		subcategory string
		expected    string
	}{
		{"whole hours under hourly", "120", "Hourly", "120 (2h)"},
		{"case insensitive subcategory", "60", "HOURLY", "60 (1h)"},
		{"non numeric is unchanged", "Unlimited", "Hourly", "Unlimited"},
		{"partial hour is unchanged", "90", "Hourly", "90"},
		{"zero is unchanged", "0", "Hourly", "0"},
		{"other subcategory", "120", "Outstation", "120"},
		{"unknown subcategory", "120", "Unknown", "120"},
		{"trimmed", " 180 ", "Hourly", "180 (3h)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMinutesDisplay(tt.minutes, tt.subcategory))
		})
	}
}
