package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"rideadmin/pricing/internal/client"
	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/payload"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestReportValidation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "field errors",
			err:      payload.ValidationErrors{{Field: "category", Message: "required"}},
			expected: "  category: required\n",
		},
		{
			name:     "rejected by the admin API",
			err:      fmt.Errorf("failed to create cab rule: %w", &client.APIError{StatusCode: 409, Message: "rule exists"}),
			expected: "  rejected by the admin API (409): rule exists\n",
		},
		{
			name:     "server failure",
			err:      &client.APIError{StatusCode: 502, Message: "Bad Gateway"},
			expected: "",
		},
		{
			name:     "other error",
			err:      errors.New("boom"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			c := &cobra.Command{}
			c.SetErr(&stderr)

			err := reportValidation(c, tt.err)
			assert.Equal(t, tt.err, err)
			assert.Equal(t, tt.expected, stderr.String())
		})
	}
}

func TestLookupID(t *testing.T) {
	categories := []domain.Category{{ID: "c1", Name: "Cab"}}

	assert.Equal(t, "c1", lookupID(categories, "c1"))
	assert.Equal(t, "c1", lookupID(categories, "cab"))
	assert.Equal(t, "all", lookupID(categories, ""))
	assert.Equal(t, "c9", lookupID(categories, "c9"))
}
