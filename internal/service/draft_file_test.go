package service

import (
	"context"
	"testing"

	"rideadmin/pricing/internal/cascade"
	"rideadmin/pricing/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorFromDraftFile_ByName(t *testing.T) {
	f := newFixture(t)
	df, err := ParseDraftFile([]byte(`
family: cab
category: cab
subCategory: Hourly
tier: sedan
car: Dzire
fields:
  baseFare: "150"
  includedMinutes: "120"
`))
	require.NoError(t, err)

	editor, err := f.service.EditorFromDraftFile(context.Background(), df)
	require.NoError(t, err)

	assert.Equal(t, cascade.Ready, editor.View().State)
	assert.Equal(t, "120 (2h)", editor.MinutesLabel())

	p, err := editor.Build()
	require.NoError(t, err)
	assert.Equal(t, "p-sedan", p.CarCategory)
	assert.Equal(t, "car-dzire", p.Car)
	assert.Equal(t, 150.0, p.BaseFare)
}

func TestEditorFromDraftFile_ParcelUsesFetchedVehicles(t *testing.T) {
	f := newFixture(t)
	df, err := ParseDraftFile([]byte(`
family: ride-cost
ruleId: rc9
category: c-parcel
subCategory: s-plocal
tier: Van
fields:
  weight: "15"
`))
	require.NoError(t, err)

	editor, err := f.service.EditorFromDraftFile(context.Background(), df)
	require.NoError(t, err)
	assert.Equal(t, "rc9", editor.RuleID())

	p, err := editor.Build()
	require.NoError(t, err)
	assert.Equal(t, "v-van", p.Vehicle)
	require.NotNil(t, p.Weight)
	assert.Equal(t, 15.0, *p.Weight)
}

func TestEditorFromDraftFile_Errors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"unknown family", "family: bus\n", domain.ErrUnknownFamily},
		{"unknown category", "family: cab\ncategory: Boat\n", domain.ErrOptionNotVisible},
		{"subcategory of another category", "family: driver\ncategory: Cab\nsubCategory: s-plocal\n", domain.ErrOptionNotVisible},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			df, err := ParseDraftFile([]byte(tt.content))
			require.NoError(t, err)

			_, err = f.service.EditorFromDraftFile(context.Background(), df)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestParseDraftFile_Invalid(t *testing.T) {
	_, err := ParseDraftFile([]byte("family: [cab"))
	assert.Error(t, err)
}
