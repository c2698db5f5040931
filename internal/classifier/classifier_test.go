package classifier

import (
	"testing"

	"rideadmin/pricing/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Categories: []domain.Category{
			{ID: "c1", Name: "Cab"},
			{ID: "c2", Name: "PARCEL"},
			{ID: "c3", Name: "Cabin"},
		},
		Subcategories: []domain.Subcategory{
			{ID: "s1", Name: "Hourly", Category: domain.NewRef("c1")},
			{ID: "s2", Name: " Outstation ", Category: domain.NewRef("c1")},
			{ID: "s3", Name: "Hourly Package", Category: domain.NewRef("c1")},
		},
		Loaded: true,
	}
}

func TestClassify(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name        string
		category    any
		subcategory any
		expected    Flags
	}{
		{
			name:        "cab hourly by id",
			category:    "c1",
			subcategory: "s1",
			expected:    Flags{Cab: true, Hourly: true},
		},
		{
			name:        "parcel outstation is case and space insensitive",
			category:    "c2",
			subcategory: "s2",
			expected:    Flags{Parcel: true, Outstation: true},
		},
		{
			name:        "populated references",
			category:    domain.Category{ID: "c1", Name: "Cab"},
			subcategory: map[string]any{"_id": "s2", "name": "Outstation"},
			expected:    Flags{Cab: true, Outstation: true},
		},
		{
			name:        "exact match only",
			category:    "c3",
			subcategory: "s3",
			expected:    Flags{},
		},
		{
			name:        "unresolved ids are not matched",
			category:    "missing",
			subcategory: nil,
			expected:    Flags{},
		},
		{
			name:        "populated name is used when the catalog lacks the id",
			category:    domain.Ref{ID: "c9", Name: "cab"},
			subcategory: "",
			expected:    Flags{Cab: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.category, tt.subcategory, catalog))
		})
	}
}

func TestClassify_NilCatalog(t *testing.T) {
	assert.Equal(t, Flags{}, Classify("c1", "s1", nil))
	assert.Equal(t, domain.UnknownName, CategoryName("c1", nil))
}

func TestNames(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, "Cab", CategoryName("c1", catalog))
	assert.Equal(t, domain.UnknownName, CategoryName("", catalog))
	assert.Equal(t, "Hourly", SubcategoryName(domain.NewRef("s1"), catalog))
	assert.Equal(t, domain.UnknownName, SubcategoryName(42, catalog))

	var sub *domain.Subcategory
	assert.Equal(t, domain.UnknownName, SubcategoryName(sub, catalog))
	assert.False(t, IsHourly(sub, catalog))
}

func TestIsHourlyName(t *testing.T) {
	assert.True(t, IsHourlyName("HOURLY"))
	assert.False(t, IsHourlyName(domain.UnknownName))
	assert.False(t, IsHourlyName(""))
}
