package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCatalog() *Catalog {
	return &Catalog{
		Categories: []Category{{ID: "c1", Name: "Cab"}, {ID: "c2", Name: "Parcel"}},
		Subcategories: []Subcategory{
			{ID: "s1", Name: "Hourly", Category: NewRef("c1")},
			{ID: "s2", Name: "Outstation", Category: NewRef("c1")},
			{ID: "s3", Name: "Local", Category: NewRef("c2")},
		},
		SubSubCategories: []SubSubCategory{
			{ID: "ss1", Name: "Round Trip", Category: NewRef("c1"), SubCategory: NewRef("s2")},
			{ID: "ss2", Name: "Stray", Category: NewRef("c2"), SubCategory: NewRef("s2")},
		},
		Vehicles: []Vehicle{
			{ID: "v1", Name: "Truck", Category: NewRef("c2")},
			{ID: "v2", Name: "Scooter"},
			{ID: "v3", Name: "Rickshaw", Category: NewRef("c1")},
		},
		Cars: []Car{
			{ID: "car1", Name: "Dzire", Category: NewRef("p1")},
			{ID: "car2", Name: "Innova", Category: NewRef("p2")},
		},
		Loaded: true,
	}
}

func TestNameIn(t *testing.T) {
	catalog := testCatalog()

	assert.Equal(t, "Cab", NameIn("c1", catalog.Categories))
	assert.Equal(t, "Cab", NameIn(map[string]any{"_id": "c1"}, catalog.Categories))
	assert.Equal(t, "Bike", NameIn(Ref{ID: "c9", Name: "Bike"}, catalog.Categories))
	assert.Equal(t, UnknownName, NameIn("c9", catalog.Categories))
	assert.Equal(t, UnknownName, NameIn(nil, catalog.Categories))

	var missing *Category
	assert.NotPanics(t, func() {
		assert.Equal(t, UnknownName, NameIn(missing, catalog.Categories))
	})
	assert.Equal(t, UnknownName, NameIn(missing, []Category{}))
}

func TestCatalog_Children(t *testing.T) {
	catalog := testCatalog()

	assert.Len(t, catalog.SubcategoriesOf("c1"), 2)
	assert.Empty(t, catalog.SubcategoriesOf(""))

	// Both parents must match
	subSubs := catalog.SubSubCategoriesOf("c1", "s2")
	assert.Equal(t, []Option{{ID: "ss1", Name: "Round Trip"}}, Options(subSubs))

	assert.Equal(t, []Option{{ID: "v1", Name: "Truck"}, {ID: "v2", Name: "Scooter"}}, Options(catalog.VehiclesFor("c2")))
	assert.Equal(t, []Option{{ID: "car2", Name: "Innova"}}, Options(catalog.CarsOf("p2")))
	assert.Empty(t, catalog.CarsOf(""))
}

func TestCatalog_NilIsEmpty(t *testing.T) {
	var catalog *Catalog

	assert.Empty(t, catalog.SubcategoriesOf("c1"))
	assert.Empty(t, catalog.VehiclesFor("c1"))
	assert.Equal(t, UnknownName, catalog.CategoryName("c1"))
}

func TestFindByName(t *testing.T) {
	catalog := testCatalog()

	found, ok := FindByName(catalog.Categories, " parcel ")
	assert.True(t, ok)
	assert.Equal(t, "c2", found.ID)

	_, ok = FindByName(catalog.Categories, "Bike")
	assert.False(t, ok)
}

func TestRuleFamily(t *testing.T) {
	family, err := ParseRuleFamily("cab")
	assert.NoError(t, err)
	assert.Equal(t, RuleFamilyCab, family)
	assert.Equal(t, DeletionSoft, family.DeletionMode())
	assert.Equal(t, "/cab-fare-rules", family.Path())

	assert.Equal(t, DeletionHard, RuleFamilyWalletBalance.DeletionMode())

	_, err = ParseRuleFamily("bus")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}
