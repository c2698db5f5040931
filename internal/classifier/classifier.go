// Package classifier decides the cascade branch from category and subcategory
// names. Every comparison is case-insensitive against a fixed literal, and a
// reference that cannot be resolved is simply "not matched".
package classifier

import (
	"strings"

	"rideadmin/pricing/internal/domain"
)

const (
	parcelName     = "parcel"
	cabName        = "cab"
	outstationName = "outstation"
	hourlyName     = "hourly"
)

// Flags are the branch flags derived from the current selection
type Flags struct {
	Parcel     bool `json:"is_parcel"`
	Cab        bool `json:"is_cab"`
	Outstation bool `json:"is_outstation"`
	Hourly     bool `json:"is_hourly"`
}

// CategoryName resolves a category-or-id to its display name
func CategoryName(ref any, catalog *domain.Catalog) string {
	return catalog.CategoryName(ref)
}

// SubcategoryName resolves a subcategory-or-id to its display name
func SubcategoryName(ref any, catalog *domain.Catalog) string {
	return catalog.SubcategoryName(ref)
}

func IsParcel(category any, catalog *domain.Catalog) bool {
	return nameIs(CategoryName(category, catalog), parcelName)
}

func IsCab(category any, catalog *domain.Catalog) bool {
	return nameIs(CategoryName(category, catalog), cabName)
}

func IsOutstation(subcategory any, catalog *domain.Catalog) bool {
	return nameIs(SubcategoryName(subcategory, catalog), outstationName)
}

func IsHourly(subcategory any, catalog *domain.Catalog) bool {
	return nameIs(SubcategoryName(subcategory, catalog), hourlyName)
}

// IsHourlyName classifies a subcategory name that is already resolved
func IsHourlyName(name string) bool {
	return nameIs(name, hourlyName)
}

// Classify computes all flags for a category/subcategory pair
func Classify(category, subcategory any, catalog *domain.Catalog) Flags {
	return Flags{
		Parcel:     IsParcel(category, catalog),
		Cab:        IsCab(category, catalog),
		Outstation: IsOutstation(subcategory, catalog),
		Hourly:     IsHourly(subcategory, catalog),
	}
}

func nameIs(name, literal string) bool {
	if name == domain.UnknownName {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(name), literal)
}
