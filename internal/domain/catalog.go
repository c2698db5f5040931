package domain

import "strings"

// UnknownName is shown whenever a reference cannot be dereferenced
const UnknownName = "Unknown"

// Identifiable is implemented by every catalog entity
type Identifiable interface {
	GetID() string
	GetName() string
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type Subcategory struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category Ref    `json:"category"`
}

type SubSubCategory struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Category    Ref    `json:"category"`
	SubCategory Ref    `json:"subCategory"`
}

// PriceCategory is the tariff tier for driver and cab rules. For cab rules it
// doubles as the car category that Cars hang off.
type PriceCategory struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Vehicle is the tariff tier on the parcel branch
type Vehicle struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category Ref    `json:"category"` // Empty when the vehicle serves every category
}

type Car struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category Ref    `json:"category"` // PriceCategory id
}

func (c Category) GetID() string         { return c.ID }
func (c Category) GetName() string       { return c.Name }
func (s Subcategory) GetID() string      { return s.ID }
func (s Subcategory) GetName() string    { return s.Name }
func (s SubSubCategory) GetID() string   { return s.ID }
func (s SubSubCategory) GetName() string { return s.Name }
func (p PriceCategory) GetID() string    { return p.ID }
func (p PriceCategory) GetName() string  { return p.Name }
func (v Vehicle) GetID() string          { return v.ID }
func (v Vehicle) GetName() string        { return v.Name }
func (c Car) GetID() string              { return c.ID }
func (c Car) GetName() string            { return c.Name }

// Option is one entry of a visible selection list
type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Catalog is the read-only hierarchy the cascade resolves against. The zero
// value is a valid "not loaded yet" catalog.
type Catalog struct {
	Categories       []Category       `json:"categories"`
	Subcategories    []Subcategory    `json:"subcategories"`
	SubSubCategories []SubSubCategory `json:"sub_subcategories"`
	PriceCategories  []PriceCategory  `json:"price_categories"`
	Vehicles         []Vehicle        `json:"vehicles"`
	Cars             []Car            `json:"cars"`
	Loaded           bool             `json:"loaded"`
}

// NameIn dereferences ref against list. Empty or unresolved references return UnknownName.
func NameIn[T Identifiable](ref any, list []T) string {
	id := ExtractID(ref)
	if id == "" {
		return UnknownName
	}
	for _, item := range list {
		if item.GetID() == id {
			return item.GetName()
		}
	}

	// A populated reference carries its own name
	switch r := ref.(type) {
	case Ref:
		if r.Name != "" {
			return r.Name
		}
	case Identifiable:
		if r.GetName() != "" {
			return r.GetName()
		}
	}
	return UnknownName
}

// Contains reports whether id is present in list
func Contains[T Identifiable](list []T, id string) bool {
	for _, item := range list {
		if item.GetID() == id {
			return true
		}
	}
	return false
}

// Options converts entities into display options
func Options[T Identifiable](list []T) []Option {
	options := make([]Option, 0, len(list))
	for _, item := range list {
		options = append(options, Option{ID: item.GetID(), Name: item.GetName()})
	}
	return options
}

func (c *Catalog) CategoryName(ref any) string {
	if c == nil {
		return NameIn[Category](ref, nil)
	}
	return NameIn(ref, c.Categories)
}

func (c *Catalog) SubcategoryName(ref any) string {
	if c == nil {
		return NameIn[Subcategory](ref, nil)
	}
	return NameIn(ref, c.Subcategories)
}

// SubcategoriesOf returns subcategories whose parent is categoryID
func (c *Catalog) SubcategoriesOf(categoryID string) []Subcategory {
	result := make([]Subcategory, 0)
	if c == nil || categoryID == "" {
		return result
	}
	for _, sub := range c.Subcategories {
		if sub.Category.ID == categoryID {
			result = append(result, sub)
		}
	}
	return result
}

// SubSubCategoriesOf returns sub-subcategories matching both parent ids
func (c *Catalog) SubSubCategoriesOf(categoryID, subcategoryID string) []SubSubCategory {
	result := make([]SubSubCategory, 0)
	if c == nil || categoryID == "" || subcategoryID == "" {
		return result
	}
	for _, ssc := range c.SubSubCategories {
		if ssc.Category.ID == categoryID && ssc.SubCategory.ID == subcategoryID {
			result = append(result, ssc)
		}
	}
	return result
}

// VehiclesFor returns vehicles bound to categoryID plus the unbound ones
func (c *Catalog) VehiclesFor(categoryID string) []Vehicle {
	result := make([]Vehicle, 0)
	if c == nil {
		return result
	}
	for _, v := range c.Vehicles {
		if v.Category.IsZero() || v.Category.ID == categoryID {
			result = append(result, v)
		}
	}
	return result
}

// CarsOf returns cars whose car category is priceCategoryID
func (c *Catalog) CarsOf(priceCategoryID string) []Car {
	result := make([]Car, 0)
	if c == nil || priceCategoryID == "" {
		return result
	}
	for _, car := range c.Cars {
		if car.Category.ID == priceCategoryID {
			result = append(result, car)
		}
	}
	return result
}

// FindByName does a case-insensitive lookup, used by draft files that name
// levels instead of giving ids.
func FindByName[T Identifiable](list []T, name string) (T, bool) {
	name = strings.TrimSpace(name)
	for _, item := range list {
		if strings.EqualFold(strings.TrimSpace(item.GetName()), name) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
