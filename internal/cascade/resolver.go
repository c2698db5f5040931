// Package cascade keeps a multi-level category selection consistent while it
// is edited. Each change to a level recomputes the visible options below it and
// clears the choices those options no longer contain, so a selection never
// points at an option the user could not have picked.
package cascade

import (
	"fmt"

	"rideadmin/pricing/internal/classifier"
	"rideadmin/pricing/internal/domain"
)

// Selection is the in-progress choice at every level. Empty means unset.
type Selection struct {
	CategoryID       string `json:"category_id" yaml:"category"`
	SubcategoryID    string `json:"subcategory_id" yaml:"subCategory"`
	SubSubCategoryID string `json:"sub_subcategory_id,omitempty" yaml:"subSubCategory,omitempty"`
	TierID           string `json:"tier_id" yaml:"tier"`
	CarID            string `json:"car_id,omitempty" yaml:"car,omitempty"`
}

// SelectionFromRule rebuilds the selection a stored rule was created from
func SelectionFromRule(rule domain.PricingRule) Selection {
	return Selection{
		CategoryID:       rule.Category.ID,
		SubcategoryID:    rule.SubCategory.ID,
		SubSubCategoryID: rule.SubSubCategory.ID,
		TierID:           rule.TierID(),
		CarID:            rule.Car.ID,
	}
}

// View is what the page renders after a transition
type View struct {
	Categories              []domain.Option  `json:"categories"`
	VisibleSubcategories    []domain.Option  `json:"visible_subcategories"`
	VisibleSubSubCategories []domain.Option  `json:"visible_sub_subcategories"`
	VisibleTierOptions      []domain.Option  `json:"visible_tier_options"`
	VisibleCars             []domain.Option  `json:"visible_cars"`
	Selection               Selection        `json:"selection"`
	State                   State            `json:"state"`
	Flags                   classifier.Flags `json:"flags"`
	TierField               string           `json:"tier_field"`

	SubSubCategoryVisible bool `json:"sub_subcategory_visible"`
	TierLevelVisible      bool `json:"tier_visible"`
	CarLevelVisible       bool `json:"car_visible"`
}

// Enabled reports whether a level's control accepts input: it must be shown
// and have at least one option.
func (v View) Enabled(level Level) bool {
	switch level {
	case LevelCategory:
		return len(v.Categories) > 0
	case LevelSubcategory:
		return v.Selection.CategoryID != "" && len(v.VisibleSubcategories) > 0
	case LevelSubSubCategory:
		return v.SubSubCategoryVisible && len(v.VisibleSubSubCategories) > 0
	case LevelTier:
		return v.TierLevelVisible && len(v.VisibleTierOptions) > 0
	case LevelCar:
		return v.CarLevelVisible && len(v.VisibleCars) > 0
	default:
		return false
	}
}

// Ticket binds an asynchronous tier fetch to the selection that started it
type Ticket struct {
	generation uint64
	categoryID string
}

func (t Ticket) CategoryID() string {
	return t.categoryID
}

type Resolver struct {
	cfg     Config
	catalog *domain.Catalog
	sel     Selection

	subcategories    []domain.Option
	subSubCategories []domain.Option
	tierOptions      []domain.Option
	cars             []domain.Option
	flags            classifier.Flags

	// Vehicles fetched for one category replace the catalog's vehicle list
	fetchedVehicles    []domain.Vehicle
	fetchedVehiclesFor string

	generation uint64
}

// NewResolver creates a resolver over catalog. A nil or unloaded catalog is
// valid: every downstream list is empty until SetCatalog is called.
func NewResolver(cfg Config, catalog *domain.Catalog) *Resolver {
	if catalog == nil {
		catalog = &domain.Catalog{}
	}
	r := &Resolver{cfg: cfg, catalog: catalog}
	r.recompute()
	return r
}

func (r *Resolver) Config() Config {
	return r.cfg
}

func (r *Resolver) Catalog() *domain.Catalog {
	return r.catalog
}

func (r *Resolver) Selection() Selection {
	return r.sel
}

func (r *Resolver) Flags() classifier.Flags {
	return r.flags
}

// OnCategoryChange selects a category and resets every level below it
func (r *Resolver) OnCategoryChange(id string) (View, error) {
	if id == r.sel.CategoryID {
		return r.View(), nil
	}
	if id != "" && !domain.Contains(r.catalog.Categories, id) {
		return r.View(), fmt.Errorf("%w: category %q", domain.ErrOptionNotVisible, id)
	}

	r.sel = Selection{CategoryID: id}
	r.generation++
	r.recompute()
	return r.View(), nil
}

// OnSubcategoryChange selects a subcategory and resets the sub-subcategory, tier and car
func (r *Resolver) OnSubcategoryChange(id string) (View, error) {
	if id == r.sel.SubcategoryID {
		return r.View(), nil
	}
	if id != "" && !containsOption(r.subcategories, id) {
		return r.View(), fmt.Errorf("%w: subcategory %q", domain.ErrOptionNotVisible, id)
	}

	r.sel.SubcategoryID = id
	r.sel.SubSubCategoryID = ""
	r.sel.TierID = ""
	r.sel.CarID = ""
	r.generation++
	r.recompute()
	return r.View(), nil
}

// OnSubSubCategoryChange selects a sub-subcategory on the outstation path and
// opens the tier level
func (r *Resolver) OnSubSubCategoryChange(id string) (View, error) {
	if id == r.sel.SubSubCategoryID {
		return r.View(), nil
	}
	if !r.flags.Outstation {
		return r.View(), fmt.Errorf("%w: sub-subcategory level is hidden", domain.ErrOptionNotVisible)
	}
	if id != "" && !containsOption(r.subSubCategories, id) {
		return r.View(), fmt.Errorf("%w: sub-subcategory %q", domain.ErrOptionNotVisible, id)
	}

	// Vehicles depend on category and subcategory only, so an in-flight
	// fetch stays valid
	r.sel.SubSubCategoryID = id
	r.sel.TierID = ""
	r.sel.CarID = ""
	r.recompute()
	return r.View(), nil
}

// OnTierChange selects a price category or vehicle and, on the cab branch,
// narrows the cars to that car category
func (r *Resolver) OnTierChange(id string) (View, error) {
	if id == r.sel.TierID {
		return r.View(), nil
	}
	if !r.tierLevelVisible() {
		return r.View(), fmt.Errorf("%w: %s level is hidden", domain.ErrOptionNotVisible, r.tierLabel())
	}
	if id != "" && !containsOption(r.tierOptions, id) {
		return r.View(), fmt.Errorf("%w: %s %q", domain.ErrOptionNotVisible, r.tierLabel(), id)
	}

	r.sel.TierID = id
	r.sel.CarID = ""
	r.recompute()
	return r.View(), nil
}

func (r *Resolver) OnCarChange(id string) (View, error) {
	if id == r.sel.CarID {
		return r.View(), nil
	}
	if !r.carLevelVisible() {
		return r.View(), fmt.Errorf("%w: car level is hidden", domain.ErrOptionNotVisible)
	}
	if id != "" && !containsOption(r.cars, id) {
		return r.View(), fmt.Errorf("%w: car %q", domain.ErrOptionNotVisible, id)
	}

	r.sel.CarID = id
	return r.View(), nil
}

// Hydrate loads a stored selection for editing. No resets fire: each level is
// checked against the options its parents make visible and kept as is. On
// error the resolver is left exactly as it was.
func (r *Resolver) Hydrate(sel Selection) (View, error) {
	next := *r
	next.sel = Selection{}
	next.recompute()

	steps := []struct {
		level Level
		id    string
		apply func(string)
	}{
		{LevelCategory, sel.CategoryID, func(id string) { next.sel.CategoryID = id }},
		{LevelSubcategory, sel.SubcategoryID, func(id string) { next.sel.SubcategoryID = id }},
		{LevelSubSubCategory, sel.SubSubCategoryID, func(id string) { next.sel.SubSubCategoryID = id }},
		{LevelTier, sel.TierID, func(id string) { next.sel.TierID = id }},
		{LevelCar, sel.CarID, func(id string) { next.sel.CarID = id }},
	}

	for _, step := range steps {
		if step.id == "" {
			continue
		}
		if !next.levelVisible(step.level) || !containsOption(next.optionsFor(step.level), step.id) {
			return r.View(), fmt.Errorf("%w: cannot restore %s %q", domain.ErrOptionNotVisible, step.level, step.id)
		}
		step.apply(step.id)
		next.recompute()
	}

	next.generation++
	*r = next
	return r.View(), nil
}

// SetCatalog swaps in a (re)loaded catalog. Selections that no longer resolve
// are cleared together with everything below them.
func (r *Resolver) SetCatalog(catalog *domain.Catalog) View {
	if catalog == nil {
		catalog = &domain.Catalog{}
	}
	r.catalog = catalog
	r.revalidate()
	return r.View()
}

// BeginTierFetch starts an asynchronous vehicle fetch for the current category
func (r *Resolver) BeginTierFetch() Ticket {
	return Ticket{generation: r.generation, categoryID: r.sel.CategoryID}
}

// ApplyVehicles installs fetched vehicles unless the selection moved on since
// the ticket was issued, in which case ErrStaleResponse is returned and
// nothing changes.
func (r *Resolver) ApplyVehicles(ticket Ticket, vehicles []domain.Vehicle) (View, error) {
	if ticket.generation != r.generation || ticket.categoryID != r.sel.CategoryID {
		return r.View(), fmt.Errorf("%w: vehicles for category %q", domain.ErrStaleResponse, ticket.categoryID)
	}
	r.fetchedVehicles = vehicles
	r.fetchedVehiclesFor = ticket.categoryID
	r.revalidate()
	return r.View(), nil
}

// SeedVehicles installs vehicles for a category before Hydrate, when editing a
// parcel rule whose vehicles are not part of the catalog.
func (r *Resolver) SeedVehicles(categoryID string, vehicles []domain.Vehicle) {
	r.fetchedVehicles = vehicles
	r.fetchedVehiclesFor = categoryID
	r.revalidate()
}

// NeedsVehicleFetch reports whether the tier level is on the parcel branch
func (r *Resolver) NeedsVehicleFetch() bool {
	return r.parcelBranch() && r.sel.SubcategoryID != ""
}

func (r *Resolver) State() State {
	switch {
	case r.sel.CategoryID == "":
		return NoCategory
	case r.sel.SubcategoryID == "":
		return CategorySelected
	case r.flags.Outstation && r.sel.SubSubCategoryID == "":
		return AwaitingSubSubCategory
	case r.sel.TierID == "" && len(r.tierOptions) == 0:
		return SubcategorySelected
	case r.sel.TierID == "":
		return TierVisible
	case r.carLevelVisible() && r.sel.CarID == "":
		return CarVisible
	default:
		return Ready
	}
}

// Complete reports whether every level required by the current branch is set
func (r *Resolver) Complete() bool {
	return r.State() == Ready
}

// Missing lists the payload keys of required levels that are still empty
func (r *Resolver) Missing() []string {
	missing := make([]string, 0)
	if r.sel.CategoryID == "" {
		missing = append(missing, "category")
	}
	if r.sel.SubcategoryID == "" {
		missing = append(missing, "subCategory")
	}
	if r.flags.Outstation && r.sel.SubSubCategoryID == "" {
		missing = append(missing, "subSubCategory")
	}
	if r.sel.TierID == "" {
		missing = append(missing, r.TierField())
	}
	if r.carLevelVisible() && r.sel.CarID == "" {
		missing = append(missing, "car")
	}
	return missing
}

// TierField is the payload key of the tier for the current branch
func (r *Resolver) TierField() string {
	if r.parcelBranch() {
		return TierFieldVehicle
	}
	return r.cfg.TierField
}

// ParcelBranch reports whether the vehicle tier and weight field are active
func (r *Resolver) ParcelBranch() bool {
	return r.parcelBranch()
}

// CarLevel reports whether the current branch requires a car
func (r *Resolver) CarLevel() bool {
	return r.carLevelEnabled()
}

func (r *Resolver) View() View {
	return View{
		Categories:              domain.Options(r.catalog.Categories),
		VisibleSubcategories:    cloneOptions(r.subcategories),
		VisibleSubSubCategories: cloneOptions(r.subSubCategories),
		VisibleTierOptions:      cloneOptions(r.tierOptions),
		VisibleCars:             cloneOptions(r.cars),
		Selection:               r.sel,
		State:                   r.State(),
		Flags:                   r.flags,
		TierField:               r.TierField(),
		SubSubCategoryVisible:   r.flags.Outstation,
		TierLevelVisible:        r.tierLevelVisible(),
		CarLevelVisible:         r.carLevelVisible(),
	}
}

func (r *Resolver) parcelBranch() bool {
	return r.cfg.ParcelFieldSet && r.flags.Parcel
}

func (r *Resolver) carLevelEnabled() bool {
	return r.cfg.HasCarLevel && r.flags.Cab && !r.parcelBranch()
}

func (r *Resolver) tierLevelVisible() bool {
	if r.sel.SubcategoryID == "" {
		return false
	}
	return !r.flags.Outstation || r.sel.SubSubCategoryID != ""
}

func (r *Resolver) carLevelVisible() bool {
	return r.carLevelEnabled() && r.sel.TierID != ""
}

func (r *Resolver) tierLabel() string {
	if r.parcelBranch() {
		return "vehicle"
	}
	return r.cfg.TierLabel
}

func (r *Resolver) levelVisible(level Level) bool {
	switch level {
	case LevelCategory:
		return true
	case LevelSubcategory:
		return r.sel.CategoryID != ""
	case LevelSubSubCategory:
		return r.flags.Outstation
	case LevelTier:
		return r.tierLevelVisible()
	case LevelCar:
		return r.carLevelVisible()
	default:
		return false
	}
}

func (r *Resolver) optionsFor(level Level) []domain.Option {
	switch level {
	case LevelCategory:
		return domain.Options(r.catalog.Categories)
	case LevelSubcategory:
		return r.subcategories
	case LevelSubSubCategory:
		return r.subSubCategories
	case LevelTier:
		return r.tierOptions
	case LevelCar:
		return r.cars
	default:
		return nil
	}
}

// recompute derives flags and every visible list from the current selection.
// It never changes the selection.
func (r *Resolver) recompute() {
	r.flags = classifier.Classify(r.sel.CategoryID, r.sel.SubcategoryID, r.catalog)

	r.subcategories = domain.Options(r.catalog.SubcategoriesOf(r.sel.CategoryID))

	r.subSubCategories = []domain.Option{}
	if r.flags.Outstation {
		r.subSubCategories = domain.Options(r.catalog.SubSubCategoriesOf(r.sel.CategoryID, r.sel.SubcategoryID))
	}

	r.tierOptions = []domain.Option{}
	if r.tierLevelVisible() {
		if r.parcelBranch() {
			r.tierOptions = domain.Options(r.vehicles())
		} else {
			r.tierOptions = domain.Options(r.catalog.PriceCategories)
		}
	}

	r.cars = []domain.Option{}
	if r.carLevelVisible() {
		r.cars = domain.Options(r.catalog.CarsOf(r.sel.TierID))
	}
}

// revalidate recomputes the lists and clears the first level whose choice is no
// longer visible, along with every level below it. Only clearing the category
// or subcategory invalidates in-flight vehicle fetches.
func (r *Resolver) revalidate() {
	r.recompute()

	checks := []struct {
		level    Level
		id       string
		upstream bool
		clear    func()
	}{
		{LevelCategory, r.sel.CategoryID, true, func() { r.sel = Selection{} }},
		{LevelSubcategory, r.sel.SubcategoryID, true, func() {
			r.sel.SubcategoryID, r.sel.SubSubCategoryID, r.sel.TierID, r.sel.CarID = "", "", "", ""
		}},
		{LevelSubSubCategory, r.sel.SubSubCategoryID, false, func() {
			r.sel.SubSubCategoryID, r.sel.TierID, r.sel.CarID = "", "", ""
		}},
		{LevelTier, r.sel.TierID, false, func() { r.sel.TierID, r.sel.CarID = "", "" }},
		{LevelCar, r.sel.CarID, false, func() { r.sel.CarID = "" }},
	}

	for _, check := range checks {
		if check.id == "" {
			continue
		}
		if r.levelVisible(check.level) && containsOption(r.optionsFor(check.level), check.id) {
			continue
		}
		check.clear()
		if check.upstream {
			r.generation++
		}
		r.recompute()
		return
	}
}

func (r *Resolver) vehicles() []domain.Vehicle {
	if r.fetchedVehiclesFor != "" && r.fetchedVehiclesFor == r.sel.CategoryID {
		return r.fetchedVehicles
	}
	return r.catalog.VehiclesFor(r.sel.CategoryID)
}

func containsOption(options []domain.Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func cloneOptions(options []domain.Option) []domain.Option {
	out := make([]domain.Option, len(options))
	copy(out, options)
	return out
}
