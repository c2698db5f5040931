package service

import (
	"context"
	"fmt"
	"sync"

	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/domain/event"
	"rideadmin/pricing/internal/listing"
	"rideadmin/pricing/internal/repository"
	"rideadmin/pricing/internal/state"
)

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Categories: []domain.Category{
			{ID: "c-cab", Name: "Cab"},
			{ID: "c-parcel", Name: "Parcel"},
			{ID: "c-bike", Name: "Bike"},
		},
		Subcategories: []domain.Subcategory{
			{ID: "s-hourly", Name: "Hourly", Category: domain.NewRef("c-cab")},
			{ID: "s-oneway", Name: "One-Way", Category: domain.NewRef("c-cab")},
			{ID: "s-out", Name: "Outstation", Category: domain.NewRef("c-cab")},
			{ID: "s-plocal", Name: "Local", Category: domain.NewRef("c-parcel")},
			{ID: "s-blocal", Name: "Local", Category: domain.NewRef("c-bike")},
		},
		SubSubCategories: []domain.SubSubCategory{
			{ID: "ss-round", Name: "Round Trip", Category: domain.NewRef("c-cab"), SubCategory: domain.NewRef("s-out")},
		},
		PriceCategories: []domain.PriceCategory{
			{ID: "p-sedan", Name: "Sedan"},
			{ID: "p-suv", Name: "SUV"},
		},
		Vehicles: []domain.Vehicle{
			{ID: "v-mini", Name: "Mini Truck", Category: domain.NewRef("c-parcel")},
		},
		Cars: []domain.Car{
			{ID: "car-dzire", Name: "Dzire", Category: domain.NewRef("p-sedan")},
			{ID: "car-innova", Name: "Innova", Category: domain.NewRef("p-suv")},
		},
	}
}

type fakeAdminClient struct {
	mutex sync.Mutex

	catalog            *domain.Catalog
	vehiclesByCategory map[string][]domain.Vehicle
	rules              map[domain.RuleFamily][]domain.PricingRule
	catalogErr         error
	onListVehicles     func(categoryID string)

	calls    []string
	lastBody any
	nextID   int
}

func newFakeAdminClient() *fakeAdminClient {
	return &fakeAdminClient{
		catalog: testCatalog(),
		vehiclesByCategory: map[string][]domain.Vehicle{
			"c-parcel": {
				{ID: "v-mini", Name: "Mini Truck", Category: domain.NewRef("c-parcel")},
				{ID: "v-van", Name: "Van", Category: domain.NewRef("c-parcel")},
			},
		},
		rules: map[domain.RuleFamily][]domain.PricingRule{},
	}
}

func (f *fakeAdminClient) record(call string) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeAdminClient) Calls() []string {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAdminClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return f.catalog.Categories, nil
}

func (f *fakeAdminClient) ListSubcategories(ctx context.Context) ([]domain.Subcategory, error) {
	return f.catalog.Subcategories, nil
}

func (f *fakeAdminClient) ListSubSubCategories(ctx context.Context) ([]domain.SubSubCategory, error) {
	return f.catalog.SubSubCategories, nil
}

func (f *fakeAdminClient) ListPriceCategories(ctx context.Context) ([]domain.PriceCategory, error) {
	return f.catalog.PriceCategories, nil
}

func (f *fakeAdminClient) ListVehicles(ctx context.Context, categoryID string) ([]domain.Vehicle, error) {
	if categoryID == "" {
		return f.catalog.Vehicles, nil
	}
	f.record("vehicles " + categoryID)
	if f.onListVehicles != nil {
		f.onListVehicles(categoryID)
	}
	return f.vehiclesByCategory[categoryID], nil
}

func (f *fakeAdminClient) ListCars(ctx context.Context) ([]domain.Car, error) {
	if f.catalogErr != nil {
		return nil, f.catalogErr
	}
	return f.catalog.Cars, nil
}

func (f *fakeAdminClient) ListRules(ctx context.Context, family domain.RuleFamily) ([]domain.PricingRule, error) {
	return f.rules[family], nil
}

func (f *fakeAdminClient) CreateRule(ctx context.Context, family domain.RuleFamily, body any) (*domain.PricingRule, error) {
	f.record("create " + family.String())
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.lastBody = body
	f.nextID++
	return &domain.PricingRule{ID: fmt.Sprintf("r-%d", f.nextID)}, nil
}

func (f *fakeAdminClient) UpdateRule(ctx context.Context, family domain.RuleFamily, id string, body any) (*domain.PricingRule, error) {
	f.record("update " + family.String() + " " + id)
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.lastBody = body
	return &domain.PricingRule{ID: id}, nil
}

func (f *fakeAdminClient) SetRuleStatus(ctx context.Context, family domain.RuleFamily, id string, active bool) error {
	f.record(fmt.Sprintf("status %s %s %t", family, id, active))
	return nil
}

func (f *fakeAdminClient) DeleteRule(ctx context.Context, family domain.RuleFamily, id string) error {
	f.record(fmt.Sprintf("delete %s %s", family, id))
	return nil
}

func (f *fakeAdminClient) ListRides(ctx context.Context, query listing.RideQuery) (*domain.RidePage, error) {
	f.record(fmt.Sprintf("rides limit=%d", query.Limit))
	return &domain.RidePage{Rides: []domain.Ride{}, Page: 1}, nil
}

type fakePublisher struct {
	events []event.Event
}

func (p *fakePublisher) Publish(ctx context.Context, e event.Event) (string, error) {
	p.events = append(p.events, e)
	return fmt.Sprintf("%d-0", len(p.events)), nil
}

func (p *fakePublisher) EnsureStream(ctx context.Context) error {
	return nil
}

type fakeRepository struct {
	snapshots map[string]*repository.RuleSnapshot
}

func (r *fakeRepository) EnsureSchema(ctx context.Context) error {
	return nil
}

func (r *fakeRepository) SaveSnapshot(ctx context.Context, snapshot *repository.RuleSnapshot) error {
	if r.snapshots == nil {
		r.snapshots = map[string]*repository.RuleSnapshot{}
	}
	r.snapshots[snapshot.Family.String()+"/"+snapshot.RuleID] = snapshot
	return nil
}

func (r *fakeRepository) GetSnapshot(ctx context.Context, family domain.RuleFamily, ruleID string) (*repository.RuleSnapshot, error) {
	snapshot, ok := r.snapshots[family.String()+"/"+ruleID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return snapshot, nil
}

type fakeDraftStore struct {
	drafts map[string]state.Draft
}

func (s *fakeDraftStore) Save(ctx context.Context, draft *state.Draft) error {
	if s.drafts == nil {
		s.drafts = map[string]state.Draft{}
	}
	s.drafts[draft.ID] = *draft
	return nil
}

func (s *fakeDraftStore) Load(ctx context.Context, id string) (*state.Draft, error) {
	draft, ok := s.drafts[id]
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	return &draft, nil
}

func (s *fakeDraftStore) Delete(ctx context.Context, id string) error {
	delete(s.drafts, id)
	return nil
}
