package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"rideadmin/pricing/internal/cascade"
	"rideadmin/pricing/internal/classifier"
	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/payload"

	log "github.com/sirupsen/logrus"
)

// Editor is one open rule form: the cascade selection plus the raw tariff
// fields. It is safe to use from several goroutines, so a vehicle fetch may
// complete on another goroutine than the one handling user input.
type Editor struct {
	mutex    sync.Mutex
	family   domain.RuleFamily
	ruleID   string // Empty until the rule exists on the server
	draftID  string
	resolver *cascade.Resolver
	fields   map[string]string
}

func newEditor(family domain.RuleFamily, catalog *domain.Catalog) (*Editor, error) {
	cfg, err := cascade.ConfigFor(family)
	if err != nil {
		return nil, err
	}
	return &Editor{
		family:   family,
		resolver: cascade.NewResolver(cfg, catalog),
		fields:   map[string]string{payload.FieldStatus: "true"},
	}, nil
}

func (e *Editor) Family() domain.RuleFamily {
	return e.family
}

func (e *Editor) RuleID() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.ruleID
}

func (e *Editor) DraftID() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.draftID
}

func (e *Editor) View() cascade.View {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.View()
}

func (e *Editor) OnCategoryChange(id string) (cascade.View, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.OnCategoryChange(id)
}

func (e *Editor) OnSubcategoryChange(id string) (cascade.View, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.OnSubcategoryChange(id)
}

func (e *Editor) OnSubSubCategoryChange(id string) (cascade.View, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.OnSubSubCategoryChange(id)
}

func (e *Editor) OnTierChange(id string) (cascade.View, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.OnTierChange(id)
}

func (e *Editor) OnCarChange(id string) (cascade.View, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.OnCarChange(id)
}

// SetCatalog installs a freshly loaded catalog
func (e *Editor) SetCatalog(catalog *domain.Catalog) cascade.View {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.SetCatalog(catalog)
}

func (e *Editor) SetField(name, value string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.fields[name] = value
}

func (e *Editor) SetFields(fields map[string]string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	for k, v := range fields {
		e.fields[k] = v
	}
}

// Fields returns a copy of the raw form fields
func (e *Editor) Fields() map[string]string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}

// MinutesLabel is the includedMinutes value as the rule list shows it
func (e *Editor) MinutesLabel() string {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	sub := e.resolver.Catalog().SubcategoryName(e.resolver.Selection().SubcategoryID)
	return payload.FormatMinutesDisplay(e.fields[payload.FieldIncludedMinutes], sub)
}

// Build validates the form and produces the submission body
func (e *Editor) Build() (*payload.Payload, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return payload.Build(e.resolver.Selection(), e.fields, payload.BranchOf(e.resolver))
}

func (e *Editor) beginVehicleFetch() (cascade.Ticket, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	if !e.resolver.NeedsVehicleFetch() {
		return cascade.Ticket{}, false
	}
	return e.resolver.BeginTierFetch(), true
}

func (e *Editor) applyVehicles(ticket cascade.Ticket, vehicles []domain.Vehicle) (cascade.View, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.resolver.ApplyVehicles(ticket, vehicles)
}

// NewEditor opens an empty form for family against the current catalog
func (s *Service) NewEditor(family domain.RuleFamily) (*Editor, error) {
	return newEditor(family, s.Catalog())
}

// EditRule opens a form pre-filled from a stored rule. The selection is
// hydrated in one step so none of the stored levels is reset.
func (s *Service) EditRule(ctx context.Context, family domain.RuleFamily, rule domain.PricingRule) (*Editor, error) {
	editor, err := s.NewEditor(family)
	if err != nil {
		return nil, err
	}

	if err := s.hydrate(ctx, editor, cascade.SelectionFromRule(rule)); err != nil {
		return nil, fmt.Errorf("failed to load %s rule %s for editing: %w", family, rule.ID, err)
	}

	editor.ruleID = rule.ID
	editor.fields = payload.FieldsFromRule(rule)
	return editor, nil
}

// RefreshVehicles fetches the vehicle options for a parcel selection. If the
// selection changes while the request is in flight the answer is dropped.
func (s *Service) RefreshVehicles(ctx context.Context, editor *Editor) (cascade.View, error) {
	ticket, ok := editor.beginVehicleFetch()
	if !ok {
		return editor.View(), nil
	}

	vehicles, err := s.client.ListVehicles(ctx, ticket.CategoryID())
	if err != nil {
		return editor.View(), fmt.Errorf("failed to fetch vehicles: %w", err)
	}

	view, err := editor.applyVehicles(ticket, vehicles)
	if errors.Is(err, domain.ErrStaleResponse) {
		log.Warnf("🔄 Discarded vehicles for category %s: selection changed while fetching", ticket.CategoryID())
		return view, nil
	}
	return view, err
}

// hydrate restores sel into editor, fetching parcel vehicles first when the
// stored vehicle is not part of the loaded catalog
func (s *Service) hydrate(ctx context.Context, editor *Editor, sel cascade.Selection) error {
	editor.mutex.Lock()
	defer editor.mutex.Unlock()

	resolver := editor.resolver
	catalog := resolver.Catalog()
	if !catalog.Loaded {
		return domain.ErrCatalogNotLoaded
	}

	parcel := resolver.Config().ParcelFieldSet && classifier.IsParcel(sel.CategoryID, catalog)
	if parcel && sel.TierID != "" && !domain.Contains(catalog.VehiclesFor(sel.CategoryID), sel.TierID) {
		vehicles, err := s.client.ListVehicles(ctx, sel.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to fetch vehicles: %w", err)
		}
		resolver.SeedVehicles(sel.CategoryID, vehicles)
	}

	_, err := resolver.Hydrate(sel)
	return err
}
