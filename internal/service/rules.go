package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/domain/event"
	"rideadmin/pricing/internal/fare"
	"rideadmin/pricing/internal/listing"
	"rideadmin/pricing/internal/repository"

	log "github.com/sirupsen/logrus"
)

var errSnapshotsDisabled = errors.New("snapshot database is not configured")

// Submit builds the payload from editor and creates or replaces the rule. A
// validation or network failure leaves the editor untouched, so the user can
// fix the form or simply submit again.
func (s *Service) Submit(ctx context.Context, editor *Editor) (*domain.PricingRule, error) {
	p, err := editor.Build()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	family := editor.Family()
	ruleID := editor.RuleID()
	mode := event.SubmitModeCreate

	var rule *domain.PricingRule
	if ruleID == "" {
		rule, err = s.client.CreateRule(ctx, family, p)
	} else {
		mode = event.SubmitModeUpdate
		rule, err = s.client.UpdateRule(ctx, family, ruleID, p)
	}
	if err != nil {
		log.Errorf("❌ Failed to %s %s rule: %v", mode, family, err)
		return nil, err
	}

	if rule.ID == "" {
		rule.ID = ruleID
	}
	if rule.ID != "" {
		editor.mutex.Lock()
		editor.ruleID = rule.ID
		editor.mutex.Unlock()
	}

	submittedAt := s.now()

	if s.repository != nil && rule.ID != "" {
		snapshot := &repository.RuleSnapshot{
			RuleID:      rule.ID,
			Family:      family,
			Payload:     body,
			SubmittedAt: submittedAt,
		}
		if err := s.repository.SaveSnapshot(ctx, snapshot); err != nil {
			log.Warnf("⚠️ Rule %s saved but snapshot failed: %v", rule.ID, err)
		}
	}

	s.publish(ctx, &event.RuleSubmitted{
		Family:      family,
		RuleID:      rule.ID,
		Mode:        mode,
		Payload:     body,
		SubmittedAt: submittedAt,
	})

	log.Infof("✅ %s rule %s (%s)", family.GetFamilyName(), rule.ID, mode)
	return rule, nil
}

// ListRules fetches the whole collection of a family and filters and pages
// it in memory
func (s *Service) ListRules(ctx context.Context, family domain.RuleFamily, filter *listing.FilterState) (listing.Page[domain.PricingRule], error) {
	if filter == nil {
		filter = listing.NewFilterState(s.pageSize)
	}

	rules, err := s.client.ListRules(ctx, family)
	if err != nil {
		return listing.Page[domain.PricingRule]{}, err
	}

	return listing.Apply(rules, filter.Filter(), filter.Paging()), nil
}

// FindRule looks a rule up by id in its family's collection
func (s *Service) FindRule(ctx context.Context, family domain.RuleFamily, id string) (*domain.PricingRule, error) {
	rules, err := s.client.ListRules(ctx, family)
	if err != nil {
		return nil, err
	}
	for i := range rules {
		if rules[i].ID == id {
			return &rules[i], nil
		}
	}
	return nil, fmt.Errorf("%s rule %s: %w", family, id, domain.ErrNotFound)
}

func (s *Service) SetStatus(ctx context.Context, family domain.RuleFamily, id string, active bool) error {
	if err := s.client.SetRuleStatus(ctx, family, id, active); err != nil {
		return err
	}

	s.publish(ctx, &event.RuleStatusChanged{
		Family:    family,
		RuleID:    id,
		Active:    active,
		ChangedAt: s.now(),
	})
	return nil
}

// Delete removes a rule the way its family does it: cab and driver rules are
// switched off, the others are removed
func (s *Service) Delete(ctx context.Context, family domain.RuleFamily, id string) error {
	soft := family.DeletionMode() == domain.DeletionSoft

	var err error
	if soft {
		err = s.client.SetRuleStatus(ctx, family, id, false)
	} else {
		err = s.client.DeleteRule(ctx, family, id)
	}
	if err != nil {
		return err
	}

	s.publish(ctx, &event.RuleDeleted{
		Family:    family,
		RuleID:    id,
		Soft:      soft,
		DeletedAt: s.now(),
	})
	return nil
}

// LastSubmission returns the payload this tool last sent for a rule
func (s *Service) LastSubmission(ctx context.Context, family domain.RuleFamily, id string) (*repository.RuleSnapshot, error) {
	if s.repository == nil {
		return nil, errSnapshotsDisabled
	}
	return s.repository.GetSnapshot(ctx, family, id)
}

// Quote prices a trip under a stored rule
func (s *Service) Quote(ctx context.Context, family domain.RuleFamily, id string, trip fare.Trip) (fare.Breakdown, error) {
	rule, err := s.FindRule(ctx, family, id)
	if err != nil {
		return fare.Breakdown{}, err
	}
	return fare.Quote(*rule, trip), nil
}

func (s *Service) ListRides(ctx context.Context, query listing.RideQuery) (*domain.RidePage, error) {
	if query.Limit <= 0 {
		query.Limit = s.pageSize
	}
	return s.client.ListRides(ctx, query)
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if s.publisher == nil {
		return
	}
	if _, err := s.publisher.Publish(ctx, e); err != nil {
		log.Warnf("⚠️ Failed to publish %s: %v", e.EventType(), err)
	}
}
