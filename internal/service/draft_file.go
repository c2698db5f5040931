package service

import (
	"context"
	"fmt"
	"strings"

	"rideadmin/pricing/internal/cascade"
	"rideadmin/pricing/internal/domain"

	"gopkg.in/yaml.v3"
)

// DraftFile is a rule written by hand for the CLI. Levels may be given by id
// or by display name.
type DraftFile struct {
	Family         string            `yaml:"family"`
	RuleID         string            `yaml:"ruleId,omitempty"`
	Category       string            `yaml:"category"`
	SubCategory    string            `yaml:"subCategory"`
	SubSubCategory string            `yaml:"subSubCategory,omitempty"`
	Tier           string            `yaml:"tier"`
	Car            string            `yaml:"car,omitempty"`
	Fields         map[string]string `yaml:"fields"`
}

func ParseDraftFile(data []byte) (*DraftFile, error) {
	var df DraftFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse draft file: %w", err)
	}
	return &df, nil
}

// EditorFromDraftFile walks the cascade level by level, the same way a user
// would, so every choice is checked against the options its parents allow.
func (s *Service) EditorFromDraftFile(ctx context.Context, df *DraftFile) (*Editor, error) {
	family, err := domain.ParseRuleFamily(df.Family)
	if err != nil {
		return nil, err
	}

	editor, err := s.NewEditor(family)
	if err != nil {
		return nil, err
	}
	editor.ruleID = strings.TrimSpace(df.RuleID)

	view := editor.View()
	if view, err = choose(view.Categories, df.Category, editor.OnCategoryChange); err != nil {
		return nil, err
	}
	if view, err = choose(view.VisibleSubcategories, df.SubCategory, editor.OnSubcategoryChange); err != nil {
		return nil, err
	}
	if view.SubSubCategoryVisible {
		if view, err = choose(view.VisibleSubSubCategories, df.SubSubCategory, editor.OnSubSubCategoryChange); err != nil {
			return nil, err
		}
	}
	if view.TierLevelVisible {
		if view, err = s.RefreshVehicles(ctx, editor); err != nil {
			return nil, err
		}
		if view, err = choose(view.VisibleTierOptions, df.Tier, editor.OnTierChange); err != nil {
			return nil, err
		}
	}
	if view.CarLevelVisible {
		if _, err = choose(view.VisibleCars, df.Car, editor.OnCarChange); err != nil {
			return nil, err
		}
	}

	editor.SetFields(df.Fields)
	return editor, nil
}

// choose resolves ref against options and fires the level's change event.
// An empty ref leaves the level unset.
func choose(options []domain.Option, ref string, change func(string) (cascade.View, error)) (cascade.View, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return change("")
	}
	for _, o := range options {
		if o.ID == ref {
			return change(o.ID)
		}
	}
	for _, o := range options {
		if strings.EqualFold(o.Name, ref) {
			return change(o.ID)
		}
	}
	return cascade.View{}, fmt.Errorf("%w: %q", domain.ErrOptionNotVisible, ref)
}
