package cascade

import (
	"fmt"

	"rideadmin/pricing/internal/domain"
)

// Config parametrizes the resolver for one rule family
type Config struct {
	Family domain.RuleFamily

	// TierLabel names the tier level in validation messages
	TierLabel string
	// TierField is the payload key of the tier on the non-parcel branch
	TierField string
	// HasCarLevel adds a Car level under the tier when the category is "cab"
	HasCarLevel bool
	// ParcelFieldSet switches "parcel" categories to vehicle tiers with a weight field
	ParcelFieldSet bool
}

const (
	TierFieldPriceCategory = "priceCategory"
	TierFieldCarCategory   = "carCategory"
	TierFieldVehicle       = "vehicle"
)

var (
	CabFare = Config{
		Family:         domain.RuleFamilyCab,
		TierLabel:      "car category",
		TierField:      TierFieldCarCategory,
		HasCarLevel:    true,
		ParcelFieldSet: true,
	}

	DriverFare = Config{
		Family:         domain.RuleFamilyDriver,
		TierLabel:      "price category",
		TierField:      TierFieldPriceCategory,
		HasCarLevel:    false,
		ParcelFieldSet: true,
	}

	RideCost = Config{
		Family:         domain.RuleFamilyRideCost,
		TierLabel:      "price category",
		TierField:      TierFieldPriceCategory,
		HasCarLevel:    true,
		ParcelFieldSet: true,
	}

	WalletBalance = Config{
		Family:         domain.RuleFamilyWalletBalance,
		TierLabel:      "price category",
		TierField:      TierFieldPriceCategory,
		HasCarLevel:    false,
		ParcelFieldSet: false,
	}
)

// ConfigFor returns the preset for a rule family
func ConfigFor(family domain.RuleFamily) (Config, error) {
	switch family {
	case domain.RuleFamilyCab:
		return CabFare, nil
	case domain.RuleFamilyDriver:
		return DriverFare, nil
	case domain.RuleFamilyRideCost:
		return RideCost, nil
	case domain.RuleFamilyWalletBalance:
		return WalletBalance, nil
	default:
		return Config{}, fmt.Errorf("%w: %q", domain.ErrUnknownFamily, family)
	}
}
