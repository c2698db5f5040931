package domain

import "fmt"

type RuleFamily string

func (f RuleFamily) String() string {
	return string(f)
}

const (
	RuleFamilyCab           RuleFamily = "cab"       // Cab fare rules
	RuleFamilyDriver        RuleFamily = "driver"    // Driver fare rules
	RuleFamilyRideCost      RuleFamily = "ride-cost" // Generic ride cost rules
	RuleFamilyWalletBalance RuleFamily = "wallet"    // Minimum wallet balance rules
)

var RuleFamilies = []RuleFamily{
	RuleFamilyCab,
	RuleFamilyDriver,
	RuleFamilyRideCost,
	RuleFamilyWalletBalance,
}

// DeletionMode says how a family removes rules
type DeletionMode int

const (
	// DeletionSoft flips the status flag off
	DeletionSoft DeletionMode = iota
	// DeletionHard removes the record
	DeletionHard
)

func ParseRuleFamily(s string) (RuleFamily, error) {
	for _, f := range RuleFamilies {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFamily, s)
}

func (f RuleFamily) GetFamilyName() string {
	switch f {
	case RuleFamilyCab:
		return "Cab Fare Rules"
	case RuleFamilyDriver:
		return "Driver Fare Rules"
	case RuleFamilyRideCost:
		return "Ride Cost Rules"
	case RuleFamilyWalletBalance:
		return "Minimum Wallet Balance"
	default:
		return UnknownName
	}
}

// Path is the collection path on the admin API
func (f RuleFamily) Path() string {
	switch f {
	case RuleFamilyCab:
		return "/cab-fare-rules"
	case RuleFamilyDriver:
		return "/driver-fare-rules"
	case RuleFamilyRideCost:
		return "/ride-costs"
	case RuleFamilyWalletBalance:
		return "/min-wallet-balances"
	default:
		return ""
	}
}

func (f RuleFamily) DeletionMode() DeletionMode {
	switch f {
	case RuleFamilyCab, RuleFamilyDriver:
		return DeletionSoft
	default:
		return DeletionHard
	}
}
