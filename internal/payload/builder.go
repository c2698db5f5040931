// Package payload turns a resolved cascade selection and the raw form fields
// into the body the admin API accepts for creating or replacing a rule.
package payload

import (
	"strings"

	"rideadmin/pricing/internal/cascade"
	"rideadmin/pricing/internal/domain"
)

// Raw form keys. They match the JSON keys of the payload.
const (
	FieldBaseFare                  = "baseFare"
	FieldIncludedKm                = "includedKm"
	FieldIncludedMinutes           = "includedMinutes"
	FieldExtraPerKm                = "extraPerKm"
	FieldExtraPerMinute            = "extraPerMinute"
	FieldNightCharge               = "nightCharge"
	FieldPeakCharge                = "peakCharge"
	FieldCancellationFee           = "cancellationFee"
	FieldCancellationBufferMinutes = "cancellationBufferMinutes"
	FieldInsurance                 = "insurance"
	FieldAdminCommission           = "adminCommission"
	FieldGST                       = "gst"
	FieldDiscount                  = "discount"
	FieldDriverCancellationCharge  = "driverCancellationCharge"
	FieldDriverCancellationCredit  = "driverCancellationCredit"
	FieldWeight                    = "weight"
	FieldMinWalletBalance          = "minWalletBalance"
	FieldStatus                    = "status"
)

// Branch carries the branch flags the builder needs
type Branch struct {
	Family     domain.RuleFamily
	Parcel     bool   // Vehicle tier and weight field
	Outstation bool   // Sub-subcategory required
	CarLevel   bool   // Car required
	TierField  string // Payload key of the tier
	TierLabel  string
}

// BranchOf reads the active branch from a resolver
func BranchOf(r *cascade.Resolver) Branch {
	cfg := r.Config()
	label := cfg.TierLabel
	if r.ParcelBranch() {
		label = "vehicle"
	}
	return Branch{
		Family:     cfg.Family,
		Parcel:     r.ParcelBranch(),
		Outstation: r.Flags().Outstation,
		CarLevel:   r.CarLevel(),
		TierField:  r.TierField(),
		TierLabel:  label,
	}
}

// Tariff holds the fare fields shared by the cab, driver and ride cost families
type Tariff struct {
	BaseFare                  float64 `json:"baseFare"`
	IncludedKm                string  `json:"includedKm"`
	IncludedMinutes           string  `json:"includedMinutes"`
	ExtraPerKm                float64 `json:"extraPerKm"`
	ExtraPerMinute            float64 `json:"extraPerMinute"`
	NightCharge               float64 `json:"nightCharge"`
	PeakCharge                float64 `json:"peakCharge"`
	CancellationFee           float64 `json:"cancellationFee"`
	CancellationBufferMinutes int     `json:"cancellationBufferMinutes"`
	Insurance                 float64 `json:"insurance"`
	AdminCommission           float64 `json:"adminCommission"`
	GST                       float64 `json:"gst"`
	Discount                  float64 `json:"discount"`
	DriverCancellationCharge  float64 `json:"driverCancellationCharge"`
	DriverCancellationCredit  float64 `json:"driverCancellationCredit"`
}

// Payload is the create/update body. Optional levels are omitted, never sent
// as null or zero.
type Payload struct {
	Category       string `json:"category"`
	SubCategory    string `json:"subCategory"`
	SubSubCategory string `json:"subSubCategory,omitempty"`
	PriceCategory  string `json:"priceCategory,omitempty"`
	CarCategory    string `json:"carCategory,omitempty"`
	Vehicle        string `json:"vehicle,omitempty"`
	Car            string `json:"car,omitempty"`

	*Tariff

	Weight           *float64 `json:"weight,omitempty"`
	MinWalletBalance *float64 `json:"minWalletBalance,omitempty"`
	Status           bool     `json:"status"`
}

// Build validates the selection and converts the raw fields. Gating ids must
// be present; numeric fields that do not parse become 0.
func Build(sel cascade.Selection, raw map[string]string, branch Branch) (*Payload, error) {
	if errs := validate(sel, branch); len(errs) > 0 {
		return nil, errs
	}

	p := &Payload{
		Category:    sel.CategoryID,
		SubCategory: sel.SubcategoryID,
		Status:      ParseBool(raw[FieldStatus]),
	}

	if branch.Outstation && sel.SubSubCategoryID != "" {
		p.SubSubCategory = sel.SubSubCategoryID
	}

	switch branch.TierField {
	case cascade.TierFieldVehicle:
		p.Vehicle = sel.TierID
	case cascade.TierFieldCarCategory:
		p.CarCategory = sel.TierID
	default:
		p.PriceCategory = sel.TierID
	}

	if branch.CarLevel && sel.CarID != "" {
		p.Car = sel.CarID
	}

	if branch.Family == domain.RuleFamilyWalletBalance {
		balance := ParseFloat(raw[FieldMinWalletBalance])
		p.MinWalletBalance = &balance
	} else {
		p.Tariff = buildTariff(raw)
	}

	if branch.Parcel {
		weight := ParseFloat(raw[FieldWeight])
		p.Weight = &weight
	}

	return p, nil
}

func validate(sel cascade.Selection, branch Branch) ValidationErrors {
	errs := ValidationErrors{}
	if sel.CategoryID == "" {
		errs = append(errs, FieldError{Field: "category", Message: "category is required"})
	}
	if sel.SubcategoryID == "" {
		errs = append(errs, FieldError{Field: "subCategory", Message: "subcategory is required"})
	}
	if branch.Outstation && sel.SubSubCategoryID == "" {
		errs = append(errs, FieldError{Field: "subSubCategory", Message: "sub-subcategory is required for outstation rules"})
	}
	if sel.TierID == "" {
		label := branch.TierLabel
		if label == "" {
			label = "tier"
		}
		field := branch.TierField
		if field == "" {
			field = cascade.TierFieldPriceCategory
		}
		errs = append(errs, FieldError{Field: field, Message: label + " is required"})
	}
	if branch.CarLevel && sel.CarID == "" {
		errs = append(errs, FieldError{Field: "car", Message: "car is required"})
	}
	return errs
}

func buildTariff(raw map[string]string) *Tariff {
	return &Tariff{
		BaseFare:                  ParseFloat(raw[FieldBaseFare]),
		IncludedKm:                strings.TrimSpace(raw[FieldIncludedKm]),
		IncludedMinutes:           strings.TrimSpace(raw[FieldIncludedMinutes]),
		ExtraPerKm:                ParseFloat(raw[FieldExtraPerKm]),
		ExtraPerMinute:            ParseFloat(raw[FieldExtraPerMinute]),
		NightCharge:               ParseFloat(raw[FieldNightCharge]),
		PeakCharge:                ParseFloat(raw[FieldPeakCharge]),
		CancellationFee:           ParseFloat(raw[FieldCancellationFee]),
		CancellationBufferMinutes: ParseInt(raw[FieldCancellationBufferMinutes]),
		Insurance:                 ParseFloat(raw[FieldInsurance]),
		AdminCommission:           ParseFloat(raw[FieldAdminCommission]),
		GST:                       ParseFloat(raw[FieldGST]),
		Discount:                  ParseFloat(raw[FieldDiscount]),
		DriverCancellationCharge:  ParseFloat(raw[FieldDriverCancellationCharge]),
		DriverCancellationCredit:  ParseFloat(raw[FieldDriverCancellationCredit]),
	}
}

// FieldsFromRule fills the raw form from a stored rule, for editing
func FieldsFromRule(rule domain.PricingRule) map[string]string {
	fields := map[string]string{
		FieldBaseFare:                  formatFloat(rule.BaseFare),
		FieldIncludedKm:                rule.IncludedKm.String(),
		FieldIncludedMinutes:           rule.IncludedMinutes.String(),
		FieldExtraPerKm:                formatFloat(rule.ExtraPerKm),
		FieldExtraPerMinute:            formatFloat(rule.ExtraPerMinute),
		FieldNightCharge:               formatFloat(rule.NightCharge),
		FieldPeakCharge:                formatFloat(rule.PeakCharge),
		FieldCancellationFee:           formatFloat(rule.CancellationFee),
		FieldCancellationBufferMinutes: formatFloat(float64(rule.CancellationBufferMinutes)),
		FieldInsurance:                 formatFloat(rule.Insurance),
		FieldAdminCommission:           formatFloat(rule.AdminCommission),
		FieldGST:                       formatFloat(rule.GST),
		FieldDiscount:                  formatFloat(rule.Discount),
		FieldDriverCancellationCharge:  formatFloat(rule.DriverCancellationCharge),
		FieldDriverCancellationCredit:  formatFloat(rule.DriverCancellationCredit),
		FieldMinWalletBalance:          formatFloat(rule.MinWalletBalance),
		FieldStatus:                    "false",
	}
	if rule.Status {
		fields[FieldStatus] = "true"
	}
	if rule.Weight != nil {
		fields[FieldWeight] = formatFloat(*rule.Weight)
	}
	return fields
}
