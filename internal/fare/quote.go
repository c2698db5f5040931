// Package fare previews what a rule charges for a trip, so an admin can sanity
// check a tariff before it goes live.
package fare

import (
	"strings"

	"rideadmin/pricing/internal/domain"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Trip describes the ride being quoted
type Trip struct {
	DistanceKm float64 `json:"distance_km"`
	Minutes    float64 `json:"minutes"`
	Night      bool    `json:"night"`
	Peak       bool    `json:"peak"`
}

// Breakdown is the quote, rounded to 2 decimal places
type Breakdown struct {
	BaseFare        decimal.Decimal `json:"base_fare"`
	ExtraKm         decimal.Decimal `json:"extra_km"`
	DistanceCharge  decimal.Decimal `json:"distance_charge"`
	ExtraMinutes    decimal.Decimal `json:"extra_minutes"`
	TimeCharge      decimal.Decimal `json:"time_charge"`
	Surcharges      decimal.Decimal `json:"surcharges"`
	Insurance       decimal.Decimal `json:"insurance"`
	Discount        decimal.Decimal `json:"discount"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	GST             decimal.Decimal `json:"gst"`
	Total           decimal.Decimal `json:"total"`
	AdminCommission decimal.Decimal `json:"admin_commission"`
	DriverEarning   decimal.Decimal `json:"driver_earning"`
}

// Quote prices trip under rule. Included km and minutes that are not numbers
// (for example "Unlimited") mean no overage is charged for that dimension.
// The discount never takes the subtotal below zero.
func Quote(rule domain.PricingRule, trip Trip) Breakdown {
	b := Breakdown{
		BaseFare:  decimal.NewFromFloat(rule.BaseFare),
		Insurance: decimal.NewFromFloat(rule.Insurance),
	}

	b.ExtraKm = overage(decimal.NewFromFloat(trip.DistanceKm), rule.IncludedKm)
	b.DistanceCharge = b.ExtraKm.Mul(decimal.NewFromFloat(rule.ExtraPerKm))

	b.ExtraMinutes = overage(decimal.NewFromFloat(trip.Minutes), rule.IncludedMinutes)
	b.TimeCharge = b.ExtraMinutes.Mul(decimal.NewFromFloat(rule.ExtraPerMinute))

	b.Surcharges = decimal.Zero
	if trip.Night {
		b.Surcharges = b.Surcharges.Add(decimal.NewFromFloat(rule.NightCharge))
	}
	if trip.Peak {
		b.Surcharges = b.Surcharges.Add(decimal.NewFromFloat(rule.PeakCharge))
	}

	gross := b.BaseFare.Add(b.DistanceCharge).Add(b.TimeCharge).Add(b.Surcharges).Add(b.Insurance)
	b.Discount = decimal.Min(decimal.NewFromFloat(rule.Discount), gross)
	if b.Discount.IsNegative() {
		b.Discount = decimal.Zero
	}
	b.Subtotal = gross.Sub(b.Discount)

	b.GST = percent(b.Subtotal, rule.GST)
	b.Total = b.Subtotal.Add(b.GST)
	b.AdminCommission = percent(b.Subtotal, rule.AdminCommission)
	b.DriverEarning = b.Subtotal.Sub(b.AdminCommission)

	return b.round()
}

// overage is the part of used above the included allowance, or zero when the
// allowance is not numeric
func overage(used decimal.Decimal, included domain.FlexString) decimal.Decimal {
	allowance, err := decimal.NewFromString(strings.TrimSpace(included.String()))
	if err != nil {
		return decimal.Zero
	}
	extra := used.Sub(allowance)
	if extra.IsNegative() {
		return decimal.Zero
	}
	return extra
}

func percent(amount decimal.Decimal, pct float64) decimal.Decimal {
	return amount.Mul(decimal.NewFromFloat(pct)).Div(hundred)
}

func (b Breakdown) round() Breakdown {
	fields := []*decimal.Decimal{
		&b.BaseFare, &b.ExtraKm, &b.DistanceCharge, &b.ExtraMinutes, &b.TimeCharge,
		&b.Surcharges, &b.Insurance, &b.Discount, &b.Subtotal, &b.GST, &b.Total,
		&b.AdminCommission, &b.DriverEarning,
	}
	for _, f := range fields {
		*f = f.Round(2)
	}
	return b
}
