package fare

import (
	"testing"

	"rideadmin/pricing/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func assertAmount(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestQuote(t *testing.T) {
	rule := domain.PricingRule{
		BaseFare:        100,
		IncludedKm:      "10",
		IncludedMinutes: "30",
		ExtraPerKm:      12.5,
		ExtraPerMinute:  2,
		NightCharge:     40,
		PeakCharge:      25,
		Insurance:       3,
		Discount:        20,
		GST:             5,
		AdminCommission: 20,
	}

	b := Quote(rule, Trip{DistanceKm: 14, Minutes: 45, Night: true})

	assertAmount(t, "4", b.ExtraKm)
	assertAmount(t, "50", b.DistanceCharge)
	assertAmount(t, "15", b.ExtraMinutes)
	assertAmount(t, "30", b.TimeCharge)
	assertAmount(t, "40", b.Surcharges)
	// 100 + 50 + 30 + 40 + 3 - 20
	assertAmount(t, "203", b.Subtotal)
	assertAmount(t, "10.15", b.GST)
	assertAmount(t, "213.15", b.Total)
	assertAmount(t, "40.6", b.AdminCommission)
	assertAmount(t, "162.4", b.DriverEarning)
}

func TestQuote_UnlimitedAllowance(t *testing.T) {
	rule := domain.PricingRule{
		BaseFare:        500,
		IncludedKm:      "Unlimited",
		IncludedMinutes: "",
		ExtraPerKm:      10,
		ExtraPerMinute:  1,
	}

	b := Quote(rule, Trip{DistanceKm: 80, Minutes: 300})

	assertAmount(t, "0", b.DistanceCharge)
	assertAmount(t, "0", b.TimeCharge)
	assertAmount(t, "500", b.Total)
}

func TestQuote_WithinAllowance(t *testing.T) {
	rule := domain.PricingRule{BaseFare: 60, IncludedKm: "5", ExtraPerKm: 10}

	b := Quote(rule, Trip{DistanceKm: 3})

	assertAmount(t, "0", b.ExtraKm)
	assertAmount(t, "60", b.Total)
}

func TestQuote_DiscountNeverGoesNegative(t *testing.T) {
	rule := domain.PricingRule{BaseFare: 30, Discount: 50, GST: 18}

	b := Quote(rule, Trip{})

	assertAmount(t, "30", b.Discount)
	assertAmount(t, "0", b.Subtotal)
	assertAmount(t, "0", b.Total)
}
