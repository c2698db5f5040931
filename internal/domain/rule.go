package domain

import "time"

// PricingRule is a stored rule as returned by the admin API. Numeric tariff
// fields are plain numbers; includedKm and includedMinutes are labels that may
// hold values like "Unlimited".
type PricingRule struct {
	ID             string `json:"_id"`
	Category       Ref    `json:"category"`
	SubCategory    Ref    `json:"subCategory"`
	SubSubCategory Ref    `json:"subSubCategory"`
	PriceCategory  Ref    `json:"priceCategory"`
	CarCategory    Ref    `json:"carCategory"`
	Vehicle        Ref    `json:"vehicle"`
	Car            Ref    `json:"car"`

	BaseFare                  float64    `json:"baseFare"`
	IncludedKm                FlexString `json:"includedKm"`
	IncludedMinutes           FlexString `json:"includedMinutes"`
	ExtraPerKm                float64    `json:"extraPerKm"`
	ExtraPerMinute            float64    `json:"extraPerMinute"`
	NightCharge               float64    `json:"nightCharge"`
	PeakCharge                float64    `json:"peakCharge"`
	CancellationFee           float64    `json:"cancellationFee"`
	CancellationBufferMinutes int        `json:"cancellationBufferMinutes"`
	Insurance                 float64    `json:"insurance"`
	AdminCommission           float64    `json:"adminCommission"`
	GST                       float64    `json:"gst"`
	Discount                  float64    `json:"discount"`
	DriverCancellationCharge  float64    `json:"driverCancellationCharge"`
	DriverCancellationCredit  float64    `json:"driverCancellationCredit"`
	Weight                    *float64   `json:"weight,omitempty"`
	MinWalletBalance          float64    `json:"minWalletBalance"`
	Status                    bool       `json:"status"`
	CreatedAt                 *time.Time `json:"createdAt,omitempty"`
	UpdatedAt                 *time.Time `json:"updatedAt,omitempty"`
}

// TierID returns whichever tier reference the rule carries
func (r PricingRule) TierID() string {
	switch {
	case !r.Vehicle.IsZero():
		return r.Vehicle.ID
	case !r.CarCategory.IsZero():
		return r.CarCategory.ID
	default:
		return r.PriceCategory.ID
	}
}

func (r PricingRule) CategoryID() string    { return r.Category.ID }
func (r PricingRule) SubcategoryID() string { return r.SubCategory.ID }

// Ride is one row of the server-paginated rides list
type Ride struct {
	ID          string     `json:"_id"`
	Category    Ref        `json:"category"`
	SubCategory Ref        `json:"subCategory"`
	Status      string     `json:"status"`
	Fare        float64    `json:"fare"`
	Pickup      string     `json:"pickupAddress"`
	Drop        string     `json:"dropAddress"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

func (r Ride) CategoryID() string    { return r.Category.ID }
func (r Ride) SubcategoryID() string { return r.SubCategory.ID }

// RidePage is the server-side paginated response of the rides list
type RidePage struct {
	Rides      []Ride `json:"data"`
	TotalPages int    `json:"totalPages"`
	TotalRides int    `json:"totalRides"`
	Page       int    `json:"page"`
}
