// Package pricing holds the hotel's rate table and the VAT and penalty
// arithmetic. Every amount it handles is VAT-inclusive.
package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"hotelfront/internal/domain"
)

const (
	DefaultHourlyPenalty     = 50
	DefaultFullDayAfterHours = 6
	DefaultVATPercent        = 7
	DefaultCheckInHour       = 14
	DefaultCheckOutHour      = 12
)

var hundred = decimal.NewFromInt(100)

// Policy is a value; copy it freely. The zero value is not usable, start from
// DefaultPolicy.
type Policy struct {
	Rates map[domain.PricingTier]decimal.Decimal

	// HourlyPenalty is charged per whole hour of early arrival or late departure
	// up to FullDayAfterHours; beyond that the full daily rate applies.
	HourlyPenalty     decimal.Decimal
	FullDayAfterHours int

	VATPercent   decimal.Decimal
	CheckInHour  int
	CheckOutHour int
}

func DefaultPolicy() Policy {
	return Policy{
		Rates: map[domain.PricingTier]decimal.Decimal{
			domain.TierGeneral: decimal.NewFromInt(890),
			domain.TierTour:    decimal.NewFromInt(790),
			domain.TierVIP:     decimal.NewFromInt(1290),
		},
		HourlyPenalty:     decimal.NewFromInt(DefaultHourlyPenalty),
		FullDayAfterHours: DefaultFullDayAfterHours,
		VATPercent:        decimal.NewFromInt(DefaultVATPercent),
		CheckInHour:       DefaultCheckInHour,
		CheckOutHour:      DefaultCheckOutHour,
	}
}

// BaseRateFor returns the nightly rate for tier. Unknown tiers fall back to
// the general rate.
func (p Policy) BaseRateFor(tier domain.PricingTier) decimal.Decimal {
	if rate, ok := p.Rates[tier]; ok {
		return rate
	}
	return p.Rates[domain.TierGeneral]
}

// Tiers lists the rate table in a fixed order.
func (p Policy) Tiers() []TierRate {
	out := make([]TierRate, 0, 3)
	for _, t := range []domain.PricingTier{domain.TierGeneral, domain.TierTour, domain.TierVIP} {
		out = append(out, TierRate{Tier: t, Rate: p.BaseRateFor(t)})
	}
	return out
}

type TierRate struct {
	Tier domain.PricingTier `json:"tier"`
	Rate decimal.Decimal    `json:"rate"`
}

// ExtractVAT backs the VAT out of a VAT-inclusive total:
// total * vat / (100 + vat), rounded half-up to the cent.
func (p Policy) ExtractVAT(total decimal.Decimal) decimal.Decimal {
	return total.Mul(p.VATPercent).Div(hundred.Add(p.VATPercent)).Round(2)
}

// ExtractBasePrice is total minus the already-rounded VAT, so that
// ExtractBasePrice(x) + ExtractVAT(x) == x to the cent.
func (p Policy) ExtractBasePrice(total decimal.Decimal) decimal.Decimal {
	return total.Sub(p.ExtractVAT(total)).Round(2)
}

// CalculateEarlyCheckInCharge charges hourly up to the full-day threshold and
// a whole extra night past it.
func (p Policy) CalculateEarlyCheckInCharge(hoursEarly int, dailyRate decimal.Decimal) decimal.Decimal {
	return p.boundaryCharge(hoursEarly, dailyRate)
}

func (p Policy) CalculateLateCheckOutCharge(hoursLate int, dailyRate decimal.Decimal) decimal.Decimal {
	return p.boundaryCharge(hoursLate, dailyRate)
}

func (p Policy) boundaryCharge(hours int, dailyRate decimal.Decimal) decimal.Decimal {
	if hours <= 0 {
		return decimal.Zero
	}
	if hours > p.FullDayAfterHours {
		return dailyRate
	}
	return p.HourlyPenalty.Mul(decimal.NewFromInt(int64(hours)))
}

// ScheduledCheckIn is the standard arrival instant on the booking's check-in date.
func (p Policy) ScheduledCheckIn(date time.Time, loc *time.Location) time.Time {
	return domain.At(date, p.CheckInHour, loc)
}

func (p Policy) ScheduledCheckOut(date time.Time, loc *time.Location) time.Time {
	return domain.At(date, p.CheckOutHour, loc)
}

// CalculateNights is the absolute day difference between two calendar dates,
// never less than one.
func CalculateNights(checkIn, checkOut time.Time) int {
	days := int(math.Round(domain.DateOf(checkOut).Sub(domain.DateOf(checkIn)).Hours() / 24))
	if days < 0 {
		days = -days
	}
	if days < 1 {
		return 1
	}
	return days
}

// WholeHoursBetween returns the floor of (later - earlier) in hours, clamped at zero.
func WholeHoursBetween(earlier, later time.Time) int {
	d := later.Sub(earlier)
	if d <= 0 {
		return 0
	}
	return int(d / time.Hour)
}
