package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ChargeType string

const (
	ChargeRoom         ChargeType = "room"
	ChargeEarlyCheckIn ChargeType = "early-checkin"
	ChargeLateCheckOut ChargeType = "late-checkout"
	ChargeDiscount     ChargeType = "discount"
	ChargeOther        ChargeType = "other"
)

// Charge is one receipt line. Amounts are VAT-inclusive and signed: discounts
// and the deposit deduction are negative.
type Charge struct {
	ID           string          `json:"id"`
	BookingID    string          `json:"booking_id"`
	Type         ChargeType      `json:"type"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	AuthorizedBy *int64          `json:"authorized_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at,omitempty"`
}

// SumCharges returns the signed total of all charge amounts.
func SumCharges(charges []Charge) decimal.Decimal {
	total := decimal.Zero
	for _, c := range charges {
		total = total.Add(c.Amount)
	}
	return total
}
