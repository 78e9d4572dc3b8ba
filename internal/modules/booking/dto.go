package booking

import (
	"time"

	"hotelfront/internal/billing"
	"hotelfront/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateBookingRequest struct {
	RoomIDs           []int64              `json:"room_ids"`
	Guest             domain.Guest         `json:"guest"`
	CheckInDate       string               `json:"check_in_date"`
	CheckOutDate      string               `json:"check_out_date"`
	PricingTier       domain.PricingTier   `json:"pricing_tier"`
	Source            domain.BookingSource `json:"source"`
	GroupName         string               `json:"group_name"`
	Notes             string               `json:"notes"`
	Deposit           decimal.Decimal      `json:"deposit"`
	AdditionalCharges []AddChargeRequest   `json:"additional_charges"`
}

type CheckInRequest struct {
	// At defaults to now.
	At *time.Time `json:"actual_check_in_time"`
}

// CheckoutRequest carries the operator's check-out inputs. Penalty and
// Discount are positive amounts; zero means none.
type CheckoutRequest struct {
	At             *time.Time           `json:"actual_check_out_time"`
	Method         domain.PaymentMethod `json:"method"`
	Penalty        decimal.Decimal      `json:"penalty"`
	PenaltyReason  string               `json:"penalty_reason"`
	Discount       decimal.Decimal      `json:"discount"`
	DiscountReason string               `json:"discount_reason"`
}

// AddChargeRequest picks a preset by code or describes a custom charge.
// Quantity multiplies fixed-price presets and defaults to 1.
type AddChargeRequest struct {
	Preset      string           `json:"preset"`
	Quantity    int              `json:"quantity"`
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
}

type UpdateDepositRequest struct {
	Deposit decimal.Decimal `json:"deposit"`
}

type CheckoutPreview struct {
	BookingID  string          `json:"booking_id"`
	CheckOutAt time.Time       `json:"check_out_at"`
	Charges    []domain.Charge `json:"charges"`
	billing.Totals
	// DiscountSkipped is set when a discount was entered by a role that may
	// not grant one.
	DiscountSkipped bool `json:"discount_skipped"`
}

type CheckoutResult struct {
	Booking         *domain.Booking `json:"booking"`
	Payment         *domain.Payment `json:"payment"`
	DiscountSkipped bool            `json:"discount_skipped"`
}

type ListFilter struct {
	Status domain.BookingStatus
	Date   *time.Time
	Limit  int
	Offset int
}
