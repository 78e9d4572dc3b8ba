package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingReserved   BookingStatus = "reserved"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
	BookingCancelled  BookingStatus = "cancelled"
)

// Active reports whether the booking still claims its rooms.
func (s BookingStatus) Active() bool {
	return s == BookingReserved || s == BookingCheckedIn
}

func (s BookingStatus) Terminal() bool {
	return s == BookingCheckedOut || s == BookingCancelled
}

type PricingTier string

const (
	TierGeneral PricingTier = "general"
	TierTour    PricingTier = "tour"
	TierVIP     PricingTier = "vip"
)

func (t PricingTier) Valid() bool {
	return t == TierGeneral || t == TierTour || t == TierVIP
}

type BookingSource string

const (
	SourceWalkIn BookingSource = "walk-in"
	SourcePhone  BookingSource = "phone"
	SourceOTA    BookingSource = "ota"
)

func (s BookingSource) Valid() bool {
	return s == SourceWalkIn || s == SourcePhone || s == SourceOTA
}

type Guest struct {
	Name     string `json:"name" validate:"required"`
	IDNumber string `json:"id_number" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address,omitempty"`
}

// Booking is a stay over one or more rooms. CheckInDate and CheckOutDate are
// calendar dates stored as midnight UTC.
type Booking struct {
	ID                 string          `json:"id"`
	RoomIDs            []int64         `json:"room_ids"`
	Guest              Guest           `json:"guest"`
	CheckInDate        time.Time       `json:"check_in_date"`
	CheckOutDate       time.Time       `json:"check_out_date"`
	ActualCheckInTime  *time.Time      `json:"actual_check_in_time,omitempty"`
	ActualCheckOutTime *time.Time      `json:"actual_check_out_time,omitempty"`
	PricingTier        PricingTier     `json:"pricing_tier"`
	BaseRate           decimal.Decimal `json:"base_rate"`
	Source             BookingSource   `json:"source"`
	Status             BookingStatus   `json:"status"`
	GroupName          string          `json:"group_name,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Deposit            decimal.Decimal `json:"deposit"`
	AdditionalCharges  []Charge        `json:"additional_charges"`
	CreatedAt          time.Time       `json:"created_at"`
	CreatedBy          int64           `json:"created_by"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// Nights lists every night of the stay, i.e. each date in [CheckInDate, CheckOutDate).
func (b *Booking) Nights() []time.Time {
	return DatesInRange(b.CheckInDate, b.CheckOutDate)
}

// Covers reports whether date falls in [CheckInDate, CheckOutDate).
func (b *Booking) Covers(date time.Time) bool {
	d := DateOf(date)
	return !d.Before(DateOf(b.CheckInDate)) && d.Before(DateOf(b.CheckOutDate))
}

func (b *Booking) HasRoom(roomID int64) bool {
	for _, id := range b.RoomIDs {
		if id == roomID {
			return true
		}
	}
	return false
}
