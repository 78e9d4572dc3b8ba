// Package billing turns a stay into the ordered list of receipt lines.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hotelfront/internal/domain"
	"hotelfront/internal/pricing"
)

// chargeNamespace seeds the name-based ids of composed charges so that
// composing the same stay twice yields the same ids.
var chargeNamespace = uuid.MustParse("6f1c2b7e-3d4a-4f8e-9b21-5c7d8e9fa012")

const unspecifiedReason = "unspecified"

// Input is everything known at check-out time. Penalty and Discount are
// positive amounts entered by the operator; zero means none.
type Input struct {
	Booking        *domain.Booking
	Rooms          []domain.Room
	CheckOutAt     time.Time
	Penalty        decimal.Decimal
	PenaltyReason  string
	Discount       decimal.Decimal
	DiscountReason string
	Actor          domain.Actor
}

type Composer struct {
	policy pricing.Policy
	loc    *time.Location
}

func NewComposer(policy pricing.Policy, loc *time.Location) *Composer {
	if loc == nil {
		loc = time.UTC
	}
	return &Composer{policy: policy, loc: loc}
}

// Compose returns the charges in receipt order: rooms, early check-in, late
// check-out, ad-hoc services, deposit deduction, penalty, discount. It has no
// side effects; calling it again with the same input gives the same list.
func (c *Composer) Compose(in Input) []domain.Charge {
	b := in.Booking
	if b == nil {
		return nil
	}

	out := make([]domain.Charge, 0, len(b.RoomIDs)+len(b.AdditionalCharges)+5)
	out = append(out, c.roomCharges(b, in.Rooms)...)

	if ch, ok := c.earlyCheckIn(b); ok {
		out = append(out, ch)
	}
	if ch, ok := c.lateCheckOut(b, in.CheckOutAt); ok {
		out = append(out, ch)
	}

	out = append(out, b.AdditionalCharges...)

	if b.Deposit.IsPositive() {
		out = append(out, c.charge(b, "deposit", domain.ChargeOther, "Deposit deduction", b.Deposit.Neg()))
	}

	if in.Penalty.IsPositive() {
		desc := "Penalty: " + reasonOrDefault(in.PenaltyReason)
		out = append(out, c.charge(b, "penalty", domain.ChargeOther, desc, in.Penalty))
	}

	if in.Discount.IsPositive() && in.Actor.Role.CanAuthorizeDiscount() {
		desc := "Discount: " + reasonOrDefault(in.DiscountReason)
		ch := c.charge(b, "discount", domain.ChargeDiscount, desc, in.Discount.Neg())
		by := in.Actor.ID
		ch.AuthorizedBy = &by
		out = append(out, ch)
	}

	return out
}

func (c *Composer) roomCharges(b *domain.Booking, rooms []domain.Room) []domain.Charge {
	numbers := make(map[int64]int, len(rooms))
	for _, r := range rooms {
		numbers[r.ID] = r.Number
	}

	nights := pricing.CalculateNights(b.CheckInDate, b.CheckOutDate)
	amount := b.BaseRate.Mul(decimal.NewFromInt(int64(nights)))

	out := make([]domain.Charge, 0, len(b.RoomIDs))
	for _, id := range b.RoomIDs {
		label := fmt.Sprintf("#%d", id)
		if n, ok := numbers[id]; ok {
			label = fmt.Sprintf("%d", n)
		}
		desc := fmt.Sprintf("Room %s: %d night(s) x %s", label, nights, b.BaseRate.StringFixed(2))
		out = append(out, c.charge(b, fmt.Sprintf("room/%d", id), domain.ChargeRoom, desc, amount))
	}
	return out
}

func (c *Composer) earlyCheckIn(b *domain.Booking) (domain.Charge, bool) {
	if b.ActualCheckInTime == nil {
		return domain.Charge{}, false
	}
	scheduled := c.policy.ScheduledCheckIn(b.CheckInDate, c.loc)
	if !b.ActualCheckInTime.Before(scheduled) {
		return domain.Charge{}, false
	}
	hours := pricing.WholeHoursBetween(*b.ActualCheckInTime, scheduled)
	if hours <= 0 {
		return domain.Charge{}, false
	}
	amount := c.policy.CalculateEarlyCheckInCharge(hours, b.BaseRate)
	desc := fmt.Sprintf("Early check-in: %d hour(s)", hours)
	return c.charge(b, "early-checkin", domain.ChargeEarlyCheckIn, desc, amount), true
}

func (c *Composer) lateCheckOut(b *domain.Booking, at time.Time) (domain.Charge, bool) {
	if at.IsZero() {
		return domain.Charge{}, false
	}
	scheduled := c.policy.ScheduledCheckOut(b.CheckOutDate, c.loc)
	if !at.After(scheduled) {
		return domain.Charge{}, false
	}
	hours := pricing.WholeHoursBetween(scheduled, at)
	if hours <= 0 {
		return domain.Charge{}, false
	}
	amount := c.policy.CalculateLateCheckOutCharge(hours, b.BaseRate)
	desc := fmt.Sprintf("Late check-out: %d hour(s)", hours)
	return c.charge(b, "late-checkout", domain.ChargeLateCheckOut, desc, amount), true
}

func (c *Composer) charge(b *domain.Booking, key string, typ domain.ChargeType, desc string, amount decimal.Decimal) domain.Charge {
	return domain.Charge{
		ID:          uuid.NewSHA1(chargeNamespace, []byte(b.ID+"/"+key)).String(),
		BookingID:   b.ID,
		Type:        typ,
		Description: desc,
		Amount:      amount,
	}
}

func reasonOrDefault(reason string) string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return unspecifiedReason
	}
	return reason
}

// Totals is the aggregate of a charge list. VAT is taken from the total, never
// per line.
type Totals struct {
	Total    decimal.Decimal `json:"total"`
	Subtotal decimal.Decimal `json:"subtotal"`
	VAT      decimal.Decimal `json:"vat"`
}

func ComputeTotals(policy pricing.Policy, charges []domain.Charge) Totals {
	total := domain.SumCharges(charges)
	vat := policy.ExtractVAT(total)
	return Totals{
		Total:    total,
		Subtotal: total.Sub(vat),
		VAT:      vat,
	}
}
