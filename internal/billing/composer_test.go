package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelfront/internal/domain"
	"hotelfront/internal/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T { return &v }

func newBooking() *domain.Booking {
	return &domain.Booking{
		ID:           "b-1",
		RoomIDs:      []int64{1},
		CheckInDate:  day("2024-01-01"),
		CheckOutDate: day("2024-01-03"),
		BaseRate:     d("890"),
		Status:       domain.BookingCheckedIn,
	}
}

var rooms = []domain.Room{{ID: 1, Number: 101}, {ID: 2, Number: 102}}

func types(charges []domain.Charge) []domain.ChargeType {
	out := make([]domain.ChargeType, 0, len(charges))
	for _, c := range charges {
		out = append(out, c.Type)
	}
	return out
}

func TestComposeEndToEndScenario(t *testing.T) {
	policy := pricing.DefaultPolicy()
	c := NewComposer(policy, time.UTC)

	b := newBooking()
	b.Deposit = d("200")
	b.ActualCheckInTime = ptr(time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC))

	charges := c.Compose(Input{
		Booking:    b,
		Rooms:      rooms,
		CheckOutAt: time.Date(2024, 1, 3, 11, 30, 0, 0, time.UTC),
		Discount:   d("100"),
		Actor:      domain.Actor{ID: 7, Role: domain.RoleReception},
	})

	require.Len(t, charges, 2)
	assert.Equal(t, domain.ChargeRoom, charges[0].Type)
	assert.True(t, d("1780").Equal(charges[0].Amount))
	assert.Equal(t, "Room 101: 2 night(s) x 890.00", charges[0].Description)
	assert.Equal(t, "Deposit deduction", charges[1].Description)
	assert.True(t, d("-200").Equal(charges[1].Amount))

	totals := ComputeTotals(policy, charges)
	assert.True(t, d("1580").Equal(totals.Total))
	assert.True(t, d("103.36").Equal(totals.VAT))
	assert.True(t, d("1476.64").Equal(totals.Subtotal))
}

func TestComposeFullOrder(t *testing.T) {
	c := NewComposer(pricing.DefaultPolicy(), time.UTC)

	b := newBooking()
	b.RoomIDs = []int64{2, 1}
	b.Deposit = d("500")
	b.ActualCheckInTime = ptr(time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)) // 3h30 early
	b.AdditionalCharges = []domain.Charge{
		{ID: "x1", BookingID: b.ID, Type: domain.ChargeOther, Description: "Extra bed", Amount: d("300")},
		{ID: "x2", BookingID: b.ID, Type: domain.ChargeOther, Description: "Grill rental", Amount: d("150")},
	}

	charges := c.Compose(Input{
		Booking:        b,
		Rooms:          rooms,
		CheckOutAt:     time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC), // 8h late
		Penalty:        d("250"),
		Discount:       d("100"),
		DiscountReason: "loyal guest",
		Actor:          domain.Actor{ID: 9, Role: domain.RoleManagement},
	})

	assert.Equal(t, []domain.ChargeType{
		domain.ChargeRoom, domain.ChargeRoom,
		domain.ChargeEarlyCheckIn, domain.ChargeLateCheckOut,
		domain.ChargeOther, domain.ChargeOther,
		domain.ChargeOther, domain.ChargeOther,
		domain.ChargeDiscount,
	}, types(charges))

	assert.Equal(t, "Room 102: 2 night(s) x 890.00", charges[0].Description)
	assert.Equal(t, "Room 101: 2 night(s) x 890.00", charges[1].Description)
	assert.True(t, d("150").Equal(charges[2].Amount), "3 whole hours early at 50/h")
	assert.True(t, d("890").Equal(charges[3].Amount), "more than 6 hours late bills a full day")
	assert.Equal(t, "x1", charges[4].ID)
	assert.Equal(t, "x2", charges[5].ID)
	assert.True(t, d("-500").Equal(charges[6].Amount))
	assert.Equal(t, "Penalty: unspecified", charges[7].Description)
	assert.True(t, d("250").Equal(charges[7].Amount))
	assert.Equal(t, "Discount: loyal guest", charges[8].Description)
	assert.True(t, d("-100").Equal(charges[8].Amount))
	require.NotNil(t, charges[8].AuthorizedBy)
	assert.Equal(t, int64(9), *charges[8].AuthorizedBy)

	total := domain.SumCharges(charges)
	assert.True(t, d("4700").Equal(total), "got %s", total)
}

func TestComposeIsIdempotent(t *testing.T) {
	c := NewComposer(pricing.DefaultPolicy(), time.UTC)
	b := newBooking()
	b.Deposit = d("100")
	in := Input{
		Booking:    b,
		Rooms:      rooms,
		CheckOutAt: time.Date(2024, 1, 3, 14, 0, 0, 0, time.UTC),
		Penalty:    d("40"),
		Actor:      domain.Actor{ID: 1, Role: domain.RoleBoard},
	}

	first := c.Compose(in)
	second := c.Compose(in)

	assert.Equal(t, first, second)
	assert.Len(t, second, 4)
	assert.Empty(t, b.AdditionalCharges, "composing must not touch the booking")
}

func TestComposeDiscountGating(t *testing.T) {
	c := NewComposer(pricing.DefaultPolicy(), time.UTC)

	for _, role := range []domain.UserRole{domain.RoleReception, domain.RoleHousekeeping, ""} {
		charges := c.Compose(Input{
			Booking:  newBooking(),
			Discount: d("500"),
			Actor:    domain.Actor{ID: 3, Role: role},
		})
		for _, ch := range charges {
			assert.NotEqual(t, domain.ChargeDiscount, ch.Type, "role %q", role)
		}
	}

	for _, role := range []domain.UserRole{domain.RoleBoard, domain.RoleManagement} {
		charges := c.Compose(Input{
			Booking:  newBooking(),
			Discount: d("500"),
			Actor:    domain.Actor{ID: 3, Role: role},
		})
		require.NotEmpty(t, charges)
		assert.Equal(t, domain.ChargeDiscount, charges[len(charges)-1].Type, "role %q", role)
	}
}

func TestComposeBoundaryHours(t *testing.T) {
	c := NewComposer(pricing.DefaultPolicy(), time.UTC)

	cases := []struct {
		name     string
		checkIn  *time.Time
		checkOut time.Time
		want     []domain.ChargeType
	}{
		{
			name:     "on time",
			checkIn:  ptr(time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)),
			checkOut: time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
			want:     []domain.ChargeType{domain.ChargeRoom},
		},
		{
			name:     "under an hour either side",
			checkIn:  ptr(time.Date(2024, 1, 1, 13, 1, 0, 0, time.UTC)),
			checkOut: time.Date(2024, 1, 3, 12, 59, 0, 0, time.UTC),
			want:     []domain.ChargeType{domain.ChargeRoom},
		},
		{
			name:     "no actual check-in and no checkout instant",
			checkIn:  nil,
			checkOut: time.Time{},
			want:     []domain.ChargeType{domain.ChargeRoom},
		},
		{
			name:     "one hour each side",
			checkIn:  ptr(time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC)),
			checkOut: time.Date(2024, 1, 3, 13, 0, 0, 0, time.UTC),
			want:     []domain.ChargeType{domain.ChargeRoom, domain.ChargeEarlyCheckIn, domain.ChargeLateCheckOut},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := newBooking()
			b.ActualCheckInTime = tc.checkIn
			charges := c.Compose(Input{Booking: b, Rooms: rooms, CheckOutAt: tc.checkOut})
			assert.Equal(t, tc.want, types(charges))
		})
	}
}

func TestComposeUsesHotelTimezone(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	c := NewComposer(pricing.DefaultPolicy(), loc)
	b := newBooking()

	// 12:00 ICT is 05:00 UTC; leaving at 07:00 UTC is two hours late
	charges := c.Compose(Input{Booking: b, CheckOutAt: time.Date(2024, 1, 3, 7, 0, 0, 0, time.UTC)})

	require.Len(t, charges, 2)
	assert.Equal(t, domain.ChargeLateCheckOut, charges[1].Type)
	assert.True(t, d("100").Equal(charges[1].Amount))
}

func TestPresetByCode(t *testing.T) {
	p, ok := PresetByCode(" Extra_Bed ")
	require.True(t, ok)
	assert.True(t, d("300").Equal(p.Amount))

	other, ok := PresetByCode(PresetOther)
	require.True(t, ok)
	assert.True(t, other.FreeText)

	_, ok = PresetByCode("sauna")
	assert.False(t, ok)
	assert.Len(t, Presets(), 4)
}
