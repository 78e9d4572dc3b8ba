package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelfront/internal/domain"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBaseRateFor(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, d("890").Equal(p.BaseRateFor(domain.TierGeneral)))
	assert.True(t, d("790").Equal(p.BaseRateFor(domain.TierTour)))
	assert.True(t, d("1290").Equal(p.BaseRateFor(domain.TierVIP)))
	assert.True(t, d("890").Equal(p.BaseRateFor("unknown")))

	tiers := p.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, domain.TierGeneral, tiers[0].Tier)
	assert.Equal(t, domain.TierVIP, tiers[2].Tier)
}

func TestExtractVAT(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		total string
		vat   string
		base  string
	}{
		{"890", "58.22", "831.78"},
		{"1580", "103.36", "1476.64"},
		{"107", "7", "100"},
		{"0", "0", "0"},
		{"0.01", "0", "0.01"},
		{"1", "0.07", "0.93"},
	}

	for _, tc := range cases {
		t.Run(tc.total, func(t *testing.T) {
			vat := p.ExtractVAT(d(tc.total))
			base := p.ExtractBasePrice(d(tc.total))
			assert.True(t, d(tc.vat).Equal(vat), "vat: want %s got %s", tc.vat, vat)
			assert.True(t, d(tc.base).Equal(base), "base: want %s got %s", tc.base, base)
		})
	}
}

func TestExtractVATIdentity(t *testing.T) {
	p := DefaultPolicy()

	for cents := int64(0); cents <= 500000; cents += 37 {
		total := decimal.New(cents, -2)
		sum := p.ExtractBasePrice(total).Add(p.ExtractVAT(total))
		if !sum.Equal(total) {
			t.Fatalf("base + vat != total for %s: got %s", total, sum)
		}
	}
}

func TestBoundaryCharges(t *testing.T) {
	p := DefaultPolicy()
	rate := d("890")

	assert.True(t, d("300").Equal(p.CalculateLateCheckOutCharge(6, rate)))
	assert.True(t, d("890").Equal(p.CalculateLateCheckOutCharge(7, rate)))
	assert.True(t, d("50").Equal(p.CalculateEarlyCheckInCharge(1, rate)))
	assert.True(t, d("890").Equal(p.CalculateEarlyCheckInCharge(12, rate)))
	assert.True(t, p.CalculateEarlyCheckInCharge(0, rate).IsZero())
	assert.True(t, p.CalculateLateCheckOutCharge(-3, rate).IsZero())
}

func TestBoundaryChargesConfigurableThreshold(t *testing.T) {
	p := DefaultPolicy()
	p.FullDayAfterHours = 3
	p.HourlyPenalty = d("100")

	assert.True(t, d("300").Equal(p.CalculateLateCheckOutCharge(3, d("890"))))
	assert.True(t, d("890").Equal(p.CalculateLateCheckOutCharge(4, d("890"))))
}

func TestCalculateNights(t *testing.T) {
	assert.Equal(t, 1, CalculateNights(date("2024-01-01"), date("2024-01-02")))
	assert.Equal(t, 1, CalculateNights(date("2024-01-01"), date("2024-01-01")))
	assert.Equal(t, 3, CalculateNights(date("2024-01-01"), date("2024-01-04")))
	assert.Equal(t, 3, CalculateNights(date("2024-01-04"), date("2024-01-01")))
	assert.Equal(t, 31, CalculateNights(date("2024-03-01"), date("2024-04-01")))
}

func TestWholeHoursBetween(t *testing.T) {
	base := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, WholeHoursBetween(base, base))
	assert.Equal(t, 0, WholeHoursBetween(base, base.Add(59*time.Minute)))
	assert.Equal(t, 2, WholeHoursBetween(base, base.Add(2*time.Hour+59*time.Minute)))
	assert.Equal(t, 0, WholeHoursBetween(base.Add(time.Hour), base))
}

func TestScheduledInstants(t *testing.T) {
	p := DefaultPolicy()
	loc := time.FixedZone("ICT", 7*3600)

	in := p.ScheduledCheckIn(date("2024-05-10"), loc)
	out := p.ScheduledCheckOut(date("2024-05-12"), loc)

	assert.Equal(t, time.Date(2024, 5, 10, 14, 0, 0, 0, loc), in)
	assert.Equal(t, time.Date(2024, 5, 12, 12, 0, 0, 0, loc), out)
}
