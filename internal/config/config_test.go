package config

import (
	"testing"
	"time"

	"hotelfront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "ENV", "HTTP_ADDR", "DATABASE_URL", "JWT_SECRET", "JWT_TTL", "HOTEL_TIMEZONE",
		"RATE_GENERAL", "RATE_TOUR", "RATE_VIP", "PENALTY_PER_HOUR", "PENALTY_FULL_DAY_AFTER_HOURS",
		"VAT_PERCENT", "STANDARD_CHECKIN_HOUR", "STANDARD_CHECKOUT_HOUR", "RECEIPT_PREFIX",
		"INVOICE_PREFIX", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_IDS", "CORS_ORIGINS",
	} {
		t.Setenv(name, "")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "hotel.db", cfg.DatabaseURL)
	assert.Equal(t, 12*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "Asia/Bangkok", cfg.Location.String())
	assert.Equal(t, "RC", cfg.ReceiptPrefix)
	assert.Equal(t, "INV", cfg.InvoicePrefix)
	assert.Equal(t, "890", cfg.Policy.Rates[domain.TierGeneral].String())
	assert.Equal(t, "7", cfg.Policy.VATPercent.String())
	assert.Equal(t, 6, cfg.Policy.FullDayAfterHours)
	assert.Empty(t, cfg.TelegramChatIDs)
	assert.False(t, cfg.IsProdLike())
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_VIP", "1500")
	t.Setenv("PENALTY_PER_HOUR", "75.5")
	t.Setenv("STANDARD_CHECKOUT_HOUR", "11")
	t.Setenv("HOTEL_TIMEZONE", "UTC")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_IDS", " -100200300, 42 ,")
	t.Setenv("CORS_ORIGINS", "https://desk.example.com, http://localhost:5173")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "1500", cfg.Policy.Rates[domain.TierVIP].String())
	assert.Equal(t, "790", cfg.Policy.Rates[domain.TierTour].String())
	assert.Equal(t, "75.5", cfg.Policy.HourlyPenalty.String())
	assert.Equal(t, 11, cfg.Policy.CheckOutHour)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []int64{-100200300, 42}, cfg.TelegramChatIDs)
	assert.Equal(t, []string{"https://desk.example.com", "http://localhost:5173"}, cfg.CORSOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad ttl":             {"JWT_TTL": "soon"},
		"zero ttl":            {"JWT_TTL": "0s"},
		"bad timezone":        {"HOTEL_TIMEZONE": "Mars/Olympus"},
		"bad rate":            {"RATE_GENERAL": "cheap"},
		"zero rate":           {"RATE_TOUR": "0"},
		"negative vat":        {"VAT_PERCENT": "-1"},
		"hour out of range":   {"STANDARD_CHECKIN_HOUR": "24"},
		"bad chat id":         {"TELEGRAM_CHAT_IDS": "ops-chat"},
		"token without chat":  {"TELEGRAM_BOT_TOKEN": "123:abc"},
		"prod default secret": {"APP_ENV": "production"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_ProdWithSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestAllowedOriginsIncludeDevServers(t *testing.T) {
	cfg := &Config{CORSOrigins: []string{"https://desk.example.com"}}

	got := cfg.AllowedOrigins()
	assert.Contains(t, got, "http://localhost:5173")
	assert.Contains(t, got, "https://desk.example.com")
	assert.Empty(t, (&Config{}).AllowedOrigins()[len(devOrigins):])
}
