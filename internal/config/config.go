package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"hotelfront/internal/domain"
	"hotelfront/internal/pricing"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	defaultHTTPAddr      = ":8080"
	defaultDatabaseURL   = "hotel.db"
	defaultJWTSecret     = "change-me-jwt-secret"
	defaultJWTTTL        = "12h"
	defaultTimezone      = "Asia/Bangkok"
	defaultReceiptPrefix = "RC"
	defaultInvoicePrefix = "INV"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	Timezone string
	Location *time.Location
	Policy   pricing.Policy

	ReceiptPrefix string
	InvoicePrefix string

	TelegramBotToken string
	TelegramChatIDs  []int64

	CORSOrigins []string
}

// Load reads the environment. A .env file in the working directory, when
// present, fills variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.HTTPAddr = strings.TrimSpace(getEnv("HTTP_ADDR", defaultHTTPAddr))
	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", defaultDatabaseURL))
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))
	cfg.ReceiptPrefix = strings.TrimSpace(getEnv("RECEIPT_PREFIX", defaultReceiptPrefix))
	cfg.InvoicePrefix = strings.TrimSpace(getEnv("INVOICE_PREFIX", defaultInvoicePrefix))
	cfg.TelegramBotToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.CORSOrigins = splitList(os.Getenv("CORS_ORIGINS"))

	var err error
	if cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL); err != nil {
		return nil, err
	}

	cfg.Timezone = strings.TrimSpace(getEnv("HOTEL_TIMEZONE", defaultTimezone))
	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid HOTEL_TIMEZONE value %q: %w", cfg.Timezone, err)
	}

	if cfg.Policy, err = loadPolicy(); err != nil {
		return nil, err
	}

	if cfg.TelegramChatIDs, err = parseChatIDs(os.Getenv("TELEGRAM_CHAT_IDS")); err != nil {
		return nil, err
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	log.Printf("config: env=%s addr=%s timezone=%s telegram_chats=%d", cfg.AppEnv, cfg.HTTPAddr, cfg.Timezone, len(cfg.TelegramChatIDs))
	return cfg, nil
}

func loadPolicy() (pricing.Policy, error) {
	p := pricing.DefaultPolicy()
	rates := map[domain.PricingTier]string{
		domain.TierGeneral: "RATE_GENERAL",
		domain.TierTour:    "RATE_TOUR",
		domain.TierVIP:     "RATE_VIP",
	}
	for tier, name := range rates {
		v, err := parseDecimalEnv(name, p.Rates[tier])
		if err != nil {
			return p, err
		}
		p.Rates[tier] = v
	}

	var err error
	if p.HourlyPenalty, err = parseDecimalEnv("PENALTY_PER_HOUR", p.HourlyPenalty); err != nil {
		return p, err
	}
	if p.VATPercent, err = parseDecimalEnv("VAT_PERCENT", p.VATPercent); err != nil {
		return p, err
	}
	if p.FullDayAfterHours, err = parseIntEnv("PENALTY_FULL_DAY_AFTER_HOURS", p.FullDayAfterHours); err != nil {
		return p, err
	}
	if p.CheckInHour, err = parseIntEnv("STANDARD_CHECKIN_HOUR", p.CheckInHour); err != nil {
		return p, err
	}
	if p.CheckOutHour, err = parseIntEnv("STANDARD_CHECKOUT_HOUR", p.CheckOutHour); err != nil {
		return p, err
	}
	return p, nil
}

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if cfg.ReceiptPrefix == "" || cfg.InvoicePrefix == "" {
		return fmt.Errorf("RECEIPT_PREFIX and INVOICE_PREFIX must not be empty")
	}

	p := cfg.Policy
	for _, tr := range p.Tiers() {
		if !tr.Rate.IsPositive() {
			return fmt.Errorf("rate for tier %s must be > 0", tr.Tier)
		}
	}
	if p.HourlyPenalty.IsNegative() {
		return fmt.Errorf("PENALTY_PER_HOUR must be >= 0")
	}
	if p.VATPercent.IsNegative() {
		return fmt.Errorf("VAT_PERCENT must be >= 0")
	}
	if p.FullDayAfterHours < 0 {
		return fmt.Errorf("PENALTY_FULL_DAY_AFTER_HOURS must be >= 0")
	}
	if p.CheckInHour < 0 || p.CheckInHour > 23 || p.CheckOutHour < 0 || p.CheckOutHour > 23 {
		return fmt.Errorf("STANDARD_CHECKIN_HOUR and STANDARD_CHECKOUT_HOUR must be in 0..23")
	}

	if cfg.TelegramBotToken != "" && len(cfg.TelegramChatIDs) == 0 {
		return fmt.Errorf("TELEGRAM_CHAT_IDS must be set when TELEGRAM_BOT_TOKEN is set")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

// devOrigins are the local dashboard dev servers, always allowed.
var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// AllowedOrigins is the browser origin allow-list shared by CORS and the
// websocket hub.
func (c *Config) AllowedOrigins() []string {
	out := make([]string, 0, len(devOrigins)+len(c.CORSOrigins))
	out = append(out, devOrigins...)
	return append(out, c.CORSOrigins...)
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func (c *Config) IsProdLike() bool { return isProdLike(c.AppEnv) }

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseDecimalEnv(name string, fallback decimal.Decimal) (decimal.Decimal, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func parseIntEnv(name string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return n, nil
}

func parseChatIDs(raw string) ([]int64, error) {
	var out []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_IDS entry %q: %w", part, err)
		}
		out = append(out, id)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
