package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

func GetDSN() string {
	DATABASE_HOST := os.Getenv("DATABASE_HOST")
	DATABASE_PORT := os.Getenv("DATABASE_PORT")
	DATABASE_SSLMODE := os.Getenv("DATABASE_SSLMODE")
	DATABASE_TIMEZONE := os.Getenv("DATABASE_TIMEZONE")
	DATABASE_USER := os.Getenv("DATABASE_USER")
	DATABASE_PASSWORD := os.Getenv("DATABASE_PASSWORD")
	DATABASE_NAME := os.Getenv("DATABASE_NAME")
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s", DATABASE_HOST, DATABASE_USER, DATABASE_PASSWORD, DATABASE_NAME, DATABASE_PORT, DATABASE_SSLMODE, DATABASE_TIMEZONE)
	return dsn
}

const TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"

// AppConfig is read once at startup and never mutated afterwards. Runtime
// toggles go through dedicated admin endpoints, not config writes.
type AppConfig struct {
	HoldDuration        time.Duration
	SweepInterval       time.Duration
	Currency            string
	TaxRate             float64
	InvoiceDueDays      int
	StripeWebhookSecret string
	MailFrom            string
	MailFromName        string
}

var (
	cfg     *AppConfig
	cfgOnce sync.Once
)

func Get() *AppConfig {
	cfgOnce.Do(func() {
		cfg = &AppConfig{
			HoldDuration:        envDuration("HOLD_DURATION", 15*time.Minute),
			SweepInterval:       envDuration("SWEEP_INTERVAL", time.Minute),
			Currency:            envString("CURRENCY", "usd"),
			TaxRate:             envFloat("TAX_RATE", 0.1),
			InvoiceDueDays:      envInt("INVOICE_DUE_DAYS", 14),
			StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			MailFrom:            envString("MAIL_FROM", "billing@example.com"),
			MailFromName:        envString("MAIL_FROM_NAME", "Booth Sales"),
		}
	})
	return cfg
}

// Replace swaps the process config. Test hook only.
func Replace(c *AppConfig) {
	cfgOnce.Do(func() {})
	cfg = c
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s: %s\n", key, err.Error())
		return fallback
	}
	return d
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid float for %s: %s\n", key, err.Error())
		return fallback
	}
	return f
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid int for %s: %s\n", key, err.Error())
		return fallback
	}
	return i
}
