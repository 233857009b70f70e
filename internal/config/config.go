package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Checkout configuration
	VATRate        int
	Currency       string
	CurrencySymbol string
	SupportEmail   string
	SupportURL     string
	MaxDevices     int

	// Promotional coupon shown on the funnel
	CouponCode  string
	CouponLabel string

	// Session configuration
	SessionExpireHours int

	// Brevo email configuration (order confirmations)
	BrevoAPIKey    string
	BrevoFromEmail string
	BrevoFromName  string

	// Affiliate conversion postback (optional)
	AffiliatePostbackURL    string
	AffiliatePostbackSecret string
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                    getEnv("PORT", "8080"),
		Mode:                    getEnv("GIN_MODE", "debug"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379/0"),
		VATRate:                 getEnvInt("VAT_RATE", 20),
		Currency:                getEnv("CURRENCY", "GBP"),
		CurrencySymbol:          getEnv("CURRENCY_SYMBOL", "£"),
		SupportEmail:            getEnv("SUPPORT_EMAIL", "support@privatebyright.com"),
		SupportURL:              getEnv("SUPPORT_URL", "support.privatebyright.com"),
		MaxDevices:              getEnvInt("MAX_DEVICES", 5),
		CouponCode:              getEnv("COUPON_CODE", "GOLD_DISCOUNT_2026"),
		CouponLabel:             getEnv("COUPON_LABEL", "67% OFF"),
		SessionExpireHours:      getEnvInt("SESSION_EXPIRE_HOURS", 24),
		BrevoAPIKey:             getEnv("BREVO_API_KEY", ""),
		BrevoFromEmail:          getEnv("BREVO_FROM_EMAIL", ""),
		BrevoFromName:           getEnv("BREVO_FROM_NAME", "Private By Right"),
		AffiliatePostbackURL:    getEnv("AFFILIATE_POSTBACK_URL", ""),
		AffiliatePostbackSecret: getEnv("AFFILIATE_POSTBACK_SECRET", ""),
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
