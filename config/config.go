package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all configuration for the application
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	SessionSecret string
	Port          string
	Env           string
	LogStdout     bool
	CORSOrigin    string
	SecureCookies bool

	AppName     string
	SenderEmail string
	PageSize    int

	PaymentMethods       []string
	DefaultPaymentMethod string

	// Pricing policy
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	Currency              string

	// Sign-in cart reconciliation: "keep-user" or "union"
	CartMergePolicy string

	PayPalClientID string
	PayPalSecret   string
	PayPalAPIURL   string

	StripeSecretKey     string
	StripeWebhookSecret string

	RazorpayKey    string
	RazorpaySecret string

	AdminEmail    string
	AdminPassword string
	AdminName     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string

	OTELExporterOTLPEndpoint string
	OTELExporterOTLPInsecure bool
	OTELServiceName          string
	OTELServiceVersion       string
}

// Current is the configuration loaded at startup
var Current = defaults()

// LoadConfig loads configuration from the .env file (when present) and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := defaults()
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.JWTSecret)
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.LogStdout = getEnvBool("LOG_STDOUT", cfg.LogStdout)
	cfg.CORSOrigin = os.Getenv("CORS_ORIGIN")
	cfg.SecureCookies = getEnvBool("SECURE_COOKIES", cfg.Env == "production")

	cfg.AppName = getEnv("APP_NAME", cfg.AppName)
	cfg.SenderEmail = getEnv("SENDER_EMAIL", cfg.SenderEmail)
	cfg.PageSize = getEnvInt("PAGE_SIZE", cfg.PageSize)

	if methods := os.Getenv("PAYMENT_METHODS"); methods != "" {
		cfg.PaymentMethods = splitList(methods)
	}
	cfg.DefaultPaymentMethod = getEnv("DEFAULT_PAYMENT_METHOD", cfg.DefaultPaymentMethod)

	var err error
	if cfg.TaxRate, err = getEnvDecimal("TAX_RATE", cfg.TaxRate); err != nil {
		return nil, err
	}
	if cfg.ShippingFee, err = getEnvDecimal("SHIPPING_FEE", cfg.ShippingFee); err != nil {
		return nil, err
	}
	if cfg.FreeShippingThreshold, err = getEnvDecimal("FREE_SHIPPING_THRESHOLD", cfg.FreeShippingThreshold); err != nil {
		return nil, err
	}
	cfg.Currency = getEnv("CURRENCY", cfg.Currency)
	cfg.CartMergePolicy = getEnv("CART_MERGE_POLICY", cfg.CartMergePolicy)

	cfg.PayPalClientID = os.Getenv("PAYPAL_CLIENT_ID")
	cfg.PayPalSecret = os.Getenv("PAYPAL_APP_SECRET")
	cfg.PayPalAPIURL = getEnv("PAYPAL_API_URL", cfg.PayPalAPIURL)

	cfg.StripeSecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.StripeWebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.RazorpayKey = os.Getenv("RAZORPAY_KEY")
	cfg.RazorpaySecret = os.Getenv("RAZORPAY_SECRET")

	cfg.AdminEmail = os.Getenv("ADMIN_EMAIL")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	cfg.AdminName = getEnv("ADMIN_NAME", cfg.AdminName)

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = getEnvInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")

	cfg.OTELExporterOTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.OTELExporterOTLPInsecure = getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OTELExporterOTLPInsecure)
	cfg.OTELServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTELServiceName)
	cfg.OTELServiceVersion = getEnv("OTEL_SERVICE_VERSION", cfg.OTELServiceVersion)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	Current = cfg
	return cfg, nil
}

// Validate checks the settings that have no usable default
func (c *Config) Validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.TaxRate.IsNegative() || c.ShippingFee.IsNegative() || c.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("pricing policy values must not be negative")
	}
	if c.CartMergePolicy != "keep-user" && c.CartMergePolicy != "union" {
		return fmt.Errorf("CART_MERGE_POLICY must be keep-user or union, got %q", c.CartMergePolicy)
	}
	if len(c.PaymentMethods) == 0 {
		return fmt.Errorf("PAYMENT_METHODS must not be empty")
	}
	return nil
}

// IsPaymentMethod reports whether method is one of the configured payment methods
func (c *Config) IsPaymentMethod(method string) bool {
	for _, m := range c.PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

func defaults() *Config {
	return &Config{
		DBHost:                "localhost",
		DBPort:                "5432",
		DBUser:                "postgres",
		DBName:                "storefront",
		DBSSLMode:             "disable",
		Port:                  "8080",
		Env:                   "development",
		AppName:               "Aspireon",
		SenderEmail:           "onboarding@aspireon.dev",
		PageSize:              3,
		PaymentMethods:        []string{"PayPal", "Stripe", "CashOnDelivery"},
		DefaultPaymentMethod:  "PayPal",
		TaxRate:               decimal.RequireFromString("0.15"),
		ShippingFee:           decimal.RequireFromString("10.00"),
		FreeShippingThreshold: decimal.RequireFromString("100.00"),
		Currency:              "USD",
		CartMergePolicy:       "keep-user",
		PayPalAPIURL:          "https://api-m.sandbox.paypal.com",
		AdminName:             "Admin",
		SMTPPort:              587,

		OTELExporterOTLPInsecure: true,
		OTELServiceName:          "storefront",
		OTELServiceVersion:       "1.0.0",
	}
}

// splitList accepts both "a, b" and "a,b"
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) (decimal.Decimal, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return defaultValue, fmt.Errorf("invalid %s %q: %v", key, value, err)
	}
	return d, nil
}
