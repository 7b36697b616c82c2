package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENV", "development")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.SessionSecret, "session secret falls back to the JWT secret")
	assert.Equal(t, 3, cfg.PageSize)
	assert.Equal(t, "keep-user", cfg.CartMergePolicy)
	assert.True(t, decimal.RequireFromString("0.15").Equal(cfg.TaxRate))
	assert.True(t, decimal.RequireFromString("100").Equal(cfg.FreeShippingThreshold))
	assert.False(t, cfg.SecureCookies)
	assert.True(t, cfg.IsPaymentMethod("PayPal"))
	assert.False(t, cfg.IsPaymentMethod("Bitcoin"))
	assert.Same(t, cfg, Current)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PAYMENT_METHODS", "Stripe, CashOnDelivery")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("CART_MERGE_POLICY", "union")
	t.Setenv("PAGE_SIZE", "12")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"Stripe", "CashOnDelivery"}, cfg.PaymentMethods)
	assert.True(t, decimal.RequireFromString("0.2").Equal(cfg.TaxRate))
	assert.Equal(t, "union", cfg.CartMergePolicy)
	assert.Equal(t, 12, cfg.PageSize)
	assert.True(t, cfg.SecureCookies, "production defaults to secure cookies")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unparsable tax rate", "TAX_RATE", "fifteen"},
		{"negative fee", "SHIPPING_FEE", "-1"},
		{"unknown merge policy", "CART_MERGE_POLICY", "newest"},
		{"zero page size", "PAGE_SIZE", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := defaults()
	cfg.DBPassword = "pw"
	assert.Equal(t, "host=localhost port=5432 user=postgres password=pw dbname=storefront sslmode=disable", cfg.DSN())
}
