// Package payments talks to the payment providers the storefront accepts.
package payments

import (
	"context"
	"fmt"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/utils"
	"github.com/shopspring/decimal"
)

// Provider names as recorded in the processed event ledger
const (
	ProviderPayPal   = "paypal"
	ProviderStripe   = "stripe"
	ProviderRazorpay = "razorpay"
)

// Configured gateways, set by Init
var (
	PayPal   *PayPalClient
	Stripe   *StripeGateway
	Razorpay *RazorpayGateway
)

// Init builds the gateways whose credentials are present in cfg
func Init(ctx context.Context, cfg *config.Config) {
	PayPal, Stripe, Razorpay = nil, nil, nil
	if cfg.PayPalClientID != "" && cfg.PayPalSecret != "" {
		PayPal = NewPayPalClient(ctx, cfg.PayPalClientID, cfg.PayPalSecret, cfg.PayPalAPIURL)
	}
	if cfg.StripeSecretKey != "" {
		Stripe = NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
	if cfg.RazorpayKey != "" && cfg.RazorpaySecret != "" {
		Razorpay = NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret)
	}
}

// Unavailable marks err as a provider outage so callers can answer with a retry message
func Unavailable(provider string, err error) error {
	return fmt.Errorf("%s: %w: %v", provider, utils.ErrPaymentUnavailable, err)
}

// MinorUnits converts an amount to cents
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// FromMinorUnits converts cents to an amount
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
