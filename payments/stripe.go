package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aspireon/storefront/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeOrderMetadataKey links a PaymentIntent back to its order
const StripeOrderMetadataKey = "orderId"

// StripeGateway creates PaymentIntents and verifies webhook deliveries
type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

// ChargeSucceeded is the part of a charge.succeeded event the storefront acts on
type ChargeSucceeded struct {
	EventID      string
	ChargeID     string
	OrderID      uuid.UUID
	EmailAddress string
	Amount       decimal.Decimal
}

// NewStripeGateway returns a gateway for the given secret key
func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

// CreatePaymentIntent starts a card payment for order and returns the client secret
func (s *StripeGateway) CreatePaymentIntent(ctx context.Context, orderID uuid.UUID, amount decimal.Decimal, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.Context = ctx
	params.AddMetadata(StripeOrderMetadataKey, orderID.String())

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", Unavailable(ProviderStripe, err)
	}
	return pi.ClientSecret, nil
}

// ParseChargeSucceeded verifies the signature of a webhook delivery. Events other than
// charge.succeeded yield nil without error.
func (s *StripeGateway) ParseChargeSucceeded(payload []byte, signature string) (*ChargeSucceeded, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidSignature, err)
	}
	if string(event.Type) != "charge.succeeded" {
		return nil, nil
	}

	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return nil, fmt.Errorf("failed to decode charge: %v", err)
	}
	orderID, err := uuid.Parse(charge.Metadata[StripeOrderMetadataKey])
	if err != nil {
		return nil, fmt.Errorf("charge %s has no valid %s metadata: %v", charge.ID, StripeOrderMetadataKey, err)
	}

	out := &ChargeSucceeded{
		EventID:  event.ID,
		ChargeID: charge.ID,
		OrderID:  orderID,
		Amount:   FromMinorUnits(charge.Amount),
	}
	if charge.BillingDetails != nil {
		out.EmailAddress = charge.BillingDetails.Email
	}
	return out, nil
}
