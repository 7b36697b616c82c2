package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aspireon/storefront/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(5600), MinorUnits(decimal.RequireFromString("56")))
	assert.Equal(t, int64(7209), MinorUnits(decimal.RequireFromString("72.09")))
	assert.True(t, decimal.RequireFromString("72.09").Equal(FromMinorUnits(7209)))
}

func TestRazorpaySignature(t *testing.T) {
	gw := NewRazorpayGateway("rzp_test_key", "rzp_secret")

	sig := RazorpaySignature("rzp_secret", "order_abc", "pay_123")
	assert.True(t, gw.VerifySignature("order_abc", "pay_123", sig))
	assert.False(t, gw.VerifySignature("order_abc", "pay_124", sig))
	assert.False(t, gw.VerifySignature("order_abc", "pay_123", "deadbeef"))
}

func TestRazorpayReceiptFitsLimit(t *testing.T) {
	receipt := RazorpayReceipt(uuid.New())
	assert.LessOrEqual(t, len(receipt), 40)
}

func newPayPalServer(t *testing.T, captureStatus string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		var body map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "CAPTURE", body["intent"])
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"PP-ORDER-1","status":"CREATED"}`)
	})
	mux.HandleFunc("/v2/checkout/orders/PP-ORDER-1/capture", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"PP-ORDER-1","status":%q,"payer":{"email_address":"buyer@example.com"},
			"purchase_units":[{"payments":{"captures":[{"id":"CAP-1","status":"COMPLETED","amount":{"currency_code":"USD","value":"56.00"}}]}}]}`, captureStatus)
	})
	mux.HandleFunc("/v2/checkout/orders/UNKNOWN/capture", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"name":"RESOURCE_NOT_FOUND"}`, http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestPayPalCreateAndCapture(t *testing.T) {
	srv := newPayPalServer(t, "COMPLETED")
	ctx := context.Background()
	client := NewPayPalClient(ctx, "client-id", "secret", srv.URL+"/")

	id, err := client.CreateOrder(ctx, decimal.RequireFromString("56"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "PP-ORDER-1", id)

	capture, err := client.CaptureOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", capture.Status)
	assert.Equal(t, "buyer@example.com", capture.EmailAddress)
	assert.True(t, decimal.RequireFromString("56").Equal(capture.Amount))
}

func TestPayPalErrorsAreUnavailable(t *testing.T) {
	srv := newPayPalServer(t, "COMPLETED")
	ctx := context.Background()
	client := NewPayPalClient(ctx, "client-id", "secret", srv.URL)

	_, err := client.CaptureOrder(ctx, "UNKNOWN")
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrPaymentUnavailable)
}

func signStripePayload(secret string, payload []byte, ts time.Time) string {
	stamp := strconv.FormatInt(ts.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(stamp + "."))
	mac.Write(payload)
	return "t=" + stamp + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}

func stripeEvent(eventType string, orderID uuid.UUID) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_123",
		"object": "event",
		"api_version": "2023-10-16",
		"type": %q,
		"data": {"object": {
			"id": "ch_123",
			"object": "charge",
			"amount": 5600,
			"currency": "usd",
			"billing_details": {"email": "buyer@example.com"},
			"metadata": {"orderId": %q}
		}}
	}`, eventType, orderID.String()))
}

func TestParseChargeSucceeded(t *testing.T) {
	const secret = "whsec_test"
	gw := NewStripeGateway("sk_test_123", secret)
	orderID := uuid.New()

	payload := stripeEvent("charge.succeeded", orderID)
	charge, err := gw.ParseChargeSucceeded(payload, signStripePayload(secret, payload, time.Now()))
	require.NoError(t, err)
	require.NotNil(t, charge)
	assert.Equal(t, "evt_123", charge.EventID)
	assert.Equal(t, "ch_123", charge.ChargeID)
	assert.Equal(t, orderID, charge.OrderID)
	assert.Equal(t, "buyer@example.com", charge.EmailAddress)
	assert.True(t, decimal.RequireFromString("56").Equal(charge.Amount))
}

func TestParseChargeSucceededIgnoresOtherEvents(t *testing.T) {
	const secret = "whsec_test"
	gw := NewStripeGateway("sk_test_123", secret)

	payload := stripeEvent("charge.refunded", uuid.New())
	charge, err := gw.ParseChargeSucceeded(payload, signStripePayload(secret, payload, time.Now()))
	assert.NoError(t, err)
	assert.Nil(t, charge)
}

func TestParseChargeSucceededRejectsBadSignature(t *testing.T) {
	gw := NewStripeGateway("sk_test_123", "whsec_test")
	payload := stripeEvent("charge.succeeded", uuid.New())

	tests := map[string]string{
		"wrong secret": signStripePayload("whsec_other", payload, time.Now()),
		"stale":        signStripePayload("whsec_test", payload, time.Now().Add(-time.Hour)),
		"missing":      "",
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := gw.ParseChargeSucceeded(payload, header)
			assert.ErrorIs(t, err, utils.ErrInvalidSignature)
		})
	}
}
