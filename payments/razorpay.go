package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"
)

// RazorpayGateway creates Razorpay orders and checks checkout signatures
type RazorpayGateway struct {
	Key    string
	secret string
	client *razorpay.Client
}

// NewRazorpayGateway returns a gateway for the key pair
func NewRazorpayGateway(key, secret string) *RazorpayGateway {
	return &RazorpayGateway{Key: key, secret: secret, client: razorpay.NewClient(key, secret)}
}

// RazorpayReceipt is the receipt id sent for order; Razorpay caps receipts at 40 characters
func RazorpayReceipt(orderID uuid.UUID) string {
	return "rcpt_" + strings.ReplaceAll(orderID.String(), "-", "")
}

// CreateOrder opens a Razorpay order for amount and returns its id
func (r *RazorpayGateway) CreateOrder(orderID uuid.UUID, amount decimal.Decimal, currency string) (string, error) {
	data := map[string]interface{}{
		"amount":          MinorUnits(amount),
		"currency":        currency,
		"receipt":         RazorpayReceipt(orderID),
		"payment_capture": 1,
	}
	rzOrder, err := r.client.Order.Create(data, nil)
	if err != nil {
		return "", Unavailable(ProviderRazorpay, err)
	}
	id, ok := rzOrder["id"].(string)
	if !ok || id == "" {
		return "", Unavailable(ProviderRazorpay, fmt.Errorf("order response without id"))
	}
	return id, nil
}

// VerifySignature checks the checkout signature over "order_id|payment_id"
func (r *RazorpayGateway) VerifySignature(razorpayOrderID, paymentID, signature string) bool {
	return hmac.Equal([]byte(RazorpaySignature(r.secret, razorpayOrderID, paymentID)), []byte(signature))
}

// RazorpaySignature computes the hex HMAC-SHA256 Razorpay sends back after checkout
func RazorpaySignature(secret, razorpayOrderID, paymentID string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(razorpayOrderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}
