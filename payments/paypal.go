package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"
)

// PayPalClient calls the PayPal Orders v2 API with an app access token
type PayPalClient struct {
	baseURL string
	http    *http.Client
}

// PayPalCapture is the result of capturing an approved PayPal order
type PayPalCapture struct {
	ID           string
	Status       string
	EmailAddress string
	Amount       decimal.Decimal
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string       `json:"id"`
				Status string       `json:"status"`
				Amount paypalAmount `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// NewPayPalClient returns a client that fetches and refreshes tokens through the client
// credentials grant
func NewPayPalClient(ctx context.Context, clientID, secret, baseURL string) *PayPalClient {
	baseURL = strings.TrimRight(baseURL, "/")
	cc := clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: secret,
		TokenURL:     baseURL + "/v1/oauth2/token",
	}
	return &PayPalClient{baseURL: baseURL, http: cc.Client(ctx)}
}

// CreateOrder opens a PayPal order for amount and returns its id
func (p *PayPalClient) CreateOrder(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{"amount": paypalAmount{CurrencyCode: currency, Value: amount.StringFixed(2)}},
		},
	}
	var resp paypalOrderResponse
	if err := p.post(ctx, "/v2/checkout/orders", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", Unavailable(ProviderPayPal, fmt.Errorf("order response without id"))
	}
	return resp.ID, nil
}

// CaptureOrder captures the payment of an approved PayPal order
func (p *PayPalClient) CaptureOrder(ctx context.Context, paypalOrderID string) (*PayPalCapture, error) {
	var resp paypalOrderResponse
	if err := p.post(ctx, "/v2/checkout/orders/"+paypalOrderID+"/capture", nil, &resp); err != nil {
		return nil, err
	}

	capture := &PayPalCapture{
		ID:           resp.ID,
		Status:       resp.Status,
		EmailAddress: resp.Payer.EmailAddress,
	}
	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		value := resp.PurchaseUnits[0].Payments.Captures[0].Amount.Value
		if amount, err := decimal.NewFromString(value); err == nil {
			capture.Amount = amount
		}
	}
	return capture, nil
}

func (p *PayPalClient) post(ctx context.Context, path string, body, out interface{}) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode paypal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build paypal request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return Unavailable(ProviderPayPal, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Unavailable(ProviderPayPal, err)
	}
	if resp.StatusCode >= 300 {
		return Unavailable(ProviderPayPal, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return Unavailable(ProviderPayPal, fmt.Errorf("decode response: %v", err))
	}
	return nil
}
