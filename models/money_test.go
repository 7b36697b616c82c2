package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decode(t *testing.T, v interface{}) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestCartMoneyHasTwoDecimals(t *testing.T) {
	cart := &Cart{
		ID:            uuid.New(),
		SessionCartID: "s1",
		Items:         []CartItem{{ProductID: uuid.New(), Name: "Polo", Size: "M", Qty: 1, Price: amount("53.9")}},
		ItemsPrice:    amount("53.9"),
		ShippingPrice: amount("10"),
		TaxPrice:      amount("8.09"),
		TotalPrice:    amount("71.99"),
	}

	got := decode(t, cart)
	assert.Equal(t, "53.90", got["items_price"])
	assert.Equal(t, "10.00", got["shipping_price"])
	assert.Equal(t, "8.09", got["tax_price"])
	assert.Equal(t, "71.99", got["total_price"])
	assert.Equal(t, "s1", got["session_cart_id"])

	items := got["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "53.90", line["price"])
	assert.Equal(t, "Polo", line["name"])
}

func TestOrderMoneyHasTwoDecimals(t *testing.T) {
	order := Order{
		ID:         uuid.New(),
		TotalPrice: amount("56"),
		ItemsPrice: amount("40.5"),
		OrderItems: []OrderItem{{ProductID: uuid.New(), Qty: 2, Price: amount("20.25")}},
	}

	got := decode(t, order)
	assert.Equal(t, "56.00", got["total_price"])
	assert.Equal(t, "40.50", got["items_price"])
	assert.Equal(t, "0.00", got["tax_price"])
	assert.Equal(t, "20.25", got["items"].([]interface{})[0].(map[string]interface{})["price"])
}

func TestProductMoneyHasTwoDecimals(t *testing.T) {
	got := decode(t, Product{Name: "Polo", Price: amount("59.9"), Rating: amount("4.5")})
	assert.Equal(t, "59.90", got["price"])
	assert.Equal(t, "4.50", got["rating"])
	assert.Equal(t, "Polo", got["name"])
	_, hasPromotions := got["promotions"]
	assert.False(t, hasPromotions)
}
