package utils

import (
	"testing"
	"time"

	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanCancelOrder(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		order     models.Order
		canCancel bool
	}{
		{"fresh unpaid", models.Order{CreatedAt: now.Add(-time.Hour)}, true},
		{"exactly at the window", models.Order{CreatedAt: now.Add(-OrderCancelWindow)}, true},
		{"past the window", models.Order{CreatedAt: now.Add(-OrderCancelWindow - time.Second)}, false},
		{"paid", models.Order{CreatedAt: now, IsPaid: true}, false},
		{"delivered", models.Order{CreatedAt: now, IsDelivered: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canCancel, CanCancelOrder(&tt.order, now))
		})
	}
}

func TestCheckoutRedirect(t *testing.T) {
	address := &models.ShippingAddress{FullName: "Jane Doe"}
	full := &models.Cart{Items: []models.CartItem{line("1", 1)}}

	tests := []struct {
		name     string
		cart     *models.Cart
		user     *models.User
		redirect string
	}{
		{"no cart", nil, &models.User{}, RedirectCart},
		{"empty cart", &models.Cart{}, &models.User{Address: address, PaymentMethod: "PayPal"}, RedirectCart},
		{"no address", full, &models.User{PaymentMethod: "PayPal"}, RedirectShippingAddress},
		{"no payment method", full, &models.User{Address: address}, RedirectPaymentMethod},
		{"ready", full, &models.User{Address: address, PaymentMethod: "PayPal"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			redirect, msg := CheckoutRedirect(tt.cart, tt.user)
			assert.Equal(t, tt.redirect, redirect)
			if tt.redirect == "" {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestNewOrderFromCart(t *testing.T) {
	user := &models.User{
		ID:            uuid.New(),
		PaymentMethod: models.PaymentMethodStripe,
		Address:       &models.ShippingAddress{FullName: "Jane Doe", City: "Lisbon"},
	}
	noSize := line("10", 2)
	noSize.Size = ""
	cart := &models.Cart{Items: []models.CartItem{line("5", 1), noSize}}
	RecomputeCart(cart, testPolicy())

	order := NewOrderFromCart(cart, user)

	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, models.PaymentMethodStripe, order.PaymentMethod)
	assert.Equal(t, "Lisbon", order.ShippingAddress.City)
	assert.True(t, cart.TotalPrice.Equal(order.TotalPrice))
	require.Len(t, order.OrderItems, 2)
	for _, item := range order.OrderItems {
		assert.Equal(t, order.ID, item.OrderID)
	}
	assert.Equal(t, "N/A", order.OrderItems[1].Size)
	assert.Equal(t, "/order/"+order.ID.String(), OrderRedirect(order.ID))
}
