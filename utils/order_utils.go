package utils

import (
	"time"

	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
)

// OrderCancelWindow is how long after placement an unpaid order can still be cancelled
const OrderCancelWindow = 24 * time.Hour

// CanCancelOrder reports whether the shopper may still cancel order at now
func CanCancelOrder(order *models.Order, now time.Time) bool {
	if order.IsPaid || order.IsDelivered {
		return false
	}
	return now.Sub(order.CreatedAt) <= OrderCancelWindow
}

// Checkout redirects
const (
	RedirectCart            = "/cart"
	RedirectShippingAddress = "/shipping-address"
	RedirectPaymentMethod   = "/payment-method"
)

// CheckoutRedirect returns where the shopper must go before an order can be placed, or "" when
// the cart and profile are complete
func CheckoutRedirect(cart *models.Cart, user *models.User) (string, string) {
	switch {
	case cart == nil || len(cart.Items) == 0:
		return RedirectCart, "Your cart is empty"
	case user.Address == nil:
		return RedirectShippingAddress, "No shipping address"
	case user.PaymentMethod == "":
		return RedirectPaymentMethod, "No payment method"
	}
	return "", ""
}

// OrderRedirect is where the shopper lands after placing order id
func OrderRedirect(id uuid.UUID) string {
	return "/order/" + id.String()
}

// BuildOrderItems snapshots the cart lines for orderID
func BuildOrderItems(orderID uuid.UUID, items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		size := item.Size
		if size == "" {
			size = "N/A"
		}
		out = append(out, models.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Size:      size,
			Qty:       item.Qty,
			Price:     item.Price,
			Name:      item.Name,
			Slug:      item.Slug,
			Image:     item.Image,
		})
	}
	return out
}

// NewOrderFromCart copies the cart totals and the user's checkout details into a new order
func NewOrderFromCart(cart *models.Cart, user *models.User) *models.Order {
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        user.ID,
		PaymentMethod: user.PaymentMethod,
		ItemsPrice:    cart.ItemsPrice,
		ShippingPrice: cart.ShippingPrice,
		TaxPrice:      cart.TaxPrice,
		TotalPrice:    cart.TotalPrice,
	}
	if user.Address != nil {
		order.ShippingAddress = *user.Address
	}
	order.OrderItems = BuildOrderItems(order.ID, cart.Items)
	return order
}
