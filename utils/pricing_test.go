package utils

import (
	"testing"

	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               dec("0.15"),
		ShippingFee:           dec("10"),
		FreeShippingThreshold: dec("100"),
	}
}

func line(price string, qty int) models.CartItem {
	return models.CartItem{ProductID: uuid.New(), Size: "M", Qty: qty, Price: dec(price)}
}

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name  string
		price string
		sale  int
		want  string
	}{
		{"no sale", "59.99", 0, "59.99"},
		{"ten percent", "59.99", 10, "53.99"},
		{"quarter off", "99.95", 25, "74.96"},
		{"full discount", "20.00", 100, "0"},
		{"above hundred is clamped", "20.00", 150, "0"},
		{"negative is ignored", "20.00", -5, "20.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedPrice(dec(tt.price), tt.sale)
			assert.True(t, dec(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestDiscountedPriceNeverExceedsPrice(t *testing.T) {
	for _, price := range []string{"0", "0.01", "1.99", "100", "12345.67"} {
		for sale := 0; sale <= 100; sale += 5 {
			got := DiscountedPrice(dec(price), sale)
			assert.True(t, got.LessThanOrEqual(dec(price)), "price %s sale %d gave %s", price, sale, got)
			assert.False(t, got.IsNegative())
		}
	}
}

func TestCalcCartPrices(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name       string
		items      []models.CartItem
		itemsPrice string
		shipping   string
		tax        string
		total      string
	}{
		{"empty cart ships free", nil, "0", "0", "0", "0"},
		{"below threshold pays shipping", []models.CartItem{line("20.00", 2)}, "40", "10", "6", "56"},
		{"threshold itself pays shipping", []models.CartItem{line("50.00", 2)}, "100", "10", "15", "125"},
		{"above threshold ships free", []models.CartItem{line("50.00", 2), line("0.01", 1)}, "100.01", "0", "15", "115.01"},
		{"tax rounds to cents", []models.CartItem{line("53.99", 1)}, "53.99", "10", "8.10", "72.09"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcCartPrices(tt.items, policy)
			assert.True(t, dec(tt.itemsPrice).Equal(got.ItemsPrice), "items %s", got.ItemsPrice)
			assert.True(t, dec(tt.shipping).Equal(got.ShippingPrice), "shipping %s", got.ShippingPrice)
			assert.True(t, dec(tt.tax).Equal(got.TaxPrice), "tax %s", got.TaxPrice)
			assert.True(t, dec(tt.total).Equal(got.TotalPrice), "total %s", got.TotalPrice)
		})
	}
}

func TestRecomputeCartKeepsTotalConsistent(t *testing.T) {
	policy := testPolicy()
	cart := &models.Cart{}
	productID := uuid.New()

	var err error
	for i := 0; i < 3; i++ {
		cart.Items, _, err = AddCartLine(cart.Items, models.CartItem{ProductID: productID, Size: "L", Price: dec("33.33")}, 10)
		assert.NoError(t, err)
		RecomputeCart(cart, policy)
		assert.True(t, cart.TotalPrice.Equal(cart.ItemsPrice.Add(cart.ShippingPrice).Add(cart.TaxPrice)))
	}
	assert.True(t, dec("99.99").Equal(cart.ItemsPrice))
	assert.True(t, dec("10").Equal(cart.ShippingPrice))

	cart.Items, err = RemoveCartLine(cart.Items, productID, "L")
	assert.NoError(t, err)
	RecomputeCart(cart, policy)
	assert.True(t, dec("66.66").Equal(cart.ItemsPrice))
	assert.True(t, cart.TotalPrice.Equal(cart.ItemsPrice.Add(cart.ShippingPrice).Add(cart.TaxPrice)))
}

func TestProductPrice(t *testing.T) {
	p := &models.Product{Price: dec("80.00"), SalePercentage: 15}
	assert.True(t, dec("68").Equal(ProductPrice(p)))
}
