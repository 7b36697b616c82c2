package utils

import (
	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// PricingPolicy holds the shipping and tax rules applied to every cart
type PricingPolicy struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// CurrentPricingPolicy returns the policy from the loaded configuration
func CurrentPricingPolicy() PricingPolicy {
	return PricingPolicy{
		TaxRate:               config.Current.TaxRate,
		ShippingFee:           config.Current.ShippingFee,
		FreeShippingThreshold: config.Current.FreeShippingThreshold,
	}
}

// CartPrices are the four denormalized totals of a cart or order
type CartPrices struct {
	ItemsPrice    decimal.Decimal `json:"items_price"`
	ShippingPrice decimal.Decimal `json:"shipping_price"`
	TaxPrice      decimal.Decimal `json:"tax_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

// Round2 rounds half away from zero to cents
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// DiscountedPrice applies salePercentage to price. Percentages are clamped to 0..100 and a zero
// percentage leaves the price untouched.
func DiscountedPrice(price decimal.Decimal, salePercentage int) decimal.Decimal {
	if salePercentage <= 0 {
		return price
	}
	if salePercentage > 100 {
		salePercentage = 100
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(salePercentage)))
	return Round2(price.Mul(factor).Div(hundred))
}

// ProductPrice is the price a shopper pays for one unit of p today
func ProductPrice(p *models.Product) decimal.Decimal {
	return DiscountedPrice(p.Price, p.SalePercentage)
}

// CalcCartPrices totals items under policy. An empty cart ships for free.
func CalcCartPrices(items []models.CartItem, policy PricingPolicy) CartPrices {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	itemsPrice := Round2(sum)

	shipping := policy.ShippingFee
	if len(items) == 0 || itemsPrice.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = Round2(shipping)
	tax := Round2(itemsPrice.Mul(policy.TaxRate))

	return CartPrices{
		ItemsPrice:    itemsPrice,
		ShippingPrice: shipping,
		TaxPrice:      tax,
		TotalPrice:    itemsPrice.Add(shipping).Add(tax),
	}
}

// RecomputeCart refreshes the cart totals from its items. Every cart mutation calls it before
// the cart is saved.
func RecomputeCart(cart *models.Cart, policy PricingPolicy) CartPrices {
	prices := CalcCartPrices(cart.Items, policy)
	cart.ItemsPrice = prices.ItemsPrice
	cart.ShippingPrice = prices.ShippingPrice
	cart.TaxPrice = prices.TaxPrice
	cart.TotalPrice = prices.TotalPrice
	return prices
}
