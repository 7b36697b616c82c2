package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money renders an amount with exactly two decimals, e.g. "56.00" rather than "56"
type Money decimal.Decimal

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal.Decimal(m).StringFixed(2))
}

func (c Cart) MarshalJSON() ([]byte, error) {
	type cart Cart
	return json.Marshal(struct {
		cart
		ItemsPrice    Money `json:"items_price"`
		ShippingPrice Money `json:"shipping_price"`
		TaxPrice      Money `json:"tax_price"`
		TotalPrice    Money `json:"total_price"`
	}{cart(c), Money(c.ItemsPrice), Money(c.ShippingPrice), Money(c.TaxPrice), Money(c.TotalPrice)})
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	type item CartItem
	return json.Marshal(struct {
		item
		Price Money `json:"price"`
	}{item(i), Money(i.Price)})
}

func (o Order) MarshalJSON() ([]byte, error) {
	type order Order
	return json.Marshal(struct {
		order
		ItemsPrice    Money `json:"items_price"`
		ShippingPrice Money `json:"shipping_price"`
		TaxPrice      Money `json:"tax_price"`
		TotalPrice    Money `json:"total_price"`
	}{order(o), Money(o.ItemsPrice), Money(o.ShippingPrice), Money(o.TaxPrice), Money(o.TotalPrice)})
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type item OrderItem
	return json.Marshal(struct {
		item
		Price Money `json:"price"`
	}{item(i), Money(i.Price)})
}

func (p Product) MarshalJSON() ([]byte, error) {
	type product Product
	return json.Marshal(struct {
		product
		Price  Money `json:"price"`
		Rating Money `json:"rating"`
	}{product(p), Money(p.Price), Money(p.Rating)})
}
