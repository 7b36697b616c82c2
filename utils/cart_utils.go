package utils

import (
	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
)

// FindCartLine returns the index of the (productID, size) line or -1
func FindCartLine(items []models.CartItem, productID uuid.UUID, size string) int {
	for i, item := range items {
		if item.ProductID == productID && item.Size == size {
			return i
		}
	}
	return -1
}

// AddCartLine adds one unit of line to items. An existing line keeps the price it was added at.
// The combined quantity may not exceed stock. The returned bool tells whether the line existed.
func AddCartLine(items []models.CartItem, line models.CartItem, stock int) ([]models.CartItem, bool, error) {
	out := append([]models.CartItem(nil), items...)
	if i := FindCartLine(out, line.ProductID, line.Size); i >= 0 {
		if out[i].Qty+1 > stock {
			return items, true, ErrInsufficientStock
		}
		out[i].Qty++
		return out, true, nil
	}

	if line.Qty < 1 {
		line.Qty = 1
	}
	if line.Qty > stock {
		return items, false, ErrInsufficientStock
	}
	return append(out, line), false, nil
}

// RemoveCartLine takes one unit off the (productID, size) line, dropping the line at zero
func RemoveCartLine(items []models.CartItem, productID uuid.UUID, size string) ([]models.CartItem, error) {
	i := FindCartLine(items, productID, size)
	if i < 0 {
		return items, ErrCartItemNotFound
	}

	out := append([]models.CartItem(nil), items...)
	if out[i].Qty <= 1 {
		return append(out[:i], out[i+1:]...), nil
	}
	out[i].Qty--
	return out, nil
}

// MergeCartItems appends src lines to dst, adding quantities of lines both carts hold.
// Prices on dst lines win. Lines of products listed in stock are capped at that stock, and a
// line left without units is dropped.
func MergeCartItems(dst, src []models.CartItem, stock map[uuid.UUID]int) []models.CartItem {
	out := append([]models.CartItem(nil), dst...)
	for _, line := range src {
		if i := FindCartLine(out, line.ProductID, line.Size); i >= 0 {
			out[i].Qty += line.Qty
			continue
		}
		out = append(out, line)
	}

	kept := out[:0]
	for _, item := range out {
		if available, ok := stock[item.ProductID]; ok && item.Qty > available {
			item.Qty = available
		}
		if item.Qty > 0 {
			kept = append(kept, item)
		}
	}
	return kept
}

// CartItemCount is the number of units in the cart
func CartItemCount(items []models.CartItem) int {
	n := 0
	for _, item := range items {
		n += item.Qty
	}
	return n
}
