package utils

import (
	"testing"

	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCartLine(t *testing.T) {
	productID := uuid.New()
	first := models.CartItem{ProductID: productID, Size: "M", Price: dec("20")}

	items, existed, err := AddCartLine(nil, first, 2)
	require.NoError(t, err)
	assert.False(t, existed)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Qty)

	repriced := first
	repriced.Price = dec("15")
	items, existed, err = AddCartLine(items, repriced, 2)
	require.NoError(t, err)
	assert.True(t, existed)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Qty)
	assert.True(t, dec("20").Equal(items[0].Price), "existing line keeps its price")

	before := items
	items, _, err = AddCartLine(items, first, 2)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, before, items)

	otherSize := first
	otherSize.Size = "L"
	items, existed, err = AddCartLine(items, otherSize, 2)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Len(t, items, 2)
}

func TestAddCartLineOutOfStock(t *testing.T) {
	_, _, err := AddCartLine(nil, models.CartItem{ProductID: uuid.New(), Price: dec("1")}, 0)
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRemoveCartLine(t *testing.T) {
	productID := uuid.New()
	items := []models.CartItem{
		{ProductID: productID, Size: "M", Qty: 2, Price: dec("3")},
		{ProductID: uuid.New(), Size: "S", Qty: 1, Price: dec("4")},
	}

	items, err := RemoveCartLine(items, productID, "M")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 1, items[0].Qty)

	items, err = RemoveCartLine(items, productID, "M")
	require.NoError(t, err)
	require.Len(t, items, 1, "last unit drops the line")
	assert.NotEqual(t, productID, items[0].ProductID)

	unchanged, err := RemoveCartLine(items, productID, "M")
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	assert.Equal(t, items, unchanged)
}

func TestRemoveCartLineDoesNotAliasInput(t *testing.T) {
	productID := uuid.New()
	items := []models.CartItem{{ProductID: productID, Size: "M", Qty: 2}}

	out, err := RemoveCartLine(items, productID, "M")
	require.NoError(t, err)
	assert.Equal(t, 1, out[0].Qty)
	assert.Equal(t, 2, items[0].Qty)
}

func TestCartItemCount(t *testing.T) {
	assert.Equal(t, 0, CartItemCount(nil))
	assert.Equal(t, 5, CartItemCount([]models.CartItem{{Qty: 2}, {Qty: 3}}))
}

func TestMergeCartItems(t *testing.T) {
	shared := line("10", 2)
	soldOut := line("5", 1)
	unknown := line("7", 4)

	tests := []struct {
		name  string
		stock map[uuid.UUID]int
		want  map[uuid.UUID]int
	}{
		{
			name: "no stock limits",
			want: map[uuid.UUID]int{shared.ProductID: 4, soldOut.ProductID: 1, unknown.ProductID: 4},
		},
		{
			name:  "capped at stock",
			stock: map[uuid.UUID]int{shared.ProductID: 3, soldOut.ProductID: 0},
			want:  map[uuid.UUID]int{shared.ProductID: 3, unknown.ProductID: 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := []models.CartItem{shared}
			merged := MergeCartItems(dst, []models.CartItem{shared, soldOut, unknown}, tt.stock)

			got := map[uuid.UUID]int{}
			for _, item := range merged {
				got[item.ProductID] = item.Qty
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 2, dst[0].Qty, "input is not modified")
		})
	}
}
