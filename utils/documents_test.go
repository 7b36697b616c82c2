package utils

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/aspireon/storefront/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	paidAt := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	id := uuid.New()
	return &models.Order{
		ID:            id,
		User:          models.User{Name: "Jane Doe", Email: "jane@example.com"},
		PaymentMethod: models.PaymentMethodPayPal,
		ShippingAddress: models.ShippingAddress{
			FullName: "Jane Doe", StreetAddress: "1 Main St", City: "Lisbon", PostalCode: "1000", Country: "Portugal",
		},
		ItemsPrice:    dec("40"),
		ShippingPrice: dec("10"),
		TaxPrice:      dec("6"),
		TotalPrice:    dec("56"),
		IsPaid:        true,
		PaidAt:        &paidAt,
		CreatedAt:     paidAt.Add(-time.Hour),
		OrderItems: []models.OrderItem{
			{OrderID: id, ProductID: uuid.New(), Name: "Polo <Sporty> Shirt", Size: "M", Qty: 2, Price: dec("20")},
		},
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	pdf, err := GenerateInvoicePDF(sampleOrder(), "Aspireon")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestWriteOrdersXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteOrdersXLSX(&buf, []models.Order{*sampleOrder()}, "All orders"))

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err, "workbook is a zip archive")
	assert.NotEmpty(t, r.File)
}

func TestRenderPurchaseReceipt(t *testing.T) {
	order := sampleOrder()
	body, err := RenderPurchaseReceipt(order)
	require.NoError(t, err)

	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, order.ID.String())
	assert.Contains(t, body, "Total: 56.00")
	assert.Contains(t, body, "Polo &lt;Sporty&gt; Shirt")
	assert.NotContains(t, body, "<Sporty>")
}
