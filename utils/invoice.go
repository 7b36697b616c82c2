package utils

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/aspireon/storefront/models"
	"github.com/jung-kurt/gofpdf"
)

// GenerateInvoicePDF renders an A4 invoice for order
func GenerateInvoicePDF(order *models.Order, storeName string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, tr(storeName))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, "Order ID: "+order.ID.String())
	pdf.Ln(7)
	pdf.Cell(90, 7, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04"))
	pdf.Cell(90, 7, "Payment Method: "+order.PaymentMethod)
	pdf.Ln(7)
	status := "Unpaid"
	if order.IsPaid && order.PaidAt != nil {
		status = "Paid " + order.PaidAt.Format("2006-01-02")
	}
	if order.IsDelivered && order.DeliveredAt != nil {
		status += ", delivered " + order.DeliveredAt.Format("2006-01-02")
	}
	pdf.Cell(0, 7, "Status: "+status)
	pdf.Ln(10)

	addr := order.ShippingAddress
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(100, 6, tr(addr.FullName))
	pdf.Ln(6)
	pdf.Cell(100, 6, tr(addr.StreetAddress))
	pdf.Ln(6)
	pdf.Cell(100, 6, tr(addr.City+" "+addr.PostalCode+", "+addr.Country))
	pdf.Ln(6)
	if order.User.Email != "" {
		pdf.Cell(100, 6, order.User.Email)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Size", "1", 0, "C", false, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.OrderItems {
		lineTotal := Round2(item.Price.Mul(decimalFromInt(item.Qty)))
		pdf.CellFormat(80, 8, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, tr(item.Size), "1", 0, "C", false, 0, "")
		pdf.CellFormat(20, 8, strconv.Itoa(item.Qty), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, lineTotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	totals := [][2]string{
		{"Items:", order.ItemsPrice.StringFixed(2)},
		{"Shipping:", order.ShippingPrice.StringFixed(2)},
		{"Tax:", order.TaxPrice.StringFixed(2)},
	}
	for _, row := range totals {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(150, 7, row[0], "", 0, "R", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(30, 7, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(150, 10, "Total:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 10, order.TotalPrice.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 11)
	pdf.Cell(0, 10, tr(fmt.Sprintf("Thank you for shopping with %s!", storeName)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %v", err)
	}
	return buf.Bytes(), nil
}
