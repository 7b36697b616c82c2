package utils

import (
	"fmt"
	"io"

	"github.com/aspireon/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

// WriteOrdersXLSX writes one row per order followed by a totals section
func WriteOrdersXLSX(w io.Writer, orders []models.Order, title string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %v", err)
	}

	titleRow := sheet.AddRow()
	cell := titleRow.AddCell()
	cell.SetString(title)
	cell.SetStyle(boldStyle())
	sheet.AddRow()

	headers := []string{"Order ID", "Date", "Customer", "Email", "Items", "Items Price", "Shipping", "Tax", "Total", "Payment Method", "Paid", "Delivered"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(boldStyle())
	}

	revenue := decimal.Zero
	paid := 0
	for _, order := range orders {
		units := 0
		for _, item := range order.OrderItems {
			units += item.Qty
		}

		row := sheet.AddRow()
		row.AddCell().SetString(order.ID.String())
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(order.User.Name)
		row.AddCell().SetString(order.User.Email)
		row.AddCell().SetInt(units)
		row.AddCell().SetString(order.ItemsPrice.StringFixed(2))
		row.AddCell().SetString(order.ShippingPrice.StringFixed(2))
		row.AddCell().SetString(order.TaxPrice.StringFixed(2))
		row.AddCell().SetString(order.TotalPrice.StringFixed(2))
		row.AddCell().SetString(order.PaymentMethod)
		row.AddCell().SetBool(order.IsPaid)
		row.AddCell().SetBool(order.IsDelivered)

		if order.IsPaid {
			paid++
			revenue = revenue.Add(order.TotalPrice)
		}
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	summaryRow.Cells[0].SetStyle(boldStyle())
	for _, data := range [][]string{
		{"Orders", fmt.Sprintf("%d", len(orders))},
		{"Paid Orders", fmt.Sprintf("%d", paid)},
		{"Revenue", revenue.StringFixed(2)},
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %v", err)
	}
	return nil
}
