package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/aspireon/storefront/config"
	"github.com/aspireon/storefront/models"
	"gopkg.in/gomail.v2"
)

var receiptTemplate = template.Must(template.New("receipt").Parse(`
	<h2>Thank you for your order, {{.Name}}!</h2>
	<p>Order <strong>{{.OrderID}}</strong> placed on {{.Date}} has been paid.</p>
	<table cellpadding="6" style="border-collapse: collapse;">
		<tr><th align="left">Item</th><th>Size</th><th>Qty</th><th align="right">Price</th></tr>
		{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Size}}</td><td align="center">{{.Qty}}</td><td align="right">{{.Price}}</td></tr>
		{{end}}
	</table>
	<p>Items: {{.ItemsPrice}}<br>Shipping: {{.ShippingPrice}}<br>Tax: {{.TaxPrice}}<br><strong>Total: {{.TotalPrice}}</strong></p>
	<p>Shipping to {{.Address}}</p>
`))

type receiptLine struct {
	Name  string
	Size  string
	Qty   int
	Price string
}

// SendEmail sends an HTML email through the configured SMTP server
func SendEmail(to, subject, body string) error {
	cfg := config.Current
	if cfg.SMTPHost == "" {
		LogDebug("SMTP not configured, skipping email %q to %s", subject, to)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(cfg.SenderEmail, cfg.AppName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// RenderPurchaseReceipt builds the HTML body of the receipt for a paid order
func RenderPurchaseReceipt(order *models.Order) (string, error) {
	lines := make([]receiptLine, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		lines = append(lines, receiptLine{Name: item.Name, Size: item.Size, Qty: item.Qty, Price: item.Price.StringFixed(2)})
	}
	addr := order.ShippingAddress

	var buf bytes.Buffer
	err := receiptTemplate.Execute(&buf, map[string]interface{}{
		"Name":          order.User.Name,
		"OrderID":       order.ID.String(),
		"Date":          order.CreatedAt.Format("2006-01-02"),
		"Items":         lines,
		"ItemsPrice":    order.ItemsPrice.StringFixed(2),
		"ShippingPrice": order.ShippingPrice.StringFixed(2),
		"TaxPrice":      order.TaxPrice.StringFixed(2),
		"TotalPrice":    order.TotalPrice.StringFixed(2),
		"Address":       fmt.Sprintf("%s, %s, %s %s, %s", addr.FullName, addr.StreetAddress, addr.City, addr.PostalCode, addr.Country),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render receipt: %v", err)
	}
	return buf.String(), nil
}

// SendPurchaseReceipt emails the receipt for a paid order to its owner
func SendPurchaseReceipt(order *models.Order) error {
	body, err := RenderPurchaseReceipt(order)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Order Confirmation %s", order.ID.String())
	return SendEmail(order.User.Email, subject, body)
}
