package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods
const (
	PaymentMethodPayPal         = "PayPal"
	PaymentMethodStripe         = "Stripe"
	PaymentMethodRazorpay       = "Razorpay"
	PaymentMethodCashOnDelivery = "CashOnDelivery"
)

// PaymentStatusCompleted is recorded once a provider confirms the capture
const PaymentStatusCompleted = "COMPLETED"

// ShippingAddress is stored as JSON on both users and orders
type ShippingAddress struct {
	FullName      string   `json:"full_name"`
	StreetAddress string   `json:"street_address"`
	City          string   `json:"city"`
	PostalCode    string   `json:"postal_code"`
	Country       string   `json:"country"`
	Lat           *float64 `json:"lat,omitempty"`
	Lng           *float64 `json:"lng,omitempty"`
}

// PaymentResult is the provider's view of a payment
type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	EmailAddress string `json:"email_address"`
	PricePaid    string `json:"price_paid"`
}

// Order is an immutable snapshot of a cart taken at checkout
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User            `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	ShippingAddress ShippingAddress `gorm:"type:json;serializer:json;not null" json:"shipping_address"`
	PaymentMethod   string          `gorm:"not null" json:"payment_method"`
	PaymentResult   *PaymentResult  `gorm:"type:json;serializer:json" json:"payment_result,omitempty"`
	ItemsPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	IsPaid          bool            `gorm:"not null;default:false" json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	OrderItems      []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem captures name, slug, image and price at order time so later product edits do not
// change past orders
type OrderItem struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey" json:"product_id"`
	Size      string          `gorm:"primaryKey;default:'N/A'" json:"size"`
	Qty       int             `gorm:"not null" json:"qty"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Name      string          `gorm:"not null" json:"name"`
	Slug      string          `gorm:"not null" json:"slug"`
	Image     string          `gorm:"not null" json:"image"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
