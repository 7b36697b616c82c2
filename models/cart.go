package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart holds the line items of one shopper. Anonymous carts have a nil UserID and are found
// through the session cart id. The four price fields are denormalized and must be recomputed
// whenever Items changes.
type Cart struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_carts_user_id,where:user_id IS NOT NULL" json:"user_id"`
	User          *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SessionCartID string          `gorm:"not null;uniqueIndex:idx_carts_anonymous_session,where:user_id IS NULL" json:"session_cart_id"`
	Items         []CartItem      `gorm:"type:json;serializer:json;not null" json:"items"`
	ItemsPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"items_price"`
	ShippingPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"shipping_price"`
	TaxPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"tax_price"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CartItem is a cart line, unique per (ProductID, Size). Price is the unit price after
// discount at the time the line was added.
type CartItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Size      string          `json:"size"`
	Qty       int             `json:"qty"`
	Price     decimal.Decimal `json:"price"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Items == nil {
		c.Items = []CartItem{}
	}
	return nil
}

// IsAnonymous reports whether the cart is not yet owned by a user
func (c *Cart) IsAnonymous() bool {
	return c.UserID == nil
}
