package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a user's rating of a product; one per user and product
type Review struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	User               User      `gorm:"constraint:OnDelete:CASCADE" json:"user"`
	ProductID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	Rating             int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title              string    `gorm:"not null" json:"title"`
	Description        string    `gorm:"not null" json:"description"`
	IsVerifiedPurchase bool      `gorm:"not null;default:true" json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
