package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalog item
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string          `gorm:"not null" json:"name"`
	Slug           string          `gorm:"uniqueIndex;not null" json:"slug"`
	Category       string          `gorm:"index;not null" json:"category"`
	Images         pq.StringArray  `gorm:"type:text[];not null" json:"images"`
	Sizes          pq.StringArray  `gorm:"type:text[];not null" json:"sizes"`
	Brand          string          `gorm:"not null" json:"brand"`
	Description    string          `gorm:"not null" json:"description"`
	Stock          int             `gorm:"not null;check:stock >= 0" json:"stock"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	SalePercentage int             `gorm:"not null;default:0;check:sale_percentage >= 0 AND sale_percentage <= 100" json:"sale_percentage"`
	Rating         decimal.Decimal `gorm:"type:numeric(3,2);not null;default:0" json:"rating"`
	NumReviews     int             `gorm:"not null;default:0" json:"num_reviews"`
	IsFeatured     bool            `gorm:"not null;default:false" json:"is_featured"`
	Banner         *string         `json:"banner"`
	CreatedAt      time.Time       `json:"created_at"`
	Promotions     []Promotion     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"promotions,omitempty"`
	Reviews        []Review        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// HasSize reports whether size is offered for the product
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
