package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultUserName marks accounts whose display name has not been chosen yet
const DefaultUserName = "NO_NAME"

// User represents a shopper or an administrator
type User struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string           `gorm:"not null;default:'NO_NAME'" json:"name"`
	Email         string           `gorm:"uniqueIndex;not null" json:"email"`
	Role          string           `gorm:"not null;default:'user'" json:"role"`
	Password      string           `json:"-"`
	Phone         string           `json:"phone"`
	Address       *ShippingAddress `gorm:"type:json;serializer:json" json:"address,omitempty"`
	PaymentMethod string           `json:"payment_method"`
	CreatedAt     time.Time        `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
