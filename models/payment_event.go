package models

import (
	"time"

	"github.com/google/uuid"
)

// ProcessedPaymentEvent records a payment provider event that has already been applied.
// The unique (provider, event_id) pair makes redelivered callbacks a no-op.
type ProcessedPaymentEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Provider    string    `gorm:"not null;uniqueIndex:idx_payment_events_provider_event" json:"provider"`
	EventID     string    `gorm:"not null;uniqueIndex:idx_payment_events_provider_event" json:"event_id"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	ProcessedAt time.Time `gorm:"not null" json:"processed_at"`
}
