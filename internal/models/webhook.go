package models

import (
	"time"
)

// Webhook endpoint statuses
const (
	WebhookStatusActive   = "active"
	WebhookStatusInactive = "inactive"
)

// WebhookEndpoint is a merchant-configured callback target. Events holds
// the subscribed event names; an entry matches either the exact internal
// event name or the payment_<status> convention.
type WebhookEndpoint struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	MerchantID uint       `gorm:"index;not null" json:"merchant_id"`
	URL        string     `gorm:"not null" json:"url"`
	Events     StringList `gorm:"type:jsonb" json:"events"`
	Status     string     `gorm:"default:'active'" json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
