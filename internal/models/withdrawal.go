package models

import (
	"time"
)

// Withdrawal statuses
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusFailed     = "failed"
)

// Withdrawal is a payout request. A nil PartnerID means a merchant
// withdrawal. Rows are never deleted: a failed provider call transitions
// the row to failed and keeps it as an audit record.
type Withdrawal struct {
	ID                uint   `gorm:"primarykey" json:"id"`
	MerchantID        uint   `gorm:"index;not null" json:"merchant_id"`
	PartnerID         *uint  `gorm:"index" json:"partner_id,omitempty"`
	RecipientName     string `json:"recipient_name"`
	RecipientDocument string `json:"recipient_document"`
	PixKey            string `json:"pix_key"`
	Amount            int64  `gorm:"not null" json:"amount"`
	Fee               int64  `gorm:"not null" json:"fee"`
	Total             int64  `gorm:"not null" json:"total"`
	Status            string `gorm:"not null;default:'pending';index" json:"status"`
	FailureReason     string `json:"failure_reason,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
