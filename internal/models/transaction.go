package models

import (
	"time"
)

// Transaction statuses. The merchant namespace uses approved; the partner
// namespace maps the same transition to completed.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusRefunded  = "refunded"
	StatusExpired   = "expired"
)

// Transaction is a merchant-scoped payment. Created in pending state at
// charge creation; amount and fee are immutable after that. Status is
// mutated only by webhook reconciliation or expiry.
type Transaction struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	MerchantID    uint   `gorm:"index;not null" json:"merchant_id"`
	OrderID       string `gorm:"index" json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	CustomerTaxID string `json:"customer_tax_id,omitempty"`
	Amount        int64  `gorm:"not null" json:"amount"`
	Fee           int64  `gorm:"not null" json:"fee"`
	NetAmount     int64  `gorm:"not null" json:"net_amount"`
	Status        string `gorm:"not null;default:'pending';index" json:"status"`
	PixCode       string `json:"pix_code"`
	QRCodeImage   string `json:"qr_code_image"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
