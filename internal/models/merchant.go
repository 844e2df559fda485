package models

import (
	"time"
)

// Merchant statuses
const (
	MerchantStatusActive   = "active"
	MerchantStatusInactive = "inactive"
)

// Merchant owns transactions, charges, split partners and withdrawals.
// APIKeyHash is a bcrypt hash of the key used to authenticate public
// charge requests; the plain key is only returned once at creation.
type Merchant struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	Document     string `json:"document"`
	PixKey       string `json:"pix_key"`
	SubaccountID *string `json:"subaccount_id,omitempty"`
	APIKeyHash   string  `gorm:"column:api_key_hash" json:"-"`
	Status       string  `gorm:"default:'active'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FeeConfig holds the per-merchant PIX fee parameters.
// The charge fee is the GREATER of amount*PixInPercentage/100 and
// PixInFixed, never the sum. PixOutFixed is the flat withdrawal fee.
// Fixed values are stored in cents.
type FeeConfig struct {
	ID              uint    `gorm:"primarykey" json:"id"`
	MerchantID      uint    `gorm:"uniqueIndex;not null" json:"merchant_id"`
	PixInPercentage float64 `gorm:"default:0" json:"pix_in_percentage"`
	PixInFixed      int64   `gorm:"default:0" json:"pix_in_fixed"`
	PixOutFixed     int64   `gorm:"default:0" json:"pix_out_fixed"`
	SplitEnabled    bool    `gorm:"default:false" json:"split_enabled"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
