package models

import (
	"time"
)

// Split types
const (
	SplitTypePercentage = "percentage"
	SplitTypeFixed      = "fixed"
)

// Split partner statuses
const (
	PartnerStatusActive   = "active"
	PartnerStatusInactive = "inactive"
)

// SplitPartner is a revenue-split destination configured by a merchant.
// A partner without a provider subaccount still participates in splits
// using its raw PIX key as the destination. UserID links the partner to
// its own login once invited; LinkedAt opens the earnings window used by
// the balance engine.
type SplitPartner struct {
	ID           uint    `gorm:"primarykey" json:"id"`
	MerchantID   uint    `gorm:"index;not null" json:"merchant_id"`
	UserID       *uint   `gorm:"index" json:"user_id,omitempty"`
	Name         string  `gorm:"not null" json:"name"`
	PixKey       string  `gorm:"not null" json:"pix_key"`
	SplitType    string  `gorm:"not null" json:"split_type"`
	SplitValue   float64 `gorm:"not null" json:"split_value"`
	Status       string  `gorm:"default:'active'" json:"status"`
	SubaccountID *string `json:"subaccount_id,omitempty"`
	LinkedAt     *time.Time `json:"linked_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PartnerProduct is a product sold by a partner. SoldCount is incremented
// by the reconciler when a partner sale is approved.
type PartnerProduct struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	PartnerID   uint   `gorm:"index;not null" json:"partner_id"`
	MerchantID  uint   `gorm:"index;not null" json:"merchant_id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	SoldCount   int64  `gorm:"default:0" json:"sold_count"`
	Status      string `gorm:"default:'active'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PartnerTransaction is a partner-product sale. Structurally parallel to
// Transaction+PixCharge but lives in its own namespace: partner sales are
// not merchant sales. CorrelationID is never shared with the merchant
// namespace.
type PartnerTransaction struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	PartnerID        uint   `gorm:"index;not null" json:"partner_id"`
	ProductID        uint   `gorm:"index" json:"product_id"`
	OrderID          string `json:"order_id"`
	Amount           int64  `gorm:"not null" json:"amount"`
	Fee              int64  `gorm:"not null" json:"fee"`
	NetAmount        int64  `gorm:"not null" json:"net_amount"`
	CustomerName     string `json:"customer_name,omitempty"`
	CustomerEmail    string `json:"customer_email,omitempty"`
	CustomerPhone    string `json:"customer_phone,omitempty"`
	CustomerTaxID    string `json:"customer_tax_id,omitempty"`
	Status           string `gorm:"not null;default:'pending';index" json:"status"`
	ProviderChargeID string `json:"provider_charge_id"`
	CorrelationID    string `gorm:"uniqueIndex;not null" json:"correlation_id"`
	PixCode          string `json:"pix_code"`
	QRCodeImage      string `json:"qr_code_image"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
