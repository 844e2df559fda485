package models

import (
	"time"
)

// PixCharge links a local Transaction to a provider charge. CorrelationID
// is generated client-side before the provider call and is the join key
// used by inbound webhooks; it must be globally unique per charge.
// Status mirrors the provider's vocabulary (ACTIVE, COMPLETED, EXPIRED,
// REFUNDED), not the local transaction statuses.
type PixCharge struct {
	ID               uint   `gorm:"primarykey" json:"id"`
	MerchantID       uint   `gorm:"index;not null" json:"merchant_id"`
	TransactionID    uint   `gorm:"index;not null" json:"transaction_id"`
	ProviderChargeID string `json:"provider_charge_id"`
	CorrelationID    string `gorm:"uniqueIndex;not null" json:"correlation_id"`
	Amount           int64  `gorm:"not null" json:"amount"`
	Status           string `gorm:"default:'ACTIVE'" json:"status"`
	PixCode          string `json:"pix_code"`
	QRCodeImage      string `json:"qr_code_image"`
	ExpiresAt        time.Time  `json:"expires_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ChargeIntent statuses
const (
	IntentStatusPending   = "pending"
	IntentStatusFulfilled = "fulfilled"
	IntentStatusFailed    = "failed"
)

// ChargeIntent records the intent to create a provider charge before the
// call is made. A fulfilled intent has its local records persisted; a
// failed intent never produced a provider charge. An intent stuck in
// pending marks a charge that may exist upstream without local records
// and needs backfill.
type ChargeIntent struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	CorrelationID string `gorm:"uniqueIndex;not null" json:"correlation_id"`
	MerchantID    uint   `gorm:"index" json:"merchant_id"`
	PartnerID     *uint  `json:"partner_id,omitempty"`
	Amount        int64  `gorm:"not null" json:"amount"`
	Status        string `gorm:"not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
