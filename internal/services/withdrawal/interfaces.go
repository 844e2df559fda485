package withdrawal

import (
	"context"

	"pixgate/internal/models"
	"pixgate/internal/provider"
)

// Reserver performs the atomic balance check + withdrawal insert.
type Reserver interface {
	ReserveMerchantWithdrawal(ctx context.Context, w *models.Withdrawal) error
	ReservePartnerWithdrawal(ctx context.Context, w *models.Withdrawal) error
	Invalidate(ctx context.Context, merchantID uint)
}

// ProviderGateway moves funds out of provider subaccounts.
type ProviderGateway interface {
	Withdraw(ctx context.Context, subaccountID string, valueCents int64) (*provider.SubaccountTransfer, error)
}

// MerchantStore resolves merchants and their fee configuration.
type MerchantStore interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error)
}

// PartnerStore resolves split partners.
type PartnerStore interface {
	GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error)
}

// Store finalizes withdrawal rows after the provider call.
type Store interface {
	UpdateStatus(ctx context.Context, id uint, status, failureReason string) error
	ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Withdrawal, error)
	ListByPartner(ctx context.Context, partnerID uint, limit, offset int) ([]models.Withdrawal, error)
}
