package charge

import (
	"context"

	"pixgate/internal/models"
	"pixgate/internal/provider"
)

// ProviderGateway creates payment instruments at the external provider.
type ProviderGateway interface {
	CreateCharge(ctx context.Context, req provider.ChargeRequest) (*provider.CreatedCharge, error)
}

// MerchantStore resolves merchants and their fee configuration.
type MerchantStore interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error)
}

// PartnerStore resolves split partners and the partner-sale namespace.
type PartnerStore interface {
	GetActiveByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error)
	GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error)
	GetProduct(ctx context.Context, partnerID, productID uint) (*models.PartnerProduct, error)
	CreateTransaction(ctx context.Context, pt *models.PartnerTransaction) error
}

// TransactionStore persists merchant transactions.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
}

// ChargeStore persists provider-correlation records.
type ChargeStore interface {
	Create(ctx context.Context, pc *models.PixCharge) error
}

// IntentStore records charge intent durably around the provider call.
type IntentStore interface {
	Create(ctx context.Context, in *models.ChargeIntent) error
	MarkFulfilled(ctx context.Context, correlationID string) error
	MarkFailed(ctx context.Context, correlationID string) error
}
