package repositories

import (
	"context"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

// WebhookEndpointRepository accesses merchant-configured callback targets.
type WebhookEndpointRepository interface {
	Create(ctx context.Context, ep *models.WebhookEndpoint) error
	ListActiveByMerchant(ctx context.Context, merchantID uint) ([]models.WebhookEndpoint, error)
	Deactivate(ctx context.Context, id, merchantID uint) error
}

type webhookEndpointRepository struct {
	db *gorm.DB
}

// NewWebhookEndpointRepository creates a gorm-backed endpoint repository.
func NewWebhookEndpointRepository(db *gorm.DB) WebhookEndpointRepository {
	return &webhookEndpointRepository{db: db}
}

func (r *webhookEndpointRepository) Create(ctx context.Context, ep *models.WebhookEndpoint) error {
	return r.db.WithContext(ctx).Create(ep).Error
}

func (r *webhookEndpointRepository) ListActiveByMerchant(ctx context.Context, merchantID uint) ([]models.WebhookEndpoint, error) {
	var eps []models.WebhookEndpoint
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND status = ?", merchantID, models.WebhookStatusActive).
		Find(&eps).Error
	return eps, err
}

func (r *webhookEndpointRepository) Deactivate(ctx context.Context, id, merchantID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.WebhookEndpoint{}).
		Where("id = ? AND merchant_id = ?", id, merchantID).
		Update("status", models.WebhookStatusInactive).Error
}
