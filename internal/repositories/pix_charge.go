package repositories

import (
	"context"
	"time"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

// PixChargeRepository accesses provider-correlation records.
type PixChargeRepository interface {
	Create(ctx context.Context, pc *models.PixCharge) error
	GetByCorrelationID(ctx context.Context, correlationID string) (*models.PixCharge, error)
}

type pixChargeRepository struct {
	db *gorm.DB
}

// NewPixChargeRepository creates a gorm-backed pix charge repository.
func NewPixChargeRepository(db *gorm.DB) PixChargeRepository {
	return &pixChargeRepository{db: db}
}

func (r *pixChargeRepository) Create(ctx context.Context, pc *models.PixCharge) error {
	return r.db.WithContext(ctx).Create(pc).Error
}

func (r *pixChargeRepository) GetByCorrelationID(ctx context.Context, correlationID string) (*models.PixCharge, error) {
	var pc models.PixCharge
	if err := r.db.WithContext(ctx).Where("correlation_id = ?", correlationID).First(&pc).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &pc, nil
}

// ChargeIntentRepository records provider-call intent durably before the
// call happens. Intents left pending mark charges that may exist upstream
// without local records.
type ChargeIntentRepository interface {
	Create(ctx context.Context, in *models.ChargeIntent) error
	MarkFulfilled(ctx context.Context, correlationID string) error
	MarkFailed(ctx context.Context, correlationID string) error
	ListPending(ctx context.Context, olderThan time.Duration) ([]models.ChargeIntent, error)
}

type chargeIntentRepository struct {
	db *gorm.DB
}

// NewChargeIntentRepository creates a gorm-backed intent repository.
func NewChargeIntentRepository(db *gorm.DB) ChargeIntentRepository {
	return &chargeIntentRepository{db: db}
}

func (r *chargeIntentRepository) Create(ctx context.Context, in *models.ChargeIntent) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *chargeIntentRepository) MarkFulfilled(ctx context.Context, correlationID string) error {
	return r.setStatus(ctx, correlationID, models.IntentStatusFulfilled)
}

func (r *chargeIntentRepository) MarkFailed(ctx context.Context, correlationID string) error {
	return r.setStatus(ctx, correlationID, models.IntentStatusFailed)
}

func (r *chargeIntentRepository) setStatus(ctx context.Context, correlationID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.ChargeIntent{}).
		Where("correlation_id = ? AND status = ?", correlationID, models.IntentStatusPending).
		Update("status", status).Error
}

func (r *chargeIntentRepository) ListPending(ctx context.Context, olderThan time.Duration) ([]models.ChargeIntent, error) {
	var intents []models.ChargeIntent
	cutoff := time.Now().Add(-olderThan)
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.IntentStatusPending, cutoff).
		Order("created_at ASC").
		Find(&intents).Error
	return intents, err
}
