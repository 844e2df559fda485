package repositories

import (
	"context"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

// WithdrawalRepository accesses payout records. Rows are never deleted;
// terminal states are reached via UpdateStatus.
type WithdrawalRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Withdrawal, error)
	UpdateStatus(ctx context.Context, id uint, status, failureReason string) error
	ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Withdrawal, error)
	ListByPartner(ctx context.Context, partnerID uint, limit, offset int) ([]models.Withdrawal, error)
}

type withdrawalRepository struct {
	db *gorm.DB
}

// NewWithdrawalRepository creates a gorm-backed withdrawal repository.
func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) GetByID(ctx context.Context, id uint) (*models.Withdrawal, error) {
	var w models.Withdrawal
	if err := r.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &w, nil
}

func (r *withdrawalRepository) UpdateStatus(ctx context.Context, id uint, status, failureReason string) error {
	return r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "failure_reason": failureReason}).Error
}

func (r *withdrawalRepository) ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var ws []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND partner_id IS NULL", merchantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ws).Error
	return ws, err
}

func (r *withdrawalRepository) ListByPartner(ctx context.Context, partnerID uint, limit, offset int) ([]models.Withdrawal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var ws []models.Withdrawal
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ws).Error
	return ws, err
}
