package repositories

import (
	"context"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository accesses merchant-scoped transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a gorm-backed transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).First(&tx, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &tx, nil
}

func (r *transactionRepository) ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var txs []models.Transaction
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	return txs, err
}
