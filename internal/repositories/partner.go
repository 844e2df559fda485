package repositories

import (
	"context"
	"time"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

// PartnerRepository accesses split partners, their products and the
// partner transaction namespace.
type PartnerRepository interface {
	CreatePartner(ctx context.Context, p *models.SplitPartner) error
	GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error)
	GetActiveByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error)
	ListByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error)
	LinkUser(ctx context.Context, partnerID, userID uint) error

	CreateProduct(ctx context.Context, p *models.PartnerProduct) error
	GetProduct(ctx context.Context, partnerID, productID uint) (*models.PartnerProduct, error)
	ListProducts(ctx context.Context, partnerID uint) ([]models.PartnerProduct, error)

	CreateTransaction(ctx context.Context, pt *models.PartnerTransaction) error
	GetTransactionByCorrelationID(ctx context.Context, correlationID string) (*models.PartnerTransaction, error)
}

type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository creates a gorm-backed partner repository.
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

func (r *partnerRepository) CreatePartner(ctx context.Context, p *models.SplitPartner) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partnerRepository) GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error) {
	var p models.SplitPartner
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

func (r *partnerRepository) GetActiveByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error) {
	var partners []models.SplitPartner
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND status = ?", merchantID, models.PartnerStatusActive).
		Order("id ASC").
		Find(&partners).Error
	return partners, err
}

func (r *partnerRepository) ListByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error) {
	var partners []models.SplitPartner
	err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("id ASC").
		Find(&partners).Error
	return partners, err
}

func (r *partnerRepository) LinkUser(ctx context.Context, partnerID, userID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.SplitPartner{}).
		Where("id = ?", partnerID).
		Updates(map[string]interface{}{"user_id": userID, "linked_at": now}).Error
}

func (r *partnerRepository) CreateProduct(ctx context.Context, p *models.PartnerProduct) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partnerRepository) GetProduct(ctx context.Context, partnerID, productID uint) (*models.PartnerProduct, error) {
	var p models.PartnerProduct
	err := r.db.WithContext(ctx).
		Where("id = ? AND partner_id = ?", productID, partnerID).
		First(&p).Error
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return &p, nil
}

func (r *partnerRepository) ListProducts(ctx context.Context, partnerID uint) ([]models.PartnerProduct, error) {
	var products []models.PartnerProduct
	err := r.db.WithContext(ctx).
		Where("partner_id = ?", partnerID).
		Order("id ASC").
		Find(&products).Error
	return products, err
}

func (r *partnerRepository) CreateTransaction(ctx context.Context, pt *models.PartnerTransaction) error {
	return r.db.WithContext(ctx).Create(pt).Error
}

func (r *partnerRepository) GetTransactionByCorrelationID(ctx context.Context, correlationID string) (*models.PartnerTransaction, error) {
	var pt models.PartnerTransaction
	if err := r.db.WithContext(ctx).Where("correlation_id = ?", correlationID).First(&pt).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &pt, nil
}
