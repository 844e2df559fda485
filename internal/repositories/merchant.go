package repositories

import (
	"context"
	"errors"

	"pixgate/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// MerchantRepository accesses merchants and their fee configuration.
type MerchantRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*models.Merchant, error)
	Create(ctx context.Context, m *models.Merchant) error
	Update(ctx context.Context, m *models.Merchant) error
	GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error)
	SaveFeeConfig(ctx context.Context, cfg *models.FeeConfig) error
}

type merchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a gorm-backed merchant repository.
func NewMerchantRepository(db *gorm.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

func (r *merchantRepository) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &m, nil
}

func (r *merchantRepository) GetByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	var m models.Merchant
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &m, nil
}

func (r *merchantRepository) Create(ctx context.Context, m *models.Merchant) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *merchantRepository) Update(ctx context.Context, m *models.Merchant) error {
	if m.ID == 0 {
		return errors.New("cannot update merchant with ID 0")
	}
	return r.db.WithContext(ctx).Model(&models.Merchant{}).Where("id = ?", m.ID).Updates(m).Error
}

func (r *merchantRepository) GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error) {
	var cfg models.FeeConfig
	if err := r.db.WithContext(ctx).Where("merchant_id = ?", merchantID).First(&cfg).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &cfg, nil
}

func (r *merchantRepository) SaveFeeConfig(ctx context.Context, cfg *models.FeeConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
