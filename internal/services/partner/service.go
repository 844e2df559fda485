// Package partner manages split partners: onboarding with best-effort
// provider subaccount creation, product catalogs for partner sales, and
// user invitation linking.
package partner

import (
	"context"
	"errors"
	"fmt"

	"pixgate/internal/models"
	"pixgate/internal/provider"
	"pixgate/internal/repositories"
	"pixgate/internal/services/fee"

	"go.uber.org/zap"
)

var (
	ErrPartnerNotFound = errors.New("partner not found")
	ErrInvalidSplit    = errors.New("invalid split configuration")
	ErrInvalidProduct  = errors.New("invalid product")
)

// SubaccountCreator registers partner sub-ledgers at the provider.
type SubaccountCreator interface {
	CreateSubaccount(ctx context.Context, name, pixKey string) (*provider.Subaccount, error)
}

// Store is the partner persistence surface.
type Store interface {
	CreatePartner(ctx context.Context, p *models.SplitPartner) error
	GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error)
	ListByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error)
	LinkUser(ctx context.Context, partnerID, userID uint) error
	CreateProduct(ctx context.Context, p *models.PartnerProduct) error
	ListProducts(ctx context.Context, partnerID uint) ([]models.PartnerProduct, error)
}

// CreatePartnerInput configures a new split destination. SplitValue is
// a percentage for percentage type and a decimal currency value for
// fixed type.
type CreatePartnerInput struct {
	Name       string  `json:"name"`
	PixKey     string  `json:"pixKey"`
	SplitType  string  `json:"splitType"`
	SplitValue float64 `json:"splitValue"`
}

// CreateProductInput configures a partner product. Price is a decimal
// currency value.
type CreateProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Service manages partner lifecycle.
type Service struct {
	store       Store
	subaccounts SubaccountCreator
	logger      *zap.Logger
}

// NewService creates a partner service. The subaccount creator may be
// nil; partners then settle through their raw PIX key only.
func NewService(store Store, subaccounts SubaccountCreator, logger *zap.Logger) *Service {
	if store == nil {
		panic("partner store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, subaccounts: subaccounts, logger: logger}
}

// Create registers a split partner for a merchant. Subaccount creation
// at the provider is best-effort: on failure the partner keeps a nil
// subaccount id and split settlement falls back to the raw PIX key.
func (s *Service) Create(ctx context.Context, merchantID uint, in CreatePartnerInput) (*models.SplitPartner, error) {
	if in.Name == "" || in.PixKey == "" {
		return nil, ErrInvalidSplit
	}
	switch in.SplitType {
	case models.SplitTypePercentage:
		if in.SplitValue <= 0 || in.SplitValue > 100 {
			return nil, ErrInvalidSplit
		}
	case models.SplitTypeFixed:
		if in.SplitValue <= 0 {
			return nil, ErrInvalidSplit
		}
	default:
		return nil, ErrInvalidSplit
	}

	p := &models.SplitPartner{
		MerchantID: merchantID,
		Name:       in.Name,
		PixKey:     in.PixKey,
		SplitType:  in.SplitType,
		SplitValue: in.SplitValue,
		Status:     models.PartnerStatusActive,
	}

	if s.subaccounts != nil {
		sub, err := s.subaccounts.CreateSubaccount(ctx, in.Name, in.PixKey)
		if err != nil {
			s.logger.Warn("subaccount creation failed, partner will settle by pix key",
				zap.String("pix_key", in.PixKey), zap.Error(err))
		} else {
			p.SubaccountID = &sub.ID
		}
	}

	if err := s.store.CreatePartner(ctx, p); err != nil {
		return nil, fmt.Errorf("create partner: %w", err)
	}
	return p, nil
}

// Get returns a partner owned by the merchant.
func (s *Service) Get(ctx context.Context, merchantID, partnerID uint) (*models.SplitPartner, error) {
	p, err := s.store.GetPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	if p.MerchantID != merchantID {
		return nil, ErrPartnerNotFound
	}
	return p, nil
}

// List returns all of a merchant's partners.
func (s *Service) List(ctx context.Context, merchantID uint) ([]models.SplitPartner, error) {
	return s.store.ListByMerchant(ctx, merchantID)
}

// LinkUser attaches a login to a partner profile. The link timestamp
// opens the partner's commission earnings window.
func (s *Service) LinkUser(ctx context.Context, partnerID, userID uint) error {
	if _, err := s.store.GetPartnerByID(ctx, partnerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPartnerNotFound
		}
		return err
	}
	return s.store.LinkUser(ctx, partnerID, userID)
}

// CreateProduct adds a product to a partner's catalog.
func (s *Service) CreateProduct(ctx context.Context, partnerID uint, in CreateProductInput) (*models.PartnerProduct, error) {
	if in.Name == "" || in.Price <= 0 {
		return nil, ErrInvalidProduct
	}
	partner, err := s.store.GetPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}

	p := &models.PartnerProduct{
		PartnerID:   partner.ID,
		MerchantID:  partner.MerchantID,
		Name:        in.Name,
		Description: in.Description,
		Price:       fee.ToCents(in.Price),
		Status:      "active",
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// ListProducts returns a partner's catalog.
func (s *Service) ListProducts(ctx context.Context, partnerID uint) ([]models.PartnerProduct, error) {
	return s.store.ListProducts(ctx, partnerID)
}
