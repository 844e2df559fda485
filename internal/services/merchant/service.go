// Package merchant handles merchant onboarding: account creation with
// API key issuance, fee configuration and provider subaccount setup.
package merchant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pixgate/internal/models"
	"pixgate/internal/provider"
	"pixgate/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound     = errors.New("merchant not found")
	ErrEmailTaken   = errors.New("email already registered")
	ErrInvalidInput = errors.New("invalid merchant input")
	ErrInvalidFees  = errors.New("invalid fee configuration")
)

// Default fee parameters applied to new merchants, in percent and cents.
const (
	defaultPixInPercentage = 1.40
	defaultPixInFixed      = 80
	defaultPixOutFixed     = 150
)

// SubaccountCreator registers merchant sub-ledgers at the provider.
type SubaccountCreator interface {
	CreateSubaccount(ctx context.Context, name, pixKey string) (*provider.Subaccount, error)
}

// Store is the merchant persistence surface.
type Store interface {
	GetByID(ctx context.Context, id uint) (*models.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*models.Merchant, error)
	Create(ctx context.Context, m *models.Merchant) error
	Update(ctx context.Context, m *models.Merchant) error
	GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error)
	SaveFeeConfig(ctx context.Context, cfg *models.FeeConfig) error
}

// CreateInput registers a new merchant.
type CreateInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Document string `json:"document"`
	PixKey   string `json:"pixKey"`
}

// Created is the onboarding result. APIKey is the plaintext key,
// returned exactly once; only its hash is stored.
type Created struct {
	Merchant *models.Merchant `json:"merchant"`
	APIKey   string           `json:"apiKey"`
}

// FeeInput updates a merchant's fee parameters. Fixed values are in
// cents.
type FeeInput struct {
	PixInPercentage float64 `json:"pixInPercentage"`
	PixInFixed      int64   `json:"pixInFixed"`
	PixOutFixed     int64   `json:"pixOutFixed"`
	SplitEnabled    bool    `json:"splitEnabled"`
}

// Service manages merchant accounts.
type Service struct {
	store       Store
	subaccounts SubaccountCreator
	logger      *zap.Logger
}

// NewService creates a merchant service. The subaccount creator may be
// nil; merchants then cannot withdraw until one is registered.
func NewService(store Store, subaccounts SubaccountCreator, logger *zap.Logger) *Service {
	if store == nil {
		panic("merchant store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, subaccounts: subaccounts, logger: logger}
}

// Create registers a merchant with default fees and a fresh API key.
// Subaccount creation is best-effort and retried on first withdrawal
// setup, not here.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Created, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.store.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	apiKey := newAPIKey()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash api key: %w", err)
	}

	m := &models.Merchant{
		Name:       in.Name,
		Email:      in.Email,
		Document:   in.Document,
		PixKey:     in.PixKey,
		APIKeyHash: string(hash),
		Status:     models.MerchantStatusActive,
	}

	if s.subaccounts != nil && in.PixKey != "" {
		sub, err := s.subaccounts.CreateSubaccount(ctx, in.Name, in.PixKey)
		if err != nil {
			s.logger.Warn("merchant subaccount creation failed",
				zap.String("email", in.Email), zap.Error(err))
		} else {
			m.SubaccountID = &sub.ID
		}
	}

	if err := s.store.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create merchant: %w", err)
	}

	feeCfg := &models.FeeConfig{
		MerchantID:      m.ID,
		PixInPercentage: defaultPixInPercentage,
		PixInFixed:      defaultPixInFixed,
		PixOutFixed:     defaultPixOutFixed,
	}
	if err := s.store.SaveFeeConfig(ctx, feeCfg); err != nil {
		return nil, fmt.Errorf("save fee config: %w", err)
	}

	return &Created{Merchant: m, APIKey: apiKey}, nil
}

// RotateAPIKey replaces the merchant's API key and returns the new
// plaintext once.
func (s *Service) RotateAPIKey(ctx context.Context, merchantID uint) (string, error) {
	m, err := s.store.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	apiKey := newAPIKey()
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	m.APIKeyHash = string(hash)
	if err := s.store.Update(ctx, m); err != nil {
		return "", fmt.Errorf("update merchant: %w", err)
	}
	return apiKey, nil
}

// UpdateFees replaces the merchant's fee parameters.
func (s *Service) UpdateFees(ctx context.Context, merchantID uint, in FeeInput) (*models.FeeConfig, error) {
	if in.PixInPercentage < 0 || in.PixInPercentage > 100 || in.PixInFixed < 0 || in.PixOutFixed < 0 {
		return nil, ErrInvalidFees
	}

	cfg, err := s.store.GetFeeConfig(ctx, merchantID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		cfg = &models.FeeConfig{MerchantID: merchantID}
	}

	cfg.PixInPercentage = in.PixInPercentage
	cfg.PixInFixed = in.PixInFixed
	cfg.PixOutFixed = in.PixOutFixed
	cfg.SplitEnabled = in.SplitEnabled
	if err := s.store.SaveFeeConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save fee config: %w", err)
	}
	return cfg, nil
}

// newAPIKey mints an opaque key. The pk_ prefix makes leaked keys easy
// to grep for.
func newAPIKey() string {
	return "pk_" + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
