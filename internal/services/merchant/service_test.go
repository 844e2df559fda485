package merchant

import (
	"context"
	"strings"
	"testing"

	"pixgate/internal/models"
	"pixgate/internal/provider"
	"pixgate/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *mockStore) GetByEmail(ctx context.Context, email string) (*models.Merchant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *mockStore) Create(ctx context.Context, merch *models.Merchant) error {
	args := m.Called(ctx, merch)
	merch.ID = 1
	return args.Error(0)
}

func (m *mockStore) Update(ctx context.Context, merch *models.Merchant) error {
	args := m.Called(ctx, merch)
	return args.Error(0)
}

func (m *mockStore) GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeConfig), args.Error(1)
}

func (m *mockStore) SaveFeeConfig(ctx context.Context, cfg *models.FeeConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

type mockSubaccounts struct{ mock.Mock }

func (m *mockSubaccounts) CreateSubaccount(ctx context.Context, name, pixKey string) (*provider.Subaccount, error) {
	args := m.Called(ctx, name, pixKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Subaccount), args.Error(1)
}

func TestCreateIssuesAPIKeyAndDefaultFees(t *testing.T) {
	store := &mockStore{}
	store.On("GetByEmail", mock.Anything, "loja@example.com").Return(nil, repositories.ErrNotFound)
	store.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Merchant) bool {
		return m.Status == models.MerchantStatusActive && m.APIKeyHash != ""
	})).Return(nil)
	store.On("SaveFeeConfig", mock.Anything, mock.MatchedBy(func(cfg *models.FeeConfig) bool {
		return cfg.MerchantID == 1 && cfg.PixInPercentage == 1.40 && cfg.PixInFixed == 80
	})).Return(nil)

	svc := NewService(store, nil, nil)
	created, err := svc.Create(context.Background(), CreateInput{Name: "Loja", Email: "Loja@Example.com"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.APIKey, "pk_"))
	assert.Equal(t, "loja@example.com", created.Merchant.Email)
	// The stored hash verifies against the returned plaintext.
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(created.Merchant.APIKeyHash), []byte(created.APIKey)))
	store.AssertExpectations(t)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	store := &mockStore{}
	store.On("GetByEmail", mock.Anything, "taken@example.com").
		Return(&models.Merchant{ID: 2, Email: "taken@example.com"}, nil)

	svc := NewService(store, nil, nil)
	_, err := svc.Create(context.Background(), CreateInput{Name: "Loja", Email: "taken@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateRegistersSubaccountWhenPixKeyPresent(t *testing.T) {
	store := &mockStore{}
	subs := &mockSubaccounts{}
	store.On("GetByEmail", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)
	subs.On("CreateSubaccount", mock.Anything, "Loja", "loja@pix").
		Return(&provider.Subaccount{ID: "sub_m"}, nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Merchant) bool {
		return m.SubaccountID != nil && *m.SubaccountID == "sub_m"
	})).Return(nil)
	store.On("SaveFeeConfig", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(store, subs, nil)
	_, err := svc.Create(context.Background(), CreateInput{Name: "Loja", Email: "loja@example.com", PixKey: "loja@pix"})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRotateAPIKeyReplacesHash(t *testing.T) {
	oldHash, err := bcrypt.GenerateFromPassword([]byte("pk_old"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &mockStore{}
	store.On("GetByID", mock.Anything, uint(1)).
		Return(&models.Merchant{ID: 1, APIKeyHash: string(oldHash)}, nil)
	store.On("Update", mock.Anything, mock.MatchedBy(func(m *models.Merchant) bool {
		return m.APIKeyHash != string(oldHash)
	})).Return(nil)

	svc := NewService(store, nil, nil)
	key, err := svc.RotateAPIKey(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "pk_"))
}

func TestUpdateFeesValidates(t *testing.T) {
	svc := NewService(&mockStore{}, nil, nil)

	_, err := svc.UpdateFees(context.Background(), 1, FeeInput{PixInPercentage: -1})
	assert.ErrorIs(t, err, ErrInvalidFees)

	_, err = svc.UpdateFees(context.Background(), 1, FeeInput{PixInPercentage: 101})
	assert.ErrorIs(t, err, ErrInvalidFees)
}

func TestUpdateFeesCreatesConfigWhenMissing(t *testing.T) {
	store := &mockStore{}
	store.On("GetFeeConfig", mock.Anything, uint(3)).Return(nil, repositories.ErrNotFound)
	store.On("SaveFeeConfig", mock.Anything, mock.MatchedBy(func(cfg *models.FeeConfig) bool {
		return cfg.MerchantID == 3 && cfg.SplitEnabled && cfg.PixInFixed == 90
	})).Return(nil)

	svc := NewService(store, nil, nil)
	cfg, err := svc.UpdateFees(context.Background(), 3, FeeInput{
		PixInPercentage: 1.20, PixInFixed: 90, PixOutFixed: 100, SplitEnabled: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.20, cfg.PixInPercentage)
}
