package partner

import (
	"context"
	"errors"
	"testing"

	"pixgate/internal/models"
	"pixgate/internal/provider"
	"pixgate/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) CreatePartner(ctx context.Context, p *models.SplitPartner) error {
	args := m.Called(ctx, p)
	p.ID = 5
	return args.Error(0)
}

func (m *mockStore) GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SplitPartner), args.Error(1)
}

func (m *mockStore) ListByMerchant(ctx context.Context, merchantID uint) ([]models.SplitPartner, error) {
	args := m.Called(ctx, merchantID)
	return args.Get(0).([]models.SplitPartner), args.Error(1)
}

func (m *mockStore) LinkUser(ctx context.Context, partnerID, userID uint) error {
	args := m.Called(ctx, partnerID, userID)
	return args.Error(0)
}

func (m *mockStore) CreateProduct(ctx context.Context, p *models.PartnerProduct) error {
	args := m.Called(ctx, p)
	p.ID = 9
	return args.Error(0)
}

func (m *mockStore) ListProducts(ctx context.Context, partnerID uint) ([]models.PartnerProduct, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).([]models.PartnerProduct), args.Error(1)
}

type mockSubaccounts struct{ mock.Mock }

func (m *mockSubaccounts) CreateSubaccount(ctx context.Context, name, pixKey string) (*provider.Subaccount, error) {
	args := m.Called(ctx, name, pixKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Subaccount), args.Error(1)
}

func TestCreatePartnerRegistersSubaccount(t *testing.T) {
	store := &mockStore{}
	subs := &mockSubaccounts{}

	subs.On("CreateSubaccount", mock.Anything, "Parceiro", "p@pix").
		Return(&provider.Subaccount{ID: "sub_1", PixKey: "p@pix"}, nil)
	store.On("CreatePartner", mock.Anything, mock.MatchedBy(func(p *models.SplitPartner) bool {
		return p.SubaccountID != nil && *p.SubaccountID == "sub_1" && p.Status == models.PartnerStatusActive
	})).Return(nil)

	svc := NewService(store, subs, nil)
	p, err := svc.Create(context.Background(), 1, CreatePartnerInput{
		Name: "Parceiro", PixKey: "p@pix", SplitType: models.SplitTypePercentage, SplitValue: 10,
	})
	require.NoError(t, err)
	require.NotNil(t, p.SubaccountID)
	assert.Equal(t, "sub_1", *p.SubaccountID)
}

func TestCreatePartnerSubaccountFailureIsNotFatal(t *testing.T) {
	store := &mockStore{}
	subs := &mockSubaccounts{}

	subs.On("CreateSubaccount", mock.Anything, "Parceiro", "p@pix").
		Return(nil, errors.New("provider unavailable"))
	store.On("CreatePartner", mock.Anything, mock.MatchedBy(func(p *models.SplitPartner) bool {
		return p.SubaccountID == nil
	})).Return(nil)

	svc := NewService(store, subs, nil)
	p, err := svc.Create(context.Background(), 1, CreatePartnerInput{
		Name: "Parceiro", PixKey: "p@pix", SplitType: models.SplitTypeFixed, SplitValue: 5,
	})
	require.NoError(t, err)
	assert.Nil(t, p.SubaccountID)
	store.AssertExpectations(t)
}

func TestCreatePartnerValidatesSplit(t *testing.T) {
	svc := NewService(&mockStore{}, nil, nil)

	cases := []CreatePartnerInput{
		{Name: "", PixKey: "p@pix", SplitType: models.SplitTypeFixed, SplitValue: 5},
		{Name: "P", PixKey: "", SplitType: models.SplitTypeFixed, SplitValue: 5},
		{Name: "P", PixKey: "p@pix", SplitType: "weird", SplitValue: 5},
		{Name: "P", PixKey: "p@pix", SplitType: models.SplitTypePercentage, SplitValue: 0},
		{Name: "P", PixKey: "p@pix", SplitType: models.SplitTypePercentage, SplitValue: 101},
		{Name: "P", PixKey: "p@pix", SplitType: models.SplitTypeFixed, SplitValue: -1},
	}
	for _, in := range cases {
		_, err := svc.Create(context.Background(), 1, in)
		assert.ErrorIs(t, err, ErrInvalidSplit)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	store := &mockStore{}
	store.On("GetPartnerByID", mock.Anything, uint(5)).
		Return(&models.SplitPartner{ID: 5, MerchantID: 2}, nil)

	svc := NewService(store, nil, nil)
	_, err := svc.Get(context.Background(), 1, 5)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestCreateProductConvertsPriceToCents(t *testing.T) {
	store := &mockStore{}
	store.On("GetPartnerByID", mock.Anything, uint(5)).
		Return(&models.SplitPartner{ID: 5, MerchantID: 1}, nil)
	store.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *models.PartnerProduct) bool {
		return p.Price == 4990 && p.MerchantID == 1
	})).Return(nil)

	svc := NewService(store, nil, nil)
	p, err := svc.CreateProduct(context.Background(), 5, CreateProductInput{Name: "Ebook", Price: 49.90})
	require.NoError(t, err)
	assert.Equal(t, int64(4990), p.Price)
}

func TestLinkUserUnknownPartner(t *testing.T) {
	store := &mockStore{}
	store.On("GetPartnerByID", mock.Anything, uint(99)).Return(nil, repositories.ErrNotFound)

	svc := NewService(store, nil, nil)
	err := svc.LinkUser(context.Background(), 99, 1)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}
