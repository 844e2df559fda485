package withdrawal

import (
	"context"
	"errors"
	"testing"

	"pixgate/internal/models"
	"pixgate/internal/provider"
	"pixgate/internal/services/balance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReserver struct{ mock.Mock }

func (m *mockReserver) ReserveMerchantWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	args := m.Called(ctx, w)
	if args.Error(0) == nil {
		w.ID = 11
	}
	return args.Error(0)
}

func (m *mockReserver) ReservePartnerWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	args := m.Called(ctx, w)
	if args.Error(0) == nil {
		w.ID = 12
	}
	return args.Error(0)
}

func (m *mockReserver) Invalidate(ctx context.Context, merchantID uint) {
	m.Called(ctx, merchantID)
}

type mockGateway struct{ mock.Mock }

func (m *mockGateway) Withdraw(ctx context.Context, subaccountID string, valueCents int64) (*provider.SubaccountTransfer, error) {
	args := m.Called(ctx, subaccountID, valueCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.SubaccountTransfer), args.Error(1)
}

type mockMerchantStore struct{ mock.Mock }

func (m *mockMerchantStore) GetByID(ctx context.Context, id uint) (*models.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Merchant), args.Error(1)
}

func (m *mockMerchantStore) GetFeeConfig(ctx context.Context, merchantID uint) (*models.FeeConfig, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FeeConfig), args.Error(1)
}

type mockPartnerStore struct{ mock.Mock }

func (m *mockPartnerStore) GetPartnerByID(ctx context.Context, id uint) (*models.SplitPartner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SplitPartner), args.Error(1)
}

type mockStore struct{ mock.Mock }

func (m *mockStore) UpdateStatus(ctx context.Context, id uint, status, failureReason string) error {
	args := m.Called(ctx, id, status, failureReason)
	return args.Error(0)
}

func (m *mockStore) ListByMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, merchantID, limit, offset)
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

func (m *mockStore) ListByPartner(ctx context.Context, partnerID uint, limit, offset int) ([]models.Withdrawal, error) {
	args := m.Called(ctx, partnerID, limit, offset)
	return args.Get(0).([]models.Withdrawal), args.Error(1)
}

func subID(s string) *string { return &s }

func merchantWithSubaccount() *models.Merchant {
	return &models.Merchant{
		ID:           1,
		Name:         "Loja",
		Document:     "12345678000190",
		PixKey:       "loja@pix",
		SubaccountID: subID("sub_m1"),
		Status:       models.MerchantStatusActive,
	}
}

func TestWithdrawMerchantInsufficientBalanceNeverReachesProvider(t *testing.T) {
	merchants := &mockMerchantStore{}
	reserver := &mockReserver{}
	gw := &mockGateway{}
	store := &mockStore{}

	merchants.On("GetByID", mock.Anything, uint(1)).Return(merchantWithSubaccount(), nil)
	merchants.On("GetFeeConfig", mock.Anything, uint(1)).
		Return(&models.FeeConfig{MerchantID: 1, PixOutFixed: 150}, nil)
	reserver.On("ReserveMerchantWithdrawal", mock.Anything, mock.Anything).
		Return(balance.ErrInsufficientBalance)

	svc := NewService(merchants, &mockPartnerStore{}, store, reserver, gw, nil)
	_, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 999.00})

	assert.ErrorIs(t, err, balance.ErrInsufficientBalance)
	gw.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdrawMerchantHappyPath(t *testing.T) {
	merchants := &mockMerchantStore{}
	reserver := &mockReserver{}
	gw := &mockGateway{}
	store := &mockStore{}

	merchants.On("GetByID", mock.Anything, uint(1)).Return(merchantWithSubaccount(), nil)
	merchants.On("GetFeeConfig", mock.Anything, uint(1)).
		Return(&models.FeeConfig{MerchantID: 1, PixOutFixed: 150}, nil)
	reserver.On("ReserveMerchantWithdrawal", mock.Anything, mock.MatchedBy(func(w *models.Withdrawal) bool {
		return w.Amount == 5000 && w.Fee == 150 && w.Total == 4850 &&
			w.PartnerID == nil && w.Status == models.WithdrawalStatusPending
	})).Return(nil)
	store.On("UpdateStatus", mock.Anything, uint(11), models.WithdrawalStatusProcessing, "").Return(nil)
	gw.On("Withdraw", mock.Anything, "sub_m1", int64(5000)).
		Return(&provider.SubaccountTransfer{ID: "tr_1", Value: 5000, Status: "CONFIRMED"}, nil)
	store.On("UpdateStatus", mock.Anything, uint(11), models.WithdrawalStatusCompleted, "").Return(nil)
	reserver.On("Invalidate", mock.Anything, uint(1)).Return()

	svc := NewService(merchants, &mockPartnerStore{}, store, reserver, gw, nil)
	res, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 50.00})
	require.NoError(t, err)

	assert.Equal(t, models.WithdrawalStatusCompleted, res.Status)
	assert.Equal(t, "tr_1", res.TransferID)
	// The recipient receives the requested amount minus the fixed fee.
	assert.InDelta(t, 48.50, res.Total, 0.001)
	store.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestWithdrawMerchantProviderFailureKeepsFailedRow(t *testing.T) {
	merchants := &mockMerchantStore{}
	reserver := &mockReserver{}
	gw := &mockGateway{}
	store := &mockStore{}

	merchants.On("GetByID", mock.Anything, uint(1)).Return(merchantWithSubaccount(), nil)
	merchants.On("GetFeeConfig", mock.Anything, uint(1)).
		Return(&models.FeeConfig{MerchantID: 1, PixOutFixed: 0}, nil)
	reserver.On("ReserveMerchantWithdrawal", mock.Anything, mock.Anything).Return(nil)
	store.On("UpdateStatus", mock.Anything, uint(11), models.WithdrawalStatusProcessing, "").Return(nil)
	gw.On("Withdraw", mock.Anything, "sub_m1", int64(2000)).
		Return(nil, errors.New("insufficient provider funds"))
	store.On("UpdateStatus", mock.Anything, uint(11), models.WithdrawalStatusFailed, "insufficient provider funds").Return(nil)
	reserver.On("Invalidate", mock.Anything, uint(1)).Return()

	svc := NewService(merchants, &mockPartnerStore{}, store, reserver, gw, nil)
	res, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 20.00})

	assert.ErrorIs(t, err, ErrProvider)
	require.NotNil(t, res)
	assert.Equal(t, models.WithdrawalStatusFailed, res.Status)
	assert.Equal(t, "insufficient provider funds", res.FailureReason)
	store.AssertExpectations(t)
}

func TestWithdrawMerchantWithoutSubaccount(t *testing.T) {
	merchants := &mockMerchantStore{}
	gw := &mockGateway{}
	m := merchantWithSubaccount()
	m.SubaccountID = nil
	merchants.On("GetByID", mock.Anything, uint(1)).Return(m, nil)

	svc := NewService(merchants, &mockPartnerStore{}, &mockStore{}, &mockReserver{}, gw, nil)
	_, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 10})

	assert.ErrorIs(t, err, ErrNoSubaccount)
	gw.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdrawPartnerHappyPath(t *testing.T) {
	merchants := &mockMerchantStore{}
	partners := &mockPartnerStore{}
	reserver := &mockReserver{}
	gw := &mockGateway{}
	store := &mockStore{}

	partners.On("GetPartnerByID", mock.Anything, uint(7)).Return(&models.SplitPartner{
		ID: 7, MerchantID: 1, Name: "Parceiro", PixKey: "p@pix", SubaccountID: subID("sub_p7"),
	}, nil)
	merchants.On("GetFeeConfig", mock.Anything, uint(1)).
		Return(&models.FeeConfig{MerchantID: 1, PixOutFixed: 100}, nil)
	reserver.On("ReservePartnerWithdrawal", mock.Anything, mock.MatchedBy(func(w *models.Withdrawal) bool {
		return w.PartnerID != nil && *w.PartnerID == 7 && w.Total == 900 &&
			w.Status == models.WithdrawalStatusProcessing
	})).Return(nil)
	gw.On("Withdraw", mock.Anything, "sub_p7", int64(1000)).
		Return(&provider.SubaccountTransfer{ID: "tr_2"}, nil)
	store.On("UpdateStatus", mock.Anything, uint(12), models.WithdrawalStatusCompleted, "").Return(nil)
	reserver.On("Invalidate", mock.Anything, uint(1)).Return()

	svc := NewService(merchants, partners, store, reserver, gw, nil)
	res, err := svc.WithdrawPartner(context.Background(), 7, RequestInput{Amount: 10.00})
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, res.Status)
	// The row is born processing; there is no pending->processing hop.
	store.AssertNotCalled(t, "UpdateStatus",
		mock.Anything, mock.Anything, models.WithdrawalStatusProcessing, mock.Anything)
	gw.AssertExpectations(t)
}

func TestWithdrawMerchantTotalIsNetOfFee(t *testing.T) {
	merchants := &mockMerchantStore{}
	reserver := &mockReserver{}
	gw := &mockGateway{}
	store := &mockStore{}

	merchants.On("GetByID", mock.Anything, uint(1)).Return(merchantWithSubaccount(), nil)
	merchants.On("GetFeeConfig", mock.Anything, uint(1)).
		Return(&models.FeeConfig{MerchantID: 1, PixOutFixed: 150}, nil)
	reserver.On("ReserveMerchantWithdrawal", mock.Anything, mock.MatchedBy(func(w *models.Withdrawal) bool {
		return w.Total == w.Amount-w.Fee
	})).Return(nil)
	store.On("UpdateStatus", mock.Anything, uint(11), mock.Anything, mock.Anything).Return(nil)
	gw.On("Withdraw", mock.Anything, "sub_m1", int64(5000)).
		Return(&provider.SubaccountTransfer{ID: "tr_3"}, nil)
	reserver.On("Invalidate", mock.Anything, uint(1)).Return()

	svc := NewService(merchants, &mockPartnerStore{}, store, reserver, gw, nil)
	res, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 50.00})
	require.NoError(t, err)
	assert.InDelta(t, res.Amount-res.Fee, res.Total, 0.001)
	reserver.AssertExpectations(t)
}

func TestWithdrawRejectsAmountNotCoveringFee(t *testing.T) {
	merchants := &mockMerchantStore{}
	gw := &mockGateway{}
	reserver := &mockReserver{}

	merchants.On("GetByID", mock.Anything, uint(1)).Return(merchantWithSubaccount(), nil)
	merchants.On("GetFeeConfig", mock.Anything, uint(1)).
		Return(&models.FeeConfig{MerchantID: 1, PixOutFixed: 150}, nil)

	svc := NewService(merchants, &mockPartnerStore{}, &mockStore{}, reserver, gw, nil)
	_, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 1.50})

	assert.ErrorIs(t, err, ErrInvalidAmount)
	reserver.AssertNotCalled(t, "ReserveMerchantWithdrawal", mock.Anything, mock.Anything)
	gw.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdrawRejectsInvalidAmount(t *testing.T) {
	svc := NewService(&mockMerchantStore{}, &mockPartnerStore{}, &mockStore{}, &mockReserver{}, &mockGateway{}, nil)

	_, err := svc.WithdrawMerchant(context.Background(), 1, RequestInput{Amount: 0})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.WithdrawPartner(context.Background(), 1, RequestInput{Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
