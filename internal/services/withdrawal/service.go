// Package withdrawal orchestrates payouts: an atomic balance
// reservation followed by the provider transfer, finalized to completed
// or failed. Failed rows are kept as audit records.
package withdrawal

import (
	"context"
	"errors"
	"fmt"

	"pixgate/internal/models"
	"pixgate/internal/repositories"
	"pixgate/internal/services/fee"

	"go.uber.org/zap"
)

// RequestInput is a payout request. Amount is a decimal currency value.
type RequestInput struct {
	Amount float64 `json:"amount"`
}

// Result is the payout response. Amounts are decimal currency values.
type Result struct {
	ID            uint    `json:"id"`
	Amount        float64 `json:"amount"`
	Fee           float64 `json:"fee"`
	Total         float64 `json:"total"`
	Status        string  `json:"status"`
	FailureReason string  `json:"failureReason,omitempty"`
	TransferID    string  `json:"transferId,omitempty"`
}

// Service is the withdrawal orchestrator.
type Service struct {
	merchants MerchantStore
	partners  PartnerStore
	store     Store
	reserver  Reserver
	gateway   ProviderGateway
	logger    *zap.Logger
}

// NewService creates a withdrawal service.
func NewService(merchants MerchantStore, partners PartnerStore, store Store, reserver Reserver, gateway ProviderGateway, logger *zap.Logger) *Service {
	if merchants == nil || partners == nil || store == nil || reserver == nil || gateway == nil {
		panic("all withdrawal service dependencies are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		merchants: merchants,
		partners:  partners,
		store:     store,
		reserver:  reserver,
		gateway:   gateway,
		logger:    logger,
	}
}

// WithdrawMerchant pays out from the merchant's provider subaccount.
// The balance check and the row insert happen in one serialized step;
// an insufficient balance never reaches the provider.
func (s *Service) WithdrawMerchant(ctx context.Context, merchantID uint, in RequestInput) (*Result, error) {
	amountCents := fee.ToCents(in.Amount)
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	merchant, err := s.merchants.GetByID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("load merchant: %w", err)
	}
	if merchant.SubaccountID == nil || *merchant.SubaccountID == "" {
		return nil, ErrNoSubaccount
	}

	feeCfg, err := s.merchants.GetFeeConfig(ctx, merchant.ID)
	if err != nil {
		return nil, fmt.Errorf("load fee config: %w", err)
	}
	if amountCents <= feeCfg.PixOutFixed {
		return nil, ErrInvalidAmount
	}

	// Total is what reaches the recipient: the requested amount minus
	// the fixed payout fee.
	w := &models.Withdrawal{
		MerchantID:        merchant.ID,
		RecipientName:     merchant.Name,
		RecipientDocument: merchant.Document,
		PixKey:            merchant.PixKey,
		Amount:            amountCents,
		Fee:               feeCfg.PixOutFixed,
		Total:             amountCents - feeCfg.PixOutFixed,
		Status:            models.WithdrawalStatusPending,
	}
	if err := s.reserver.ReserveMerchantWithdrawal(ctx, w); err != nil {
		return nil, err
	}

	return s.execute(ctx, w, *merchant.SubaccountID, merchant.ID)
}

// WithdrawPartner pays out a partner's commission balance from the
// partner's provider subaccount.
func (s *Service) WithdrawPartner(ctx context.Context, partnerID uint, in RequestInput) (*Result, error) {
	amountCents := fee.ToCents(in.Amount)
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}

	partner, err := s.partners.GetPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("load partner: %w", err)
	}
	if partner.SubaccountID == nil || *partner.SubaccountID == "" {
		return nil, ErrNoSubaccount
	}

	feeCfg, err := s.merchants.GetFeeConfig(ctx, partner.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("load fee config: %w", err)
	}
	if amountCents <= feeCfg.PixOutFixed {
		return nil, ErrInvalidAmount
	}

	// Partner rows start in processing: the provider call follows
	// immediately and there is no intermediate approval step.
	w := &models.Withdrawal{
		MerchantID:        partner.MerchantID,
		PartnerID:         &partner.ID,
		RecipientName:     partner.Name,
		PixKey:            partner.PixKey,
		Amount:            amountCents,
		Fee:               feeCfg.PixOutFixed,
		Total:             amountCents - feeCfg.PixOutFixed,
		Status:            models.WithdrawalStatusProcessing,
	}
	if err := s.reserver.ReservePartnerWithdrawal(ctx, w); err != nil {
		return nil, err
	}

	return s.execute(ctx, w, *partner.SubaccountID, partner.MerchantID)
}

// execute runs the provider transfer for a reserved withdrawal and
// finalizes the row. The reserved row already counts against the
// balance, so a crash between reserve and finalize cannot over-pay.
func (s *Service) execute(ctx context.Context, w *models.Withdrawal, subaccountID string, merchantID uint) (*Result, error) {
	if w.Status == models.WithdrawalStatusPending {
		if err := s.store.UpdateStatus(ctx, w.ID, models.WithdrawalStatusProcessing, ""); err != nil {
			s.logger.Warn("failed to mark withdrawal processing", zap.Uint("withdrawal_id", w.ID), zap.Error(err))
		}
	}

	transfer, err := s.gateway.Withdraw(ctx, subaccountID, w.Amount)
	if err != nil {
		reason := err.Error()
		if updErr := s.store.UpdateStatus(ctx, w.ID, models.WithdrawalStatusFailed, reason); updErr != nil {
			s.logger.Error("failed to mark withdrawal failed",
				zap.Uint("withdrawal_id", w.ID), zap.Error(updErr))
		}
		s.reserver.Invalidate(ctx, merchantID)
		return &Result{
			ID:            w.ID,
			Amount:        fee.FromCents(w.Amount),
			Fee:           fee.FromCents(w.Fee),
			Total:         fee.FromCents(w.Total),
			Status:        models.WithdrawalStatusFailed,
			FailureReason: reason,
		}, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if err := s.store.UpdateStatus(ctx, w.ID, models.WithdrawalStatusCompleted, ""); err != nil {
		s.logger.Error("failed to mark withdrawal completed",
			zap.Uint("withdrawal_id", w.ID), zap.Error(err))
	}
	s.reserver.Invalidate(ctx, merchantID)

	return &Result{
		ID:         w.ID,
		Amount:     fee.FromCents(w.Amount),
		Fee:        fee.FromCents(w.Fee),
		Total:      fee.FromCents(w.Total),
		Status:     models.WithdrawalStatusCompleted,
		TransferID: transfer.ID,
	}, nil
}

// ListMerchant returns a merchant's own withdrawals, newest first.
func (s *Service) ListMerchant(ctx context.Context, merchantID uint, limit, offset int) ([]models.Withdrawal, error) {
	return s.store.ListByMerchant(ctx, merchantID, limit, offset)
}

// ListPartner returns a partner's withdrawals, newest first.
func (s *Service) ListPartner(ctx context.Context, partnerID uint, limit, offset int) ([]models.Withdrawal, error) {
	return s.store.ListByPartner(ctx, partnerID, limit, offset)
}
