// Package balance derives merchant and partner balances from the
// transaction and withdrawal history. Balances are read-time
// aggregations; no cached balance row exists in the store, only a
// short-lived Redis snapshot invalidated on every balance-affecting
// write.
//
// Both balances use one definition: net of the platform fee, minus
// completed and in-flight withdrawals. The upstream system used the
// gross approved amount for merchants; that inconsistency is not
// reproduced here.
package balance

import (
	"context"
	"errors"
	"fmt"

	"pixgate/internal/models"
	"pixgate/internal/repositories/cache"
	"pixgate/internal/services/fee"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientBalance = errors.New("insufficient balance")

// Cache is the balance snapshot cache.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// MerchantBalance is a merchant's aggregate position, in cents.
type MerchantBalance struct {
	Approved  int64 `json:"approved"`
	Pending   int64 `json:"pending"`
	Cancelled int64 `json:"cancelled"`
	Available int64 `json:"available"`
}

// PartnerBalance is a partner's aggregate position, in cents. Earned is
// recomputed from approved merchant transactions on every read.
type PartnerBalance struct {
	TotalEarned        int64 `json:"total_earned"`
	TotalWithdrawn     int64 `json:"total_withdrawn"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
	Available          int64 `json:"available"`
}

// Service computes balances and reserves withdrawals atomically.
type Service struct {
	db     *gorm.DB
	cache  Cache
	logger *zap.Logger
}

// NewService creates a balance service.
func NewService(db *gorm.DB, c Cache, logger *zap.Logger) *Service {
	if db == nil {
		panic("db is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, cache: c, logger: logger}
}

// MerchantBalance aggregates a merchant's transactions and withdrawals.
func (s *Service) MerchantBalance(ctx context.Context, merchantID uint) (*MerchantBalance, error) {
	key := cache.MerchantBalanceKey(merchantID)
	if s.cache != nil {
		var cached MerchantBalance
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	bal, err := s.merchantBalance(ctx, s.db, merchantID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, bal); err != nil {
			s.logger.Warn("failed to cache merchant balance", zap.Uint("merchant_id", merchantID), zap.Error(err))
		}
	}
	return bal, nil
}

func (s *Service) merchantBalance(ctx context.Context, db *gorm.DB, merchantID uint) (*MerchantBalance, error) {
	type row struct {
		Status string
		Amount int64
		Net    int64
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("status, COALESCE(SUM(amount), 0) AS amount, COALESCE(SUM(net_amount), 0) AS net").
		Where("merchant_id = ?", merchantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate transactions: %w", err)
	}

	bal := &MerchantBalance{}
	for _, r := range rows {
		switch r.Status {
		case models.StatusApproved:
			bal.Approved += r.Amount
			bal.Available += r.Net
		case models.StatusPending:
			bal.Pending += r.Amount
		case models.StatusCancelled, models.StatusRefunded, models.StatusExpired:
			bal.Cancelled += r.Amount
		}
	}

	outflow, err := s.withdrawalOutflow(ctx, db, "merchant_id = ? AND partner_id IS NULL", merchantID)
	if err != nil {
		return nil, err
	}
	bal.Available -= outflow
	return bal, nil
}

// PartnerBalance aggregates a partner's commissions and withdrawals.
// Commissions cover approved merchant transactions since the partner's
// profile link date and are recomputed on read, never stored.
func (s *Service) PartnerBalance(ctx context.Context, partnerID uint) (*PartnerBalance, error) {
	var partner models.SplitPartner
	if err := s.db.WithContext(ctx).First(&partner, partnerID).Error; err != nil {
		return nil, fmt.Errorf("load partner: %w", err)
	}
	return s.partnerBalance(ctx, s.db, &partner)
}

func (s *Service) partnerBalance(ctx context.Context, db *gorm.DB, partner *models.SplitPartner) (*PartnerBalance, error) {
	since := partner.CreatedAt
	if partner.LinkedAt != nil {
		since = *partner.LinkedAt
	}

	var txs []models.Transaction
	err := db.WithContext(ctx).
		Where("merchant_id = ? AND status = ? AND created_at >= ?",
			partner.MerchantID, models.StatusApproved, since).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("load approved transactions: %w", err)
	}

	bal := &PartnerBalance{}
	for _, tx := range txs {
		bal.TotalEarned += fee.PartnerCommission(*partner, tx.NetAmount)
	}

	withdrawn, err := s.sumWithdrawals(ctx, db, partner.ID, models.WithdrawalStatusCompleted)
	if err != nil {
		return nil, err
	}
	pending, err := s.sumWithdrawals(ctx, db, partner.ID,
		models.WithdrawalStatusPending, models.WithdrawalStatusProcessing)
	if err != nil {
		return nil, err
	}

	bal.TotalWithdrawn = withdrawn
	bal.PendingWithdrawals = pending
	bal.Available = bal.TotalEarned - bal.TotalWithdrawn - bal.PendingWithdrawals
	return bal, nil
}

func (s *Service) sumWithdrawals(ctx context.Context, db *gorm.DB, partnerID uint, statuses ...string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(total), 0)").
		Where("partner_id = ? AND status IN ?", partnerID, statuses).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum withdrawals: %w", err)
	}
	return total, nil
}

func (s *Service) withdrawalOutflow(ctx context.Context, db *gorm.DB, cond string, args ...interface{}) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(total), 0)").
		Where(cond, args...).
		Where("status IN ?", []string{
			models.WithdrawalStatusPending,
			models.WithdrawalStatusProcessing,
			models.WithdrawalStatusCompleted,
		}).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum withdrawal outflow: %w", err)
	}
	return total, nil
}

// ReserveMerchantWithdrawal checks the merchant balance and inserts the
// withdrawal row in one serialized step. The merchant row is locked for
// the duration, so two concurrent requests cannot both pass the check.
func (s *Service) ReserveMerchantWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var merchant models.Merchant
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&merchant, w.MerchantID).Error; err != nil {
			return fmt.Errorf("lock merchant: %w", err)
		}

		bal, err := s.merchantBalance(ctx, tx, w.MerchantID)
		if err != nil {
			return err
		}
		if w.Amount > bal.Available {
			return ErrInsufficientBalance
		}
		return tx.Create(w).Error
	})
	if err != nil {
		return err
	}
	s.Invalidate(ctx, w.MerchantID)
	return nil
}

// ReservePartnerWithdrawal is the partner-flow counterpart; the partner
// row is the lock.
func (s *Service) ReservePartnerWithdrawal(ctx context.Context, w *models.Withdrawal) error {
	if w.PartnerID == nil {
		return errors.New("partner withdrawal requires a partner id")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var partner models.SplitPartner
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&partner, *w.PartnerID).Error; err != nil {
			return fmt.Errorf("lock partner: %w", err)
		}

		bal, err := s.partnerBalance(ctx, tx, &partner)
		if err != nil {
			return err
		}
		if w.Amount > bal.Available {
			return ErrInsufficientBalance
		}
		return tx.Create(w).Error
	})
}

// Invalidate drops the merchant's cached balance snapshot.
func (s *Service) Invalidate(ctx context.Context, merchantID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.MerchantBalanceKey(merchantID)); err != nil {
		s.logger.Warn("failed to invalidate balance cache", zap.Uint("merchant_id", merchantID), zap.Error(err))
	}
}
