package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixgate/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChargeStore resolves correlation ids in the merchant namespace
// (PixCharge + Transaction). It is queried first.
type ChargeStore struct {
	db *gorm.DB
}

// NewChargeStore creates the merchant-namespace store.
func NewChargeStore(db *gorm.DB) *ChargeStore {
	return &ChargeStore{db: db}
}

func (s *ChargeStore) FindByCorrelationID(ctx context.Context, correlationID string) (Reconcilable, error) {
	var charge models.PixCharge
	err := s.db.WithContext(ctx).Where("correlation_id = ?", correlationID).First(&charge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup pix charge: %w", err)
	}
	return &chargeRecord{db: s.db, charge: charge}, nil
}

type chargeRecord struct {
	db     *gorm.DB
	charge models.PixCharge
}

func (r *chargeRecord) Namespace() string { return NamespaceMerchant }

// Apply updates the PixCharge (provider vocabulary) and the linked
// Transaction in one database transaction. The transaction update is
// conditional on the status actually changing, which makes replays
// converge on the same end state.
func (r *chargeRecord) Apply(ctx context.Context, status string, paidAt *time.Time) (*Outcome, error) {
	outcome := &Outcome{
		Namespace:     NamespaceMerchant,
		CorrelationID: r.charge.CorrelationID,
		Status:        status,
		MerchantID:    r.charge.MerchantID,
		TransactionID: r.charge.TransactionID,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chargeUpdates := map[string]interface{}{"status": providerStatus(status)}
		txUpdates := map[string]interface{}{"status": status}
		if paidAt != nil {
			chargeUpdates["paid_at"] = paidAt
			txUpdates["paid_at"] = paidAt
		}

		if err := tx.Model(&models.PixCharge{}).
			Where("id = ?", r.charge.ID).
			Updates(chargeUpdates).Error; err != nil {
			return fmt.Errorf("update pix charge: %w", err)
		}

		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status <> ?", r.charge.TransactionID, status).
			Updates(txUpdates)
		if res.Error != nil {
			return fmt.Errorf("update transaction: %w", res.Error)
		}
		outcome.Changed = res.RowsAffected > 0

		var t models.Transaction
		if err := tx.First(&t, r.charge.TransactionID).Error; err != nil {
			return fmt.Errorf("reload transaction: %w", err)
		}
		outcome.Transaction = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// providerStatus maps a local status to the provider vocabulary mirrored
// on the PixCharge row.
func providerStatus(status string) string {
	switch status {
	case models.StatusApproved:
		return "COMPLETED"
	case models.StatusExpired:
		return "EXPIRED"
	case models.StatusRefunded:
		return "REFUNDED"
	case models.StatusCancelled:
		return "CANCELLED"
	default:
		return "ACTIVE"
	}
}

// PartnerStore resolves correlation ids in the partner-transaction
// namespace. It is queried after the merchant namespace.
type PartnerStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPartnerStore creates the partner-namespace store.
func NewPartnerStore(db *gorm.DB, logger *zap.Logger) *PartnerStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PartnerStore{db: db, logger: logger}
}

func (s *PartnerStore) FindByCorrelationID(ctx context.Context, correlationID string) (Reconcilable, error) {
	var pt models.PartnerTransaction
	err := s.db.WithContext(ctx).Where("correlation_id = ?", correlationID).First(&pt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup partner transaction: %w", err)
	}
	return &partnerRecord{db: s.db, logger: s.logger, tx: pt}, nil
}

type partnerRecord struct {
	db     *gorm.DB
	logger *zap.Logger
	tx     models.PartnerTransaction
}

func (r *partnerRecord) Namespace() string { return NamespacePartner }

// Apply updates the partner transaction, mapping approved to completed
// for this namespace. The product sold counter is incremented once per
// actual transition, after the row update commits; counter failures are
// logged and never fail the reconciliation.
func (r *partnerRecord) Apply(ctx context.Context, status string, paidAt *time.Time) (*Outcome, error) {
	if status == models.StatusApproved {
		status = models.StatusCompleted
	}

	outcome := &Outcome{
		Namespace:            NamespacePartner,
		CorrelationID:        r.tx.CorrelationID,
		Status:               status,
		PartnerTransactionID: r.tx.ID,
	}

	updates := map[string]interface{}{"status": status}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	res := r.db.WithContext(ctx).
		Model(&models.PartnerTransaction{}).
		Where("id = ? AND status <> ?", r.tx.ID, status).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update partner transaction: %w", res.Error)
	}
	outcome.Changed = res.RowsAffected > 0

	if outcome.Changed && status == models.StatusCompleted && r.tx.ProductID != 0 {
		err := r.db.WithContext(ctx).
			Model(&models.PartnerProduct{}).
			Where("id = ?", r.tx.ProductID).
			UpdateColumn("sold_count", gorm.Expr("sold_count + 1")).Error
		if err != nil {
			r.logger.Warn("failed to increment product sold counter",
				zap.Uint("product_id", r.tx.ProductID),
				zap.Uint("partner_transaction_id", r.tx.ID),
				zap.Error(err))
		}
	}
	return outcome, nil
}
