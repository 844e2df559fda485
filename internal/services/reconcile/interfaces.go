package reconcile

import (
	"context"
	"time"

	"pixgate/internal/models"
)

// Transaction namespaces a correlation id can resolve into. A correlation
// id lives in exactly one of them; stores are queried in priority order.
const (
	NamespaceMerchant = "merchant"
	NamespacePartner  = "partner"
)

// Outcome describes one applied (or replayed) status transition.
type Outcome struct {
	Namespace            string
	CorrelationID        string
	Status               string
	MerchantID           uint
	TransactionID        uint
	PartnerTransactionID uint
	Transaction          *models.Transaction
	Changed              bool
}

// Reconcilable is a record resolved by correlation id that can apply an
// idempotent status transition: replaying the same event produces the
// same end state.
type Reconcilable interface {
	Namespace() string
	Apply(ctx context.Context, status string, paidAt *time.Time) (*Outcome, error)
}

// Store resolves a correlation id within one transaction namespace.
type Store interface {
	FindByCorrelationID(ctx context.Context, correlationID string) (Reconcilable, error)
}

// Notifier fans a merchant status transition out to configured webhooks.
type Notifier interface {
	Dispatch(ctx context.Context, merchantID uint, event string, tx *models.Transaction)
}

// Invalidator drops cached balance snapshots after a write.
type Invalidator interface {
	Invalidate(ctx context.Context, merchantID uint)
}
