// Package reconcile applies asynchronous provider notifications to the
// local transaction state. A provider-assigned correlation id is mapped
// back to exactly one of two namespaces (merchant transactions, partner
// transactions) and an idempotent status transition is applied, followed
// by downstream notification fan-out for merchant transitions.
package reconcile

import (
	"context"
	"errors"

	"pixgate/internal/models"
	"pixgate/internal/provider"

	"go.uber.org/zap"
)

var (
	ErrNotFound             = errors.New("correlation id not found")
	ErrUnknownEvent         = errors.New("unknown event")
	ErrMissingCorrelationID = errors.New("missing correlation id")
)

// StatusForEvent maps a provider event to the resulting local status.
// The mapping is exhaustive: unknown events are acknowledged upstream
// and ignored, never retried.
func StatusForEvent(event string) (string, bool) {
	switch event {
	case provider.EventChargeCompleted, provider.EventTransactionReceived:
		return models.StatusApproved, true
	case provider.EventChargeExpired:
		return models.StatusExpired, true
	case provider.EventTransactionRefundReceived:
		return models.StatusRefunded, true
	}
	return "", false
}

// Service is the webhook reconciler.
type Service struct {
	stores   []Store
	notifier Notifier
	balances Invalidator
	logger   *zap.Logger
}

// NewService creates a reconciler querying the given stores in order.
func NewService(notifier Notifier, balances Invalidator, logger *zap.Logger, stores ...Store) *Service {
	if len(stores) == 0 {
		panic("at least one store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		stores:   stores,
		notifier: notifier,
		balances: balances,
		logger:   logger,
	}
}

// HandleEvent resolves the event's correlation id and applies the status
// transition. Fan-out is attempted on every delivery, including replays:
// delivery to merchant webhooks is at-least-once, not deduplicated.
func (s *Service) HandleEvent(ctx context.Context, payload *provider.WebhookPayload) (*Outcome, error) {
	status, ok := StatusForEvent(payload.Event)
	if !ok {
		return nil, ErrUnknownEvent
	}

	correlationID := payload.CorrelationID()
	if correlationID == "" {
		return nil, ErrMissingCorrelationID
	}

	for _, store := range s.stores {
		record, err := store.FindByCorrelationID(ctx, correlationID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		outcome, err := record.Apply(ctx, status, payload.PaidAt())
		if err != nil {
			return nil, err
		}

		s.logger.Info("reconciled provider event",
			zap.String("event", payload.Event),
			zap.String("correlation_id", correlationID),
			zap.String("namespace", outcome.Namespace),
			zap.String("status", outcome.Status),
			zap.Bool("changed", outcome.Changed))

		if outcome.Namespace == NamespaceMerchant {
			if s.balances != nil {
				s.balances.Invalidate(ctx, outcome.MerchantID)
			}
			if s.notifier != nil && outcome.Transaction != nil {
				s.notifier.Dispatch(ctx, outcome.MerchantID, payload.Event, outcome.Transaction)
			}
		}
		return outcome, nil
	}

	s.logger.Warn("correlation id not found in any namespace",
		zap.String("event", payload.Event),
		zap.String("correlation_id", correlationID))
	return nil, ErrNotFound
}
