// Package notify delivers status-transition callbacks to the webhook
// endpoints a merchant has configured. Delivery is fire-and-forget per
// endpoint: failures are logged and never abort the loop or the
// provider-facing reconciliation response.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pixgate/internal/models"
	"pixgate/internal/services/fee"

	"go.uber.org/zap"
)

const defaultDeliveryTimeout = 5 * time.Second

// EndpointStore lists a merchant's active webhook endpoints.
type EndpointStore interface {
	ListActiveByMerchant(ctx context.Context, merchantID uint) ([]models.WebhookEndpoint, error)
}

// Envelope is the normalized payload posted to merchant endpoints.
type Envelope struct {
	Event string       `json:"event"`
	Data  EnvelopeData `json:"data"`
}

type EnvelopeData struct {
	ID        uint             `json:"id"`
	OrderID   string           `json:"order_id"`
	Amount    float64          `json:"amount"`
	Status    string           `json:"status"`
	Customer  EnvelopeCustomer `json:"customer"`
	CreatedAt time.Time        `json:"created_at"`
	PaidAt    *time.Time       `json:"paid_at,omitempty"`
}

type EnvelopeCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Dispatcher posts envelopes to subscribed endpoints.
type Dispatcher struct {
	store  EndpointStore
	client *http.Client
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher with a short per-request timeout.
func NewDispatcher(store EndpointStore, logger *zap.Logger, timeout time.Duration) *Dispatcher {
	if store == nil {
		panic("endpoint store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultDeliveryTimeout
	}
	return &Dispatcher{
		store:  store,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Dispatch posts the transaction's envelope to every active endpoint
// subscribed to the event. Endpoints match the exact event name or the
// payment_<status> convention. Per-endpoint failures are logged and do
// not stop delivery to the remaining endpoints.
func (d *Dispatcher) Dispatch(ctx context.Context, merchantID uint, event string, tx *models.Transaction) {
	endpoints, err := d.store.ListActiveByMerchant(ctx, merchantID)
	if err != nil {
		d.logger.Error("failed to list webhook endpoints",
			zap.Uint("merchant_id", merchantID), zap.Error(err))
		return
	}

	envelope := Envelope{
		Event: event,
		Data: EnvelopeData{
			ID:        tx.ID,
			OrderID:   tx.OrderID,
			Amount:    fee.FromCents(tx.Amount),
			Status:    tx.Status,
			Customer:  EnvelopeCustomer{Name: tx.CustomerName, Email: tx.CustomerEmail},
			CreatedAt: tx.CreatedAt,
			PaidAt:    tx.PaidAt,
		},
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		d.logger.Error("failed to encode webhook envelope", zap.Error(err))
		return
	}

	for _, ep := range endpoints {
		if !Subscribed(ep, event, tx.Status) {
			continue
		}
		if err := d.deliver(ctx, ep.URL, payload); err != nil {
			d.logger.Warn("webhook delivery failed",
				zap.Uint("merchant_id", merchantID),
				zap.Uint("endpoint_id", ep.ID),
				zap.String("url", ep.URL),
				zap.String("event", event),
				zap.Error(err))
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// Subscribed reports whether an endpoint wants the event, either by
// exact name or by the payment_<status> convention.
func Subscribed(ep models.WebhookEndpoint, event, status string) bool {
	if ep.Events.Contains(event) {
		return true
	}
	return ep.Events.Contains("payment_" + status)
}
