package provider

import (
	"time"
)

// Webhook event names delivered by the provider.
const (
	EventChargeCompleted           = "CHARGE_COMPLETED"
	EventChargeExpired             = "CHARGE_EXPIRED"
	EventTransactionReceived       = "TRANSACTION_RECEIVED"
	EventTransactionRefundReceived = "TRANSACTION_REFUND_RECEIVED"
)

// WebhookCharge is the charge block inside an event payload.
type WebhookCharge struct {
	CorrelationID string     `json:"correlationID"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// WebhookPix is the pix-transaction block inside an event payload. Direct
// pix events carry the correlation id nested under the charge reference.
type WebhookPix struct {
	Charge     *WebhookCharge `json:"charge,omitempty"`
	EndToEndID string         `json:"endToEndId,omitempty"`
	Value      int64          `json:"value,omitempty"`
	Time       *time.Time     `json:"time,omitempty"`
}

// WebhookPayload is an inbound provider notification.
type WebhookPayload struct {
	Event  string         `json:"event"`
	Charge *WebhookCharge `json:"charge,omitempty"`
	Pix    *WebhookPix    `json:"pix,omitempty"`
}

// CorrelationID extracts the join key for the event. Charge events carry
// it directly; pix-transaction events nest it under the charge reference.
func (p *WebhookPayload) CorrelationID() string {
	switch p.Event {
	case EventChargeCompleted, EventChargeExpired:
		if p.Charge != nil {
			return p.Charge.CorrelationID
		}
	case EventTransactionReceived, EventTransactionRefundReceived:
		if p.Pix != nil && p.Pix.Charge != nil {
			return p.Pix.Charge.CorrelationID
		}
	}
	return ""
}

// PaidAt returns the payment timestamp carried by the event, if any.
func (p *WebhookPayload) PaidAt() *time.Time {
	if p.Charge != nil && p.Charge.PaidAt != nil {
		return p.Charge.PaidAt
	}
	if p.Pix != nil && p.Pix.Time != nil {
		return p.Pix.Time
	}
	return nil
}
