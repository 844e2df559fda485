package provider

import (
	"context"
	"net/http"
	"time"
)

// Customer identifies the payer. The provider requires at least one
// identifier beyond the name; callers omit the whole block otherwise.
type Customer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	TaxID string `json:"taxID,omitempty"`
}

// HasIdentifier reports whether the provider would accept this customer
// block. A name alone is insufficient.
func (c Customer) HasIdentifier() bool {
	return c.Email != "" || c.Phone != "" || c.TaxID != ""
}

// SplitLine routes part of a charge to a PIX destination at settlement.
type SplitLine struct {
	PixKey string `json:"pixKey"`
	Value  int64  `json:"value"`
}

// ChargeRequest creates a payment instrument. Value is in cents.
type ChargeRequest struct {
	CorrelationID string      `json:"correlationID"`
	Value         int64       `json:"value"`
	Comment       string      `json:"comment,omitempty"`
	ExpiresIn     int         `json:"expiresIn,omitempty"`
	Customer      *Customer   `json:"customer,omitempty"`
	Splits        []SplitLine `json:"splits,omitempty"`
}

// CreatedCharge is the subset of the provider's charge response the
// platform consumes.
type CreatedCharge struct {
	ChargeID       string    `json:"chargeId"`
	CorrelationID  string    `json:"correlationId"`
	Status         string    `json:"status"`
	BRCode         string    `json:"brCode"`
	QRCodeImage    string    `json:"qrCodeImage"`
	PaymentLinkURL string    `json:"paymentLinkUrl"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// CreateCharge creates a charge at the provider. The returned payment
// instrument (BR code + QR image) is what the customer pays against.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*CreatedCharge, error) {
	var out struct {
		Charge CreatedCharge `json:"charge"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/charge", req, &out); err != nil {
		return nil, err
	}
	return &out.Charge, nil
}
