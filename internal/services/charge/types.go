package charge

import "time"

// CreateChargeInput is the shared request body for all charge variants.
// Amount is a decimal currency value; at least one customer identifier
// beyond the name is required for the provider to accept a customer
// block (the block is omitted otherwise).
type CreateChargeInput struct {
	Amount        float64 `json:"amount"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	CustomerTaxID string  `json:"customerTaxId"`
	OrderID       string  `json:"orderId"`
	ExpiresIn     int     `json:"expiresIn"`
}

// Result is the success envelope for a created charge. Warning is set
// when the charge exists upstream but local persistence was incomplete.
type Result struct {
	Success              bool      `json:"success"`
	TransactionID        uint      `json:"transactionId,omitempty"`
	PartnerTransactionID uint      `json:"partnerTransactionId,omitempty"`
	OrderID              string    `json:"orderId"`
	CorrelationID        string    `json:"correlationId"`
	Amount               float64   `json:"amount"`
	Fee                  float64   `json:"fee"`
	NetAmount            float64   `json:"netAmount"`
	PixCode              string    `json:"pixCode"`
	QRCodeImage          string    `json:"qrCodeImage"`
	ExpiresAt            time.Time `json:"expiresAt"`
	PaymentLinkURL       string    `json:"paymentLinkUrl,omitempty"`
	SplitCount           int       `json:"splitCount,omitempty"`
	Warning              string    `json:"warning,omitempty"`
}
